package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
)

var ErrGenreNotFound = errors.New("genre not found")

type GenreService interface {
	List(ctx context.Context, search string, page dto.PageQuery) ([]models.Genre, int64, error)
	Create(ctx context.Context, in dto.CreateGenreDTO) (*models.Genre, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreService struct {
	repo *repository.GenreRepo
}

func NewGenreService(repo *repository.GenreRepo) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) List(ctx context.Context, search string, page dto.PageQuery) ([]models.Genre, int64, error) {
	return s.repo.List(ctx, search, page.PageSize, page.Offset())
}

func (s *genreService) Create(ctx context.Context, in dto.CreateGenreDTO) (*models.Genre, error) {
	g := in.ToModel()
	if err := s.repo.Create(ctx, &g); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return &g, nil
}

func (s *genreService) DeleteBySlug(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
