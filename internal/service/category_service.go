package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
)

var (
	ErrSlugTaken        = errors.New("slug already in use")
	ErrCategoryNotFound = errors.New("category not found")
)

type CategoryService interface {
	List(ctx context.Context, search string, page dto.PageQuery) ([]models.Category, int64, error)
	Create(ctx context.Context, in dto.CreateCategoryDTO) (*models.Category, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryService struct {
	repo *repository.CategoryRepo
}

func NewCategoryService(repo *repository.CategoryRepo) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, search string, page dto.PageQuery) ([]models.Category, int64, error) {
	return s.repo.List(ctx, search, page.PageSize, page.Offset())
}

func (s *categoryService) Create(ctx context.Context, in dto.CreateCategoryDTO) (*models.Category, error) {
	cat := in.ToModel()
	if err := s.repo.Create(ctx, &cat); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return &cat, nil
}

func (s *categoryService) DeleteBySlug(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
