package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"reviewhub/internal/cache"
	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
)

var (
	ErrTitleNotFound       = errors.New("title not found")
	ErrUnknownCategorySlug = errors.New("unknown category slug")
	ErrUnknownGenreSlug    = errors.New("unknown genre slug")
	ErrYearOutOfRange      = errors.New("year is out of range")
)

// ValidateYear accepts years from 0 through the current year.
func ValidateYear(year int) error {
	if year < 0 || year > time.Now().Year() {
		return fmt.Errorf("year %d: %w", year, ErrYearOutOfRange)
	}
	return nil
}

type TitleService interface {
	List(ctx context.Context, f dto.TitleFilters) ([]models.Title, int64, error)
	Get(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, in dto.CreateTitleDTO) (*models.Title, error)
	Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    *repository.TitleRepo
	categoryRepo *repository.CategoryRepo
	genreRepo    *repository.GenreRepo
	reviewRepo   repository.ReviewRepository
	ratings      *cache.RatingCache
}

func NewTitleService(
	titleRepo *repository.TitleRepo,
	categoryRepo *repository.CategoryRepo,
	genreRepo *repository.GenreRepo,
	reviewRepo repository.ReviewRepository,
	ratings *cache.RatingCache,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		reviewRepo:   reviewRepo,
		ratings:      ratings,
	}
}

// List attaches ratings from one grouped aggregate query; titles without
// reviews keep a nil rating.
func (s *titleService) List(ctx context.Context, f dto.TitleFilters) ([]models.Title, int64, error) {
	titles, total, err := s.titleRepo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}
	averages, err := s.reviewRepo.AverageScores(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range titles {
		if avg, ok := averages[titles[i].ID]; ok {
			titles[i].Rating = &avg
		}
	}
	return titles, total, nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if rating, ok := s.ratings.Get(ctx, id); ok {
		title.Rating = rating
		return title, nil
	}

	rating, err := s.reviewRepo.AverageScore(ctx, id)
	if err != nil {
		return nil, err
	}
	title.Rating = rating
	s.ratings.Set(ctx, id, rating)
	return title, nil
}

func (s *titleService) Create(ctx context.Context, in dto.CreateTitleDTO) (*models.Title, error) {
	if err := ValidateYear(*in.Year); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, in.Category)
	if err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, in.Genres)
	if err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        in.Name,
		Year:        *in.Year,
		Description: in.Description,
		CategoryID:  &category.ID,
		Category:    category,
		Genres:      genres,
	}
	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}
	return title, nil
}

func (s *titleService) Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*models.Title, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if in.Name != nil {
		title.Name = *in.Name
	}
	if in.Year != nil {
		if err := ValidateYear(*in.Year); err != nil {
			return nil, err
		}
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = in.Description
	}
	if in.Category != nil {
		if *in.Category == "" {
			if err := s.titleRepo.ClearCategory(ctx, title); err != nil {
				return nil, err
			}
		} else {
			category, err := s.resolveCategory(ctx, *in.Category)
			if err != nil {
				return nil, err
			}
			title.CategoryID = &category.ID
			title.Category = category
		}
	}

	if in.Genres != nil {
		genres, err := s.resolveGenres(ctx, *in.Genres)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}

	rating, err := s.reviewRepo.AverageScore(ctx, id)
	if err != nil {
		return nil, err
	}
	title.Rating = rating
	return title, nil
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	s.ratings.Invalidate(ctx, id)
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownCategorySlug
		}
		return nil, err
	}
	return category, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	genres, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(genres))
	for _, g := range genres {
		found[g.Slug] = true
	}
	for _, slug := range slugs {
		if !found[slug] {
			return nil, ErrUnknownGenreSlug
		}
	}
	return genres, nil
}
