package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"reviewhub/internal/dto"
	"reviewhub/internal/models"
)

type TitleRepo struct {
	db *gorm.DB
}

func NewTitleRepo(db *gorm.DB) *TitleRepo {
	return &TitleRepo{db: db}
}

// List applies the supported filters with AND semantics and returns titles
// ordered by name, with Category and Genres preloaded.
func (r *TitleRepo) List(ctx context.Context, f dto.TitleFilters) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Title{})
	if f.Name != "" {
		q = q.Where("titles.name ILIKE ?", "%"+f.Name+"%")
	}
	if f.Category != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", f.Category)
	}
	if f.Genre != "" {
		q = q.Joins("JOIN title_genres tg ON tg.title_id = titles.id").
			Joins("JOIN genres g ON g.id = tg.genre_id").
			Where("g.slug = ?", f.Genre)
	}
	if f.Year != nil {
		q = q.Where("titles.year = ?", *f.Year)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	if err := q.Preload("Category").Preload("Genres").
		Order("titles.name asc").
		Limit(f.PageSize).
		Offset(f.Offset()).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("get titles: %w", err)
	}
	return list, total, nil
}

func (r *TitleRepo) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	if err := r.db.WithContext(ctx).Preload("Category").Preload("Genres").First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TitleRepo) Create(ctx context.Context, t *models.Title) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create title: %w", err)
	}
	return nil
}

func (r *TitleRepo) Update(ctx context.Context, t *models.Title) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	return nil
}

// ReplaceGenres swaps the title's genre set for the given one.
func (r *TitleRepo) ReplaceGenres(ctx context.Context, t *models.Title, genres []models.Genre) error {
	if err := r.db.WithContext(ctx).Model(t).Association("Genres").Replace(genres); err != nil {
		return fmt.Errorf("replace title genres: %w", err)
	}
	t.Genres = genres
	return nil
}

// ClearCategory detaches the title from its category.
func (r *TitleRepo) ClearCategory(ctx context.Context, t *models.Title) error {
	if err := r.db.WithContext(ctx).Model(t).Update("category_id", nil).Error; err != nil {
		return fmt.Errorf("clear title category: %w", err)
	}
	t.CategoryID = nil
	t.Category = nil
	return nil
}

func (r *TitleRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
