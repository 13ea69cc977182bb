package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/cache"
	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("author already reviewed this title")
	ErrForbidden       = errors.New("not allowed to modify this resource")
)

type ReviewService interface {
	List(ctx context.Context, titleID int64, page dto.PageQuery) ([]models.Review, int64, error)
	Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	Create(ctx context.Context, titleID int64, author *Claims, in dto.CreateReviewDTO) (*models.Review, error)
	Update(ctx context.Context, titleID, reviewID int64, actor *Claims, in dto.UpdateReviewDTO) (*models.Review, error)
	Delete(ctx context.Context, titleID, reviewID int64, actor *Claims) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  *repository.TitleRepo
	ratings    *cache.RatingCache
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo *repository.TitleRepo, ratings *cache.RatingCache) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		ratings:    ratings,
	}
}

func (s *reviewService) List(ctx context.Context, titleID int64, page dto.PageQuery) ([]models.Review, int64, error) {
	if err := s.checkTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviewRepo.ListByTitle(ctx, titleID, page.PageSize, page.Offset())
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	if err := s.checkTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// Create enforces one review per (title, author). The existence check gives
// a friendly error in the common case; the unique index catches the
// concurrent one.
func (s *reviewService) Create(ctx context.Context, titleID int64, author *Claims, in dto.CreateReviewDTO) (*models.Review, error) {
	if err := s.checkTitle(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsByTitleAndAuthor(ctx, titleID, author.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		Authored: models.Authored{Text: in.Text},
		AuthorID: author.UserID,
		TitleID:  titleID,
		Score:    in.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	s.ratings.Invalidate(ctx, titleID)
	return s.reviewRepo.GetByID(ctx, titleID, review.ID)
}

func (s *reviewService) Update(ctx context.Context, titleID, reviewID int64, actor *Claims, in dto.UpdateReviewDTO) (*models.Review, error) {
	review, err := s.Get(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, review.AuthorID) {
		return nil, ErrForbidden
	}

	if in.Text != nil {
		review.Text = *in.Text
	}
	if in.Score != nil {
		review.Score = *in.Score
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	s.ratings.Invalidate(ctx, titleID)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, titleID, reviewID int64, actor *Claims) error {
	review, err := s.Get(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !canModify(actor, review.AuthorID) {
		return ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, review); err != nil {
		return err
	}
	s.ratings.Invalidate(ctx, titleID)
	return nil
}

func (s *reviewService) checkTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}
