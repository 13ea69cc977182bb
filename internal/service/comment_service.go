package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, page dto.PageQuery) ([]models.Comment, int64, error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error)
	Create(ctx context.Context, titleID, reviewID int64, author *Claims, in dto.CreateCommentDTO) (*models.Comment, error)
	Update(ctx context.Context, titleID, reviewID, commentID int64, actor *Claims, in dto.UpdateCommentDTO) (*models.Comment, error)
	Delete(ctx context.Context, titleID, reviewID, commentID int64, actor *Claims) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *commentService) List(ctx context.Context, titleID, reviewID int64, page dto.PageQuery) ([]models.Comment, int64, error) {
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByReview(ctx, reviewID, page.PageSize, page.Offset())
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Create(ctx context.Context, titleID, reviewID int64, author *Claims, in dto.CreateCommentDTO) (*models.Comment, error) {
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Authored: models.Authored{Text: in.Text},
		AuthorID: author.UserID,
		ReviewID: reviewID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, reviewID, comment.ID)
}

func (s *commentService) Update(ctx context.Context, titleID, reviewID, commentID int64, actor *Claims, in dto.UpdateCommentDTO) (*models.Comment, error) {
	comment, err := s.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, comment.AuthorID) {
		return nil, ErrForbidden
	}

	if in.Text != nil {
		comment.Text = *in.Text
	}
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, titleID, reviewID, commentID int64, actor *Claims) error {
	comment, err := s.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if !canModify(actor, comment.AuthorID) {
		return ErrForbidden
	}
	return s.commentRepo.Delete(ctx, comment)
}

// checkReview verifies the whole nested path: the review must exist and
// belong to the given title.
func (s *commentService) checkReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.reviewRepo.GetByID(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}
