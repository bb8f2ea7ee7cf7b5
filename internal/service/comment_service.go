package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"kidtube/internal/cache"
	"kidtube/internal/models"
	"kidtube/internal/observability"
	"kidtube/internal/repository"
)

// CommentService manages comments on videos and keeps the video's
// comments counter in step with comment rows. Creation and deletion
// run in a transaction so the row and the counter move together.
type CommentService struct {
	db       *gorm.DB
	comments repository.CommentRepository
	videos   repository.VideoRepository
	users    repository.UserRepository
}

func NewCommentService(db *gorm.DB, comments repository.CommentRepository, videos repository.VideoRepository, users repository.UserRepository) *CommentService {
	return &CommentService{db: db, comments: comments, videos: videos, users: users}
}

// Create stores the comment and increments the video's comments
// counter atomically. The video must exist; the author is not
// validated so orphaned authors degrade to a placeholder on read.
func (s *CommentService) Create(ctx context.Context, comment *models.Comment) error {
	if strings.TrimSpace(comment.Content) == "" {
		return models.NewValidationError("content is required")
	}
	if _, err := s.videos.GetByID(ctx, comment.VideoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("video", comment.VideoID)
		}
		return models.NewInternalError("failed to get video", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCommentRepository(tx).Create(ctx, comment); err != nil {
			return err
		}
		return repository.NewVideoRepository(tx).IncrementComments(ctx, comment.VideoID)
	})
	if err != nil {
		return models.NewInternalError("failed to create comment", err)
	}

	observability.CounterAdjustments.WithLabelValues("comments", "up").Inc()
	cache.InvalidateVideo(ctx, comment.VideoID)
	return nil
}

func (s *CommentService) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment", id)
		}
		return nil, models.NewInternalError("failed to get comment", err)
	}
	return comment, nil
}

// ListForVideo returns the video's comments newest first, each
// enriched with the author's display name and avatar.
func (s *CommentService) ListForVideo(ctx context.Context, videoID uint) ([]*models.CommentView, error) {
	comments, err := s.comments.ListByVideo(ctx, videoID)
	if err != nil {
		return nil, models.NewInternalError("failed to list comments", err)
	}
	return s.enrich(ctx, comments)
}

func (s *CommentService) ListForVideoPaged(ctx context.Context, videoID uint, page, size int) (*models.Page[*models.CommentView], error) {
	page, size = normalizePage(page, size)
	comments, total, err := s.comments.ListByVideoPaged(ctx, videoID, size, page*size)
	if err != nil {
		return nil, models.NewInternalError("failed to list comments", err)
	}
	views, err := s.enrich(ctx, comments)
	if err != nil {
		return nil, err
	}
	return models.NewPage(views, total, page, size), nil
}

// ListForUser returns the user's own comments, newest first. These are
// the raw rows; author enrichment only applies to per-video listings.
func (s *CommentService) ListForUser(ctx context.Context, userID uint) ([]*models.Comment, error) {
	comments, err := s.comments.ListByUser(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError("failed to list comments", err)
	}
	return comments, nil
}

func (s *CommentService) CountForVideo(ctx context.Context, videoID uint) (int64, error) {
	count, err := s.comments.CountByVideo(ctx, videoID)
	if err != nil {
		return 0, models.NewInternalError("failed to count comments", err)
	}
	return count, nil
}

func (s *CommentService) Update(ctx context.Context, id uint, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("content is required")
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment", id)
		}
		return nil, models.NewInternalError("failed to get comment", err)
	}
	comment.Content = content
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, models.NewInternalError("failed to update comment", err)
	}
	return comment, nil
}

// Delete removes the comment and decrements the video's comments
// counter in one transaction. An absent comment is a silent no-op, the
// counter never goes below zero, and a vanished video makes the
// decrement a no-op.
func (s *CommentService) Delete(ctx context.Context, id uint) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return models.NewInternalError("failed to get comment", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCommentRepository(tx).Delete(ctx, id); err != nil {
			return err
		}
		return repository.NewVideoRepository(tx).DecrementComments(ctx, comment.VideoID)
	})
	if err != nil {
		return models.NewInternalError("failed to delete comment", err)
	}

	observability.CounterAdjustments.WithLabelValues("comments", "down").Inc()
	cache.InvalidateVideo(ctx, comment.VideoID)
	return nil
}

// enrich resolves each comment's author once per distinct user and
// builds display views. Missing authors fall back to a placeholder
// rather than failing the listing.
func (s *CommentService) enrich(ctx context.Context, comments []*models.Comment) ([]*models.CommentView, error) {
	authors := make(map[uint]*models.User)
	views := make([]*models.CommentView, 0, len(comments))
	for _, c := range comments {
		author, ok := authors[c.UserID]
		if !ok {
			u, err := s.users.GetByID(ctx, c.UserID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewInternalError("failed to load comment author", err)
			}
			author = u
			authors[c.UserID] = author
		}
		views = append(views, models.NewCommentView(c, author))
	}
	return views, nil
}
