package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"helpful/internal/models/db_models"
)

type FeedbackRepositoryInterface interface {
	CreateFeedback(ctx context.Context, feedback *db_models.Feedback) (uint, error)
	CountFeedback(ctx context.Context, postID *uint) (int64, error)
	ListFeedback(ctx context.Context, limit int) ([]db_models.Feedback, error)
}

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// CreateFeedback inserts one row and returns its auto-increment id. Time is
// stored in UTC so the time ordering holds whatever the site timezone.
func (r *FeedbackRepository) CreateFeedback(ctx context.Context, feedback *db_models.Feedback) (uint, error) {
	feedback.Time = feedback.Time.UTC()
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return 0, errors.Wrap(err, "insert feedback")
	}
	return feedback.ID, nil
}

// CountFeedback counts all rows, or only those of postID when it is set.
func (r *FeedbackRepository) CountFeedback(ctx context.Context, postID *uint) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&db_models.Feedback{})
	if postID != nil {
		q = q.Where("post_id = ?", *postID)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "count feedback")
	}
	return n, nil
}

// ListFeedback returns the newest rows first. A non-positive limit yields an
// empty list.
func (r *FeedbackRepository) ListFeedback(ctx context.Context, limit int) ([]db_models.Feedback, error) {
	feedbacks := []db_models.Feedback{}
	if limit <= 0 {
		return feedbacks, nil
	}
	err := r.db.WithContext(ctx).
		Order("time DESC").
		Order("id DESC").
		Limit(limit).
		Find(&feedbacks).Error
	if err != nil {
		return nil, errors.Wrap(err, "list feedback")
	}
	return feedbacks, nil
}
