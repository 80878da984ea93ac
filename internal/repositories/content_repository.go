package repositories

import (
	"context"
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"helpful/internal/models/db_models"
)

type ContentRepository interface {
	FindByID(ctx context.Context, id uint) (*db_models.Content, error)
	Upsert(ctx context.Context, content *db_models.Content) error
	SetHideFeedback(ctx context.Context, id uint, hide bool) error
	SetHideHelpful(ctx context.Context, id uint, hide bool) error
	WithTx(tx *gorm.DB) ContentRepository
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) WithTx(tx *gorm.DB) ContentRepository {
	return &contentRepository{db: tx}
}

// FindByID returns nil without error when the content does not exist.
func (r *contentRepository) FindByID(ctx context.Context, id uint) (*db_models.Content, error) {
	var content db_models.Content
	err := r.db.WithContext(ctx).First(&content, "id = ?", id).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find content")
	}
	return &content, nil
}

func (r *contentRepository) Upsert(ctx context.Context, content *db_models.Content) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "url", "feedback_receivers", "hide_feedback", "updated_at"}),
		}).
		Create(content).Error
	return errors.Wrap(err, "upsert content")
}

func (r *contentRepository) SetHideFeedback(ctx context.Context, id uint, hide bool) error {
	return r.updateColumn(ctx, id, "hide_feedback", hide)
}

func (r *contentRepository) SetHideHelpful(ctx context.Context, id uint, hide bool) error {
	return r.updateColumn(ctx, id, "hide_helpful", hide)
}

func (r *contentRepository) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	err := r.db.WithContext(ctx).
		Model(&db_models.Content{}).
		Where("id = ?", id).
		Update(column, value).Error
	return errors.Wrapf(err, "update content %s", column)
}
