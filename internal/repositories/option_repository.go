package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"helpful/internal/models/db_models"
)

type OptionRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	SetMany(ctx context.Context, options map[string]string) error
}

type optionRepository struct {
	db *gorm.DB
}

func NewOptionRepository(db *gorm.DB) OptionRepository {
	return &optionRepository{db: db}
}

func (r *optionRepository) GetAll(ctx context.Context) (map[string]string, error) {
	var rows []db_models.Option
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "load options")
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Name] = row.Value
	}
	return out, nil
}

func (r *optionRepository) SetMany(ctx context.Context, options map[string]string) error {
	if len(options) == 0 {
		return nil
	}

	rows := make([]db_models.Option, 0, len(options))
	for name, value := range options {
		rows = append(rows, db_models.Option{Name: name, Value: value})
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&rows).Error
	return errors.Wrap(err, "save options")
}
