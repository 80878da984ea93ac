package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"helpful/internal/infra"
)

// Transactor runs a unit of work on a single database transaction. Repositories
// join it through their WithTx method.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := infra.StartTransaction(t.db.WithContext(ctx))
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = infra.ReleaseTransaction(tx, errors.Errorf("panic in transaction: %v", p))
			panic(p)
		}
	}()

	return infra.ReleaseTransaction(tx, fn(tx))
}
