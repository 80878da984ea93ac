package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"helpful/internal/models/db_models"
)

func TestTransactor_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	votes := NewVoteRepository(db)
	content := NewContentRepository(db)
	require.NoError(t, votes.InsertVote(ctx, &db_models.Vote{Time: time.Now(), User: "u1", Pro: 1, PostID: 5}))

	failure := errors.New("boom")
	err := NewTransactor(db).WithinTransaction(ctx, func(tx *gorm.DB) error {
		if _, err := votes.WithTx(tx).DeleteVotesByPost(ctx, 5); err != nil {
			return err
		}
		if err := content.WithTx(tx).Upsert(ctx, &db_models.Content{ID: 5}); err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)

	pro, _, err := votes.CountVotes(ctx, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pro)

	stored, err := content.FindByID(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestTransactor_Commits(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	content := NewContentRepository(db)

	err := NewTransactor(db).WithinTransaction(ctx, func(tx *gorm.DB) error {
		repo := content.WithTx(tx)
		if err := repo.Upsert(ctx, &db_models.Content{ID: 9}); err != nil {
			return err
		}
		return repo.SetHideHelpful(ctx, 9, true)
	})
	require.NoError(t, err)

	stored, err := content.FindByID(ctx, 9)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.HideHelpful)
}

func TestTransactor_RollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	content := NewContentRepository(db)

	assert.Panics(t, func() {
		_ = NewTransactor(db).WithinTransaction(ctx, func(tx *gorm.DB) error {
			require.NoError(t, content.WithTx(tx).Upsert(ctx, &db_models.Content{ID: 4}))
			panic("unexpected")
		})
	})

	stored, err := content.FindByID(ctx, 4)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
