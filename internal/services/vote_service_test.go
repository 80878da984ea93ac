package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"helpful/internal/config"
	"helpful/internal/models/db_models"
	"helpful/internal/repositories"
	"helpful/internal/templates"
	"helpful/pkg/memcache"
	"helpful/pkg/utils"
)

func TestCastVote_FirstVoteOnly(t *testing.T) {
	db := newTestDB(t)
	votes := repositories.NewVoteRepository(db)
	resolver, err := templates.NewDefaultResolver("")
	require.NoError(t, err)
	presentation := NewPresentationService(votes, repositories.NewContentRepository(db), resolver, memcache.NewNonces(time.Hour), NewHooks())
	svc := NewVoteService(votes, presentation, nil)

	settings := config.DefaultSettings(nil)
	settings.AfterPro = "thanks!"
	ctx := context.Background()

	out, err := svc.CastVote(ctx, settings, "actor", nil, 9, db_models.VotePro)
	require.NoError(t, err)
	assert.Equal(t, "thanks!", out)

	_, err = svc.CastVote(ctx, settings, "actor", nil, 9, db_models.VoteContra)
	require.NoError(t, err)

	pro, contra, err := votes.CountVotes(ctx, 9)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pro)
	assert.Zero(t, contra)

	status, err := votes.GetUserVoteStatus(ctx, "actor", 9)
	require.NoError(t, err)
	assert.Equal(t, db_models.VotePro, status)
}

func TestCastVote_Invalid(t *testing.T) {
	db := newTestDB(t)
	votes := repositories.NewVoteRepository(db)
	svc := NewVoteService(votes, nil, nil)

	_, err := svc.CastVote(context.Background(), config.Settings{}, "a", nil, 0, db_models.VotePro)
	assert.ErrorIs(t, err, utils.ErrInvalidPostID)

	_, err = svc.CastVote(context.Background(), config.Settings{}, "a", nil, 1, db_models.VoteNone)
	assert.ErrorIs(t, err, utils.ErrInvalidVoteType)
}
