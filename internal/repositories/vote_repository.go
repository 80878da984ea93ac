package repositories

import (
	"context"
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"helpful/internal/models/db_models"
)

type VoteRepository interface {
	InsertVote(ctx context.Context, vote *db_models.Vote) error
	GetUserVoteStatus(ctx context.Context, user string, postID uint) (db_models.VoteStatus, error)
	CountVotes(ctx context.Context, postID uint) (pro int64, contra int64, err error)
	DeleteVotesByPost(ctx context.Context, postID uint) (int64, error)
	WithTx(tx *gorm.DB) VoteRepository
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *voteRepository) WithTx(tx *gorm.DB) VoteRepository {
	return &voteRepository{db: tx}
}

func (r *voteRepository) InsertVote(ctx context.Context, vote *db_models.Vote) error {
	vote.Time = vote.Time.UTC()
	return errors.Wrap(r.db.WithContext(ctx).Create(vote).Error, "insert vote")
}

// GetUserVoteStatus reports the latest vote of user on postID.
func (r *voteRepository) GetUserVoteStatus(ctx context.Context, user string, postID uint) (db_models.VoteStatus, error) {
	if user == "" {
		return db_models.VoteNone, nil
	}

	var vote db_models.Vote
	err := r.db.WithContext(ctx).
		Where(map[string]interface{}{"user": user, "post_id": postID}).
		Order("id DESC").
		First(&vote).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return db_models.VoteNone, nil
		}
		return db_models.VoteNone, errors.Wrap(err, "get vote status")
	}

	switch {
	case vote.Pro == 1:
		return db_models.VotePro, nil
	case vote.Contra == 1:
		return db_models.VoteContra, nil
	}
	return db_models.VoteNone, nil
}

type voteTally struct {
	Pro    int64 `gorm:"column:pro"`
	Contra int64 `gorm:"column:contra"`
}

func (r *voteRepository) CountVotes(ctx context.Context, postID uint) (int64, int64, error) {
	var tally voteTally
	err := r.db.WithContext(ctx).
		Model(&db_models.Vote{}).
		Select("COALESCE(SUM(pro), 0) AS pro, COALESCE(SUM(contra), 0) AS contra").
		Where("post_id = ?", postID).
		Scan(&tally).Error
	if err != nil {
		return 0, 0, errors.Wrap(err, "count votes")
	}
	return tally.Pro, tally.Contra, nil
}

func (r *voteRepository) DeleteVotesByPost(ctx context.Context, postID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&db_models.Vote{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "delete votes")
	}
	return res.RowsAffected, nil
}
