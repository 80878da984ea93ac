package utils

import "errors"

var (
	ErrDatabaseError      = errors.New("database error")
	ErrInvalidPostID      = errors.New("invalid post id")
	ErrInvalidLimit       = errors.New("invalid limit parameter")
	ErrContentNotFound    = errors.New("content not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidNonce       = errors.New("invalid or expired nonce")
	ErrTemplateNotFound   = errors.New("template not found")
	ErrInvalidVoteType    = errors.New("vote type must be pro or contra")

	// Feedback intake rejections. Every rejection wraps ErrFeedbackNotSaved.
	ErrFeedbackNotSaved = errors.New("feedback was not saved")
	ErrMissingPostID    = errors.New("post id is empty")
	ErrEmptyMessage     = errors.New("message is empty")
	ErrBlocklisted      = errors.New("message contains blocklisted words")
)
