package services

import "errors"

var (
	ErrQuestionNotFound  = errors.New("question not found")
	ErrTagNotFound       = errors.New("tag not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidSearchType = errors.New("invalid search type")
)
