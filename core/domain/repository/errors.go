package repository

import "errors"

var (
	ErrGameRecordNotFound = errors.New("game record not found")
	ErrDuplicateRecord    = errors.New("game record already exists")
)
