package model

import "errors"

var (
	ErrOrderNotFound = errors.New("order does not exist")
)
