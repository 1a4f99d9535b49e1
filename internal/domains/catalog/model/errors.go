package model

import "errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubCategoryNotFound = errors.New("sub-category not found")
	ErrInvalidTargetKind   = errors.New("invalid target kind")
	ErrTargetMissingValue  = errors.New("target value is required")
)
