package model

import "errors"

var (
	ErrBatchNotFound    = errors.New("settlement batch does not exist")
	ErrBatchAlreadyPaid = errors.New("settlement batch is already paid")
	ErrRunInProgress    = errors.New("a settlement run is already in progress")
)

type ErrorCode string

const (
	ErrCodeBatchNotFound   ErrorCode = "BATCH_NOT_FOUND"
	ErrCodeBatchPaid       ErrorCode = "BIZ_BATCH_ALREADY_PAID"
	ErrCodeRunInProgress   ErrorCode = "BIZ_SETTLEMENT_RUN_IN_PROGRESS"
	ErrCodeInternalError   ErrorCode = "SYS_INTERNAL_ERROR"
)

type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}
