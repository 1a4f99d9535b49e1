package model

import "errors"

var (
	ErrInvalidDiscountType  = errors.New("discount_type must be 'percentage' or 'fixed'")
	ErrInvalidDiscountValue = errors.New("discount_value must be > 0")
	ErrPercentageTooHigh    = errors.New("percentage discount cannot exceed 100")
	ErrInvalidDateRange     = errors.New("valid_to must be after valid_from")
	ErrInvalidPromotionKind = errors.New("kind must be 'deal' or 'offer'")
)

type ErrorCode string

const (
	// Validation errors (400)
	ErrCodeValidationFailed ErrorCode = "VAL_INVALID_INPUT"
	ErrCodeInvalidDiscount  ErrorCode = "VAL_INVALID_DISCOUNT"

	// Not found (404)
	ErrCodePromotionNotFound ErrorCode = "PROMO_NOT_FOUND"
	ErrCodeInvalidTarget     ErrorCode = "TARGET_NOT_FOUND"

	// Business conflicts (409)
	ErrCodeConflictingDeal ErrorCode = "BIZ_CONFLICTING_ACTIVE_DEAL"

	// System errors (500)
	ErrCodeInternalError ErrorCode = "SYS_INTERNAL_ERROR"
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

// Predefined errors
var (
	ErrPromotionNotFound = &AppError{
		Code:       ErrCodePromotionNotFound,
		Message:    "Promotion does not exist",
		HTTPStatus: 404,
	}

	ErrConflictingActiveDeal = &AppError{
		Code:       ErrCodeConflictingDeal,
		Message:    "Product already carries a different active deal",
		HTTPStatus: 409,
	}

	ErrInvalidTarget = &AppError{
		Code:       ErrCodeInvalidTarget,
		Message:    "Promotion target does not exist",
		HTTPStatus: 404,
	}
)
