package model

import "errors"

// Rejection reasons returned by the validator. Every rejection is reported
// to the caller as a typed error, never swallowed.
var (
	ErrCouponNotFound      = errors.New("coupon does not exist")
	ErrCouponCodeTaken     = errors.New("coupon code already in use")
	ErrCouponNotActive     = errors.New("coupon is outside its validity window")
	ErrCouponExhausted     = errors.New("coupon usage limit reached")
	ErrMinPurchaseNotMet   = errors.New("cart subtotal below the coupon minimum")
	ErrFirstPurchaseOnly   = errors.New("coupon is limited to first-time buyers")
	ErrCouponNotApplicable = errors.New("coupon matches no item in the cart")
	ErrVendorRequired      = errors.New("vendor_id is required for vendor-scoped coupons")
	ErrTargetRequired      = errors.New("target is required for platform-scoped coupons")
)

type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VAL_INVALID_INPUT"
	ErrCodeCouponNotFound    ErrorCode = "COUPON_NOT_FOUND"
	ErrCodeCouponRejected    ErrorCode = "BIZ_COUPON_REJECTED"
	ErrCodeCouponCodeTaken   ErrorCode = "BIZ_COUPON_CODE_TAKEN"
	ErrCodeInternalError     ErrorCode = "SYS_INTERNAL_ERROR"
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
