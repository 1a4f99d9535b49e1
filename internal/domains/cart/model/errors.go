package model

import "errors"

var (
	ErrCartNotFound   = errors.New("cart does not exist")
	ErrCartEmpty      = errors.New("cart has no items")
	ErrNoCouponOnCart = errors.New("cart has no coupon applied")
)
