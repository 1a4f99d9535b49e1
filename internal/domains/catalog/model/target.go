package model

import (
	"github.com/google/uuid"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TargetKind discriminates what a promotion or coupon points at.
type TargetKind string

const (
	TargetProduct     TargetKind = "product"
	TargetCategory    TargetKind = "category"
	TargetSubCategory TargetKind = "sub_category"
	TargetBrand       TargetKind = "brand"
)

func (k TargetKind) IsValid() bool {
	switch k {
	case TargetProduct, TargetCategory, TargetSubCategory, TargetBrand:
		return true
	}
	return false
}

// TargetSpec is a tagged union: exactly one value field is meaningful per
// kind. Product targets carry an explicit id list; category and
// sub-category targets a single id; brand targets a free-text tag. It is
// only ever expanded through the target resolver, never inspected ad hoc.
type TargetSpec struct {
	Kind       TargetKind  `json:"kind"`
	ProductIDs []uuid.UUID `json:"product_ids,omitempty"`
	CategoryID *uuid.UUID  `json:"category_id,omitempty"`
	Brand      string      `json:"brand,omitempty"`
}

// Validate checks the structural shape of the spec. Existence of the
// referenced records is the resolver's job.
func (t TargetSpec) Validate() error {
	if !t.Kind.IsValid() {
		return ErrInvalidTargetKind
	}

	switch t.Kind {
	case TargetProduct:
		return validation.Validate(t.ProductIDs, validation.Required)
	case TargetCategory, TargetSubCategory:
		if t.CategoryID == nil || *t.CategoryID == uuid.Nil {
			return ErrTargetMissingValue
		}
	case TargetBrand:
		return validation.Validate(t.Brand, validation.Required)
	}
	return nil
}
