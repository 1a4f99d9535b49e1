package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalog "marketplace-backend/internal/domains/catalog/model"
)

// TargetSpecRequest mirrors catalog.TargetSpec on the wire.
type TargetSpecRequest struct {
	Kind       string   `json:"kind"`
	ProductIDs []string `json:"product_ids,omitempty"`
	CategoryID *string  `json:"category_id,omitempty"`
	Brand      string   `json:"brand,omitempty"`
}

func (t TargetSpecRequest) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Kind, validation.Required, validation.In(
			string(catalog.TargetProduct),
			string(catalog.TargetCategory),
			string(catalog.TargetSubCategory),
			string(catalog.TargetBrand),
		)),
	)
}

// ToSpec converts the request into the domain tagged union.
func (t TargetSpecRequest) ToSpec() (catalog.TargetSpec, error) {
	spec := catalog.TargetSpec{
		Kind:  catalog.TargetKind(t.Kind),
		Brand: t.Brand,
	}

	for _, raw := range t.ProductIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return catalog.TargetSpec{}, catalog.ErrTargetMissingValue
		}
		spec.ProductIDs = append(spec.ProductIDs, id)
	}

	if t.CategoryID != nil {
		id, err := uuid.Parse(*t.CategoryID)
		if err != nil {
			return catalog.TargetSpec{}, catalog.ErrTargetMissingValue
		}
		spec.CategoryID = &id
	}

	if err := spec.Validate(); err != nil {
		return catalog.TargetSpec{}, err
	}
	return spec, nil
}

// CreatePromotionRequest creates a deal or an offer.
type CreatePromotionRequest struct {
	Kind          string            `json:"kind"`
	Name          string            `json:"name"`
	DiscountType  string            `json:"discount_type"`
	DiscountValue float64           `json:"discount_value"`
	Target        TargetSpecRequest `json:"target"`
	ValidFrom     string            `json:"valid_from"`
	ValidTo       string            `json:"valid_to"`
}

func (r CreatePromotionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Kind, validation.Required, validation.In(string(KindDeal), string(KindOffer))),
		validation.Field(&r.Name, validation.Required, validation.Length(3, 200)),
		validation.Field(&r.DiscountType, validation.Required, validation.In(
			string(DiscountTypePercentage), string(DiscountTypeFixed))),
		validation.Field(&r.DiscountValue, validation.Required),
		validation.Field(&r.Target),
		validation.Field(&r.ValidFrom, validation.Required, validation.Date(time.RFC3339)),
		validation.Field(&r.ValidTo, validation.Required, validation.Date(time.RFC3339)),
	)
}

// UpdatePromotionRequest carries only the fields being changed.
type UpdatePromotionRequest struct {
	Name          *string            `json:"name,omitempty"`
	DiscountType  *string            `json:"discount_type,omitempty"`
	DiscountValue *float64           `json:"discount_value,omitempty"`
	Target        *TargetSpecRequest `json:"target,omitempty"`
	ValidFrom     *string            `json:"valid_from,omitempty"`
	ValidTo       *string            `json:"valid_to,omitempty"`
}

// UpdateStatusRequest toggles active/inactive from the admin surface.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			string(StatusActive), string(StatusInactive))),
	)
}

// PromotionResponse is the API shape of a promotion.
type PromotionResponse struct {
	ID            uuid.UUID          `json:"id"`
	Kind          PromotionKind      `json:"kind"`
	Name          string             `json:"name"`
	DiscountType  DiscountType       `json:"discount_type"`
	DiscountValue decimal.Decimal    `json:"discount_value"`
	Target        catalog.TargetSpec `json:"target"`
	ValidFrom     time.Time          `json:"valid_from"`
	ValidTo       time.Time          `json:"valid_to"`
	Status        PromotionStatus    `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ToResponse converts a Promotion to its API shape.
func (p *Promotion) ToResponse() *PromotionResponse {
	return &PromotionResponse{
		ID:            p.ID,
		Kind:          p.Kind,
		Name:          p.Name,
		DiscountType:  p.DiscountType,
		DiscountValue: p.DiscountValue,
		Target:        p.Target,
		ValidFrom:     p.ValidFrom,
		ValidTo:       p.ValidTo,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ListPromotionsFilter narrows admin listings.
type ListPromotionsFilter struct {
	Kind   *PromotionKind
	Status *PromotionStatus
	Page   int
	Limit  int
}
