package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is owned by the catalog subsystem. The promotion engine reads it
// for target matching and mutates only the pricing fields through the price
// resolver.
type Product struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	VendorID      uuid.UUID  `json:"vendor_id" db:"vendor_id"`
	Name          string     `json:"name" db:"name"`
	CategoryID    uuid.UUID  `json:"category_id" db:"category_id"`
	SubCategoryID *uuid.UUID `json:"sub_category_id,omitempty" db:"sub_category_id"`
	Brand         string     `json:"brand" db:"brand"`

	// Pricing. EffectivePrice defaults to Price and is derived from at most
	// one of ActiveDealID / ActiveOfferID.
	Price          decimal.Decimal `json:"price" db:"price"`
	EffectivePrice decimal.Decimal `json:"effective_price" db:"effective_price"`
	ActiveDealID   *uuid.UUID      `json:"active_deal_id,omitempty" db:"active_deal_id"`
	ActiveOfferID  *uuid.UUID      `json:"active_offer_id,omitempty" db:"active_offer_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ApplyDeal sets the discounted price and the deal reference. The offer
// reference is cleared so a product never carries both.
func (p *Product) ApplyDeal(dealID uuid.UUID, effectivePrice decimal.Decimal) {
	p.EffectivePrice = effectivePrice
	p.ActiveDealID = &dealID
	p.ActiveOfferID = nil
}

// ApplyOffer sets the discounted price and the offer reference, clearing any
// deal reference. Offers override deals: last writer wins.
func (p *Product) ApplyOffer(offerID uuid.UUID, effectivePrice decimal.Decimal) {
	p.EffectivePrice = effectivePrice
	p.ActiveOfferID = &offerID
	p.ActiveDealID = nil
}

// ResetPricing restores the base price and drops both promotion references.
func (p *Product) ResetPricing() {
	p.EffectivePrice = p.Price
	p.ActiveDealID = nil
	p.ActiveOfferID = nil
}

// References reports whether the product still points at the given promotion.
func (p *Product) References(promotionID uuid.UUID) bool {
	if p.ActiveDealID != nil && *p.ActiveDealID == promotionID {
		return true
	}
	if p.ActiveOfferID != nil && *p.ActiveOfferID == promotionID {
		return true
	}
	return false
}

// Category models both top-level categories and sub-categories; a
// sub-category is a category with a parent.
type Category struct {
	ID       uuid.UUID  `json:"id" db:"id"`
	Name     string     `json:"name" db:"name"`
	ParentID *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
}
