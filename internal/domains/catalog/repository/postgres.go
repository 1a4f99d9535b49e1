package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-backend/internal/domains/catalog/model"
)

const productColumns = `
	id, vendor_id, name, category_id, sub_category_id, brand,
	price, effective_price, active_deal_id, active_offer_id,
	created_at, updated_at`

// PostgresRepository implements CatalogRepository with PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) CatalogRepository {
	return &PostgresRepository{db: db}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.VendorID,
		&p.Name,
		&p.CategoryID,
		&p.SubCategoryID,
		&p.Brand,
		&p.Price,
		&p.EffectivePrice,
		&p.ActiveDealID,
		&p.ActiveOfferID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `SELECT` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetProducts(ctx context.Context, ids []uuid.UUID) ([]*model.Product, error) {
	query := `SELECT` + productColumns + ` FROM products WHERE id = ANY($1)`
	return r.queryProducts(ctx, query, ids)
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*model.Product, error) {
	query := `SELECT` + productColumns + ` FROM products WHERE category_id = $1`
	return r.queryProducts(ctx, query, categoryID)
}

func (r *PostgresRepository) ListBySubCategory(ctx context.Context, subCategoryID uuid.UUID) ([]*model.Product, error) {
	query := `SELECT` + productColumns + ` FROM products WHERE sub_category_id = $1`
	return r.queryProducts(ctx, query, subCategoryID)
}

func (r *PostgresRepository) ListByBrand(ctx context.Context, brand string) ([]*model.Product, error) {
	query := `SELECT` + productColumns + ` FROM products WHERE LOWER(brand) = LOWER($1)`
	return r.queryProducts(ctx, query, brand)
}

func (r *PostgresRepository) ListByPromotionRef(ctx context.Context, promotionID uuid.UUID) ([]*model.Product, error) {
	query := `SELECT` + productColumns + ` FROM products WHERE active_deal_id = $1 OR active_offer_id = $1`
	return r.queryProducts(ctx, query, promotionID)
}

func (r *PostgresRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*model.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresRepository) UpdatePricing(ctx context.Context, product *model.Product) error {
	query := `
		UPDATE products
		SET effective_price = $2,
		    active_deal_id  = $3,
		    active_offer_id = $4,
		    updated_at      = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		product.ID,
		product.EffectivePrice,
		product.ActiveDealID,
		product.ActiveOfferID,
	)
	if err != nil {
		return fmt.Errorf("update product pricing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func (r *PostgresRepository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.categoryExists(ctx, id, false)
}

func (r *PostgresRepository) SubCategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.categoryExists(ctx, id, true)
}

func (r *PostgresRepository) categoryExists(ctx context.Context, id uuid.UUID, wantParent bool) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1 AND (parent_id IS NOT NULL) = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id, wantParent).Scan(&exists); err != nil {
		return false, fmt.Errorf("check category exists: %w", err)
	}
	return exists, nil
}
