package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	catalog "marketplace-backend/internal/domains/catalog/model"
	"marketplace-backend/internal/domains/coupon/model"
)

const couponColumns = `
	id, code, owner_scope, vendor_id, target, discount_type, discount_value,
	min_purchase_amount, first_purchase_only, valid_from, valid_to,
	usage_limit, usage_count, created_at, updated_at`

// PostgresRepository implements CouponRepository with PostgreSQL.
// The target spec is stored as nullable jsonb; vendor-scoped coupons
// carry a vendor_id instead.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) CouponRepository {
	return &PostgresRepository{db: db}
}

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	var target []byte
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.OwnerScope,
		&c.VendorID,
		&target,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinPurchaseAmount,
		&c.FirstPurchaseOnly,
		&c.ValidFrom,
		&c.ValidTo,
		&c.UsageLimit,
		&c.UsageCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(target) > 0 {
		var spec catalog.TargetSpec
		if err := json.Unmarshal(target, &spec); err != nil {
			return nil, fmt.Errorf("decode target spec: %w", err)
		}
		c.Target = &spec
	}
	return &c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	var target []byte
	if coupon.Target != nil {
		var err error
		target, err = json.Marshal(coupon.Target)
		if err != nil {
			return fmt.Errorf("encode target spec: %w", err)
		}
	}

	query := `
		INSERT INTO coupons (id, code, owner_scope, vendor_id, target,
			discount_type, discount_value, min_purchase_amount,
			first_purchase_only, valid_from, valid_to, usage_limit,
			usage_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		coupon.ID, coupon.Code, coupon.OwnerScope, coupon.VendorID, target,
		coupon.DiscountType, coupon.DiscountValue, coupon.MinPurchaseAmount,
		coupon.FirstPurchaseOnly, coupon.ValidFrom, coupon.ValidTo, coupon.UsageLimit,
	).Scan(&coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrCouponCodeTaken
		}
		return fmt.Errorf("create coupon: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	query := `SELECT` + couponColumns + ` FROM coupons WHERE id = $1`

	c, err := scanCoupon(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("find coupon by id: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT` + couponColumns + ` FROM coupons WHERE LOWER(code) = LOWER($1)`

	c, err := scanCoupon(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("find coupon by code: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, page, limit int) ([]*model.Coupon, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM coupons`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count coupons: %w", err)
	}

	query := `SELECT` + couponColumns + ` FROM coupons
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*model.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	return coupons, total, rows.Err()
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}
	return nil
}

func (r *PostgresRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE coupons SET usage_count = usage_count + 1, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment coupon usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}
	return nil
}
