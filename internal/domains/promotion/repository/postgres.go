package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	catalog "marketplace-backend/internal/domains/catalog/model"
	"marketplace-backend/internal/domains/promotion/model"
)

const promotionColumns = `
	id, kind, name, discount_type, discount_value, target,
	valid_from, valid_to, status, created_at, updated_at`

// PostgresRepository implements PromotionRepository with PostgreSQL.
// The target spec is stored as jsonb since its shape varies by kind.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) PromotionRepository {
	return &PostgresRepository{db: db}
}

func scanPromotion(row pgx.Row) (*model.Promotion, error) {
	var p model.Promotion
	var target []byte
	err := row.Scan(
		&p.ID,
		&p.Kind,
		&p.Name,
		&p.DiscountType,
		&p.DiscountValue,
		&target,
		&p.ValidFrom,
		&p.ValidTo,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	var spec catalog.TargetSpec
	if err := json.Unmarshal(target, &spec); err != nil {
		return nil, fmt.Errorf("decode target spec: %w", err)
	}
	p.Target = spec
	return &p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, promo *model.Promotion) error {
	target, err := json.Marshal(promo.Target)
	if err != nil {
		return fmt.Errorf("encode target spec: %w", err)
	}

	query := `
		INSERT INTO promotions (id, kind, name, discount_type, discount_value, target,
			valid_from, valid_to, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if promo.ID == uuid.Nil {
		promo.ID = uuid.New()
	}

	err = r.db.QueryRow(ctx, query,
		promo.ID, promo.Kind, promo.Name, promo.DiscountType, promo.DiscountValue,
		target, promo.ValidFrom, promo.ValidTo, promo.Status,
	).Scan(&promo.CreatedAt, &promo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create promotion: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error) {
	query := `SELECT` + promotionColumns + ` FROM promotions WHERE id = $1`

	p, err := scanPromotion(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("find promotion by id: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, promo *model.Promotion) error {
	target, err := json.Marshal(promo.Target)
	if err != nil {
		return fmt.Errorf("encode target spec: %w", err)
	}

	query := `
		UPDATE promotions
		SET name = $2, discount_type = $3, discount_value = $4, target = $5,
		    valid_from = $6, valid_to = $7, status = $8, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		promo.ID, promo.Name, promo.DiscountType, promo.DiscountValue,
		target, promo.ValidFrom, promo.ValidTo, promo.Status,
	)
	if err != nil {
		return fmt.Errorf("update promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPromotionNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.PromotionStatus) error {
	query := `UPDATE promotions SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update promotion status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPromotionNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPromotionNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, filter *model.ListPromotionsFilter) ([]*model.Promotion, int, error) {
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	where := `WHERE ($1::text IS NULL OR kind = $1) AND ($2::text IS NULL OR status = $2)`

	var kind, status *string
	if filter.Kind != nil {
		s := string(*filter.Kind)
		kind = &s
	}
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM promotions `+where, kind, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count promotions: %w", err)
	}

	query := `SELECT` + promotionColumns + ` FROM promotions ` + where + `
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, kind, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	var promos []*model.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan promotion: %w", err)
		}
		promos = append(promos, p)
	}
	return promos, total, rows.Err()
}

func (r *PostgresRepository) ListLapsed(ctx context.Context, kind model.PromotionKind, now time.Time) ([]*model.Promotion, error) {
	query := `SELECT` + promotionColumns + `
		FROM promotions
		WHERE kind = $1
		  AND status != $2
		  AND (status != $3 OR valid_to < $4)
	`

	rows, err := r.db.Query(ctx, query, kind, model.StatusExpired, model.StatusActive, now)
	if err != nil {
		return nil, fmt.Errorf("list lapsed promotions: %w", err)
	}
	defer rows.Close()

	var promos []*model.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		promos = append(promos, p)
	}
	return promos, rows.Err()
}
