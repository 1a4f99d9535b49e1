package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-backend/internal/domains/settlement/model"
)

const batchColumns = `
	id, vendor_id, total_sales, order_ids, payment_status, payout_date,
	created_at, updated_at`

// PostgresRepository implements SettlementRepository with PostgreSQL.
// order_ids is a uuid[] column; pgx scans it into []uuid.UUID directly.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) SettlementRepository {
	return &PostgresRepository{db: db}
}

func scanBatch(row pgx.Row) (*model.SettlementBatch, error) {
	var b model.SettlementBatch
	err := row.Scan(
		&b.ID,
		&b.VendorID,
		&b.TotalSales,
		&b.OrderIDs,
		&b.PaymentStatus,
		&b.PayoutDate,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PostgresRepository) Create(ctx context.Context, batch *model.SettlementBatch) error {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}

	query := `
		INSERT INTO settlement_batches (id, vendor_id, total_sales, order_ids,
			payment_status, payout_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		batch.ID, batch.VendorID, batch.TotalSales, batch.OrderIDs,
		batch.PaymentStatus, batch.PayoutDate,
	).Scan(&batch.CreatedAt, &batch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create settlement batch: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SettlementBatch, error) {
	query := `SELECT` + batchColumns + ` FROM settlement_batches WHERE id = $1`

	b, err := scanBatch(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBatchNotFound
		}
		return nil, fmt.Errorf("find settlement batch: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*model.SettlementBatch, error) {
	query := `SELECT` + batchColumns + `
		FROM settlement_batches WHERE vendor_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list settlement batches: %w", err)
	}
	defer rows.Close()

	var batches []*model.SettlementBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settlement batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func (r *PostgresRepository) FindLatestByVendor(ctx context.Context, vendorID uuid.UUID) (*model.SettlementBatch, error) {
	query := `SELECT` + batchColumns + `
		FROM settlement_batches WHERE vendor_id = $1
		ORDER BY created_at DESC LIMIT 1`

	b, err := scanBatch(r.db.QueryRow(ctx, query, vendorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBatchNotFound
		}
		return nil, fmt.Errorf("find latest settlement batch: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Update(ctx context.Context, batch *model.SettlementBatch) error {
	query := `
		UPDATE settlement_batches
		SET total_sales = $2, order_ids = $3, payment_status = $4,
		    payout_date = $5, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		batch.ID, batch.TotalSales, batch.OrderIDs,
		batch.PaymentStatus, batch.PayoutDate,
	)
	if err != nil {
		return fmt.Errorf("update settlement batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBatchNotFound
	}
	return nil
}
