package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-backend/internal/domains/order/model"
)

// PostgresRepository implements OrderRepository with PostgreSQL. Sub-orders
// and their line items live in their own tables keyed back to the parent.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) OrderRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, order *model.Order, subOrders []*model.SubOrder) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, user_id, subtotal, coupon_code,
			discount_total, total, payment_status, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`,
		order.ID, order.OrderNumber, order.UserID, order.Subtotal, order.CouponCode,
		order.DiscountTotal, order.Total, order.PaymentStatus, order.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, sub := range subOrders {
		if sub.ID == uuid.Nil {
			sub.ID = uuid.New()
		}
		sub.ParentOrderID = order.ID

		_, err = tx.Exec(ctx, `
			INSERT INTO sub_orders (id, parent_order_id, vendor_id, created_at)
			VALUES ($1, $2, $3, NOW())`,
			sub.ID, sub.ParentOrderID, sub.VendorID,
		)
		if err != nil {
			return fmt.Errorf("insert sub-order: %w", err)
		}

		for i := range sub.Items {
			item := &sub.Items[i]
			if item.ID == uuid.Nil {
				item.ID = uuid.New()
			}
			_, err = tx.Exec(ctx, `
				INSERT INTO order_items (id, sub_order_id, product_id, vendor_id,
					name, price, quantity)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				item.ID, sub.ID, item.ProductID, item.VendorID,
				item.Name, item.Price, item.Quantity,
			)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}

		order.SubOrderIDs = append(order.SubOrderIDs, sub.ID)
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.QueryRow(ctx, `
		SELECT id, order_number, user_id, subtotal, coupon_code, discount_total,
		       total, payment_status, paid_at, created_at, updated_at
		FROM orders WHERE id = $1`, id,
	).Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Subtotal, &o.CouponCode,
		&o.DiscountTotal, &o.Total, &o.PaymentStatus, &o.PaidAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order by id: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT id FROM sub_orders WHERE parent_order_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("list sub-order ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var subID uuid.UUID
		if err := rows.Scan(&subID); err != nil {
			return nil, fmt.Errorf("scan sub-order id: %w", err)
		}
		o.SubOrderIDs = append(o.SubOrderIDs, subID)
	}
	return &o, rows.Err()
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders by user: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) ListPaidInWindow(ctx context.Context, from, to time.Time) ([]*model.Order, map[uuid.UUID][]*model.SubOrder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_number, user_id, subtotal, coupon_code, discount_total,
		       total, payment_status, paid_at, created_at, updated_at
		FROM orders
		WHERE payment_status = $1 AND paid_at >= $2 AND paid_at < $3`,
		model.PaymentStatusPaid, from, to,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("list paid orders: %w", err)
	}
	defer rows.Close()

	var orders []*model.Order
	orderIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		var o model.Order
		err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.UserID, &o.Subtotal, &o.CouponCode,
			&o.DiscountTotal, &o.Total, &o.PaymentStatus, &o.PaidAt,
			&o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("scan paid order: %w", err)
		}
		orders = append(orders, &o)
		orderIDs = append(orderIDs, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	if len(orders) == 0 {
		return nil, map[uuid.UUID][]*model.SubOrder{}, nil
	}

	subRows, err := r.db.Query(ctx, `
		SELECT s.id, s.parent_order_id, s.vendor_id, s.created_at,
		       i.id, i.product_id, i.vendor_id, i.name, i.price, i.quantity
		FROM sub_orders s
		JOIN order_items i ON i.sub_order_id = s.id
		WHERE s.parent_order_id = ANY($1)
		ORDER BY s.id`,
		orderIDs,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("list sub-orders: %w", err)
	}
	defer subRows.Close()

	subsByOrder := make(map[uuid.UUID][]*model.SubOrder)
	subsByID := make(map[uuid.UUID]*model.SubOrder)
	for subRows.Next() {
		var subID, parentID, vendorID uuid.UUID
		var createdAt time.Time
		var item model.OrderItem
		err := subRows.Scan(
			&subID, &parentID, &vendorID, &createdAt,
			&item.ID, &item.ProductID, &item.VendorID, &item.Name,
			&item.Price, &item.Quantity,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("scan sub-order row: %w", err)
		}

		sub, ok := subsByID[subID]
		if !ok {
			sub = &model.SubOrder{
				ID:            subID,
				ParentOrderID: parentID,
				VendorID:      vendorID,
				CreatedAt:     createdAt,
			}
			subsByID[subID] = sub
			subsByOrder[parentID] = append(subsByOrder[parentID], sub)
		}
		sub.Items = append(sub.Items, item)
	}
	return orders, subsByOrder, subRows.Err()
}
