package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"popays-telegram/db"
	"popays-telegram/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrAlreadyDecided is returned when a decision arrives for an order that
// is no longer in the expected source state. The transition is a no-op;
// CurrentStatus lets the caller tell the late actor what happened.
type ErrAlreadyDecided struct {
	OrderID       string
	CurrentStatus string
}

func (e *ErrAlreadyDecided) Error() string {
	return fmt.Sprintf("order %s already decided: status is %s", e.OrderID, e.CurrentStatus)
}

var ErrOrderNotFound = errors.New("order not found")

// NewOrderID returns an opaque short unique order id.
func NewOrderID() string {
	return uuid.NewString()[:8]
}

// CreateOrder inserts a new pending order. Delivery fee and nearest branch
// are only set here when the submission itself carried a coordinate and the
// quote was computed against it; otherwise they stay NULL until
// AttachLocationAndFee.
func CreateOrder(ctx context.Context, input models.CreateOrderInput) (string, error) {
	itemsJSON, err := json.Marshal(input.Items)
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}
	id := NewOrderID()
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO orders (
			id, user_id, username, first_name, customer_name, customer_phone,
			customer_location, items, total_amount, branch,
			lat, lon, delivery_fee, nearest_branch, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10, $11, $12, $13, $14, $15)`,
		id, input.UserID, input.Username, input.FirstName, input.CustomerName, input.CustomerPhone,
		input.CustomerAddr, itemsJSON, input.TotalAmount, input.Branch,
		input.Lat, input.Lon, input.DeliveryFee, input.NearestBranch, OrderStatusPending,
	)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var itemsJSON []byte
	err := row.Scan(
		&o.ID, &o.UserID, &o.Username, &o.FirstName, &o.CustomerName, &o.CustomerPhone,
		&o.CustomerAddr, &itemsJSON, &o.TotalAmount, &o.Branch,
		&o.Lat, &o.Lon, &o.DeliveryFee, &o.NearestBranch, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
	}
	return &o, nil
}

const orderColumns = `
	id, user_id, COALESCE(username, ''), COALESCE(first_name, ''),
	COALESCE(customer_name, ''), COALESCE(customer_phone, ''),
	COALESCE(customer_location, ''), items, total_amount, COALESCE(branch, ''),
	lat, lon, delivery_fee, nearest_branch, status, created_at, updated_at`

// GetOrder loads an order by id, or nil if it does not exist.
func GetOrder(ctx context.Context, id string) (*models.Order, error) {
	o, err := scanOrder(db.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// GetUserCurrentOrder returns the user's latest pending order that has no
// coordinate yet — the one a follow-up location message belongs to.
func GetUserCurrentOrder(ctx context.Context, userID int64) (*models.Order, error) {
	o, err := scanOrder(db.Pool.QueryRow(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1 AND status = $2 AND nearest_branch IS NULL
		ORDER BY created_at DESC
		LIMIT 1`,
		userID, OrderStatusPending,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// ListOrdersByUserID returns the user's most recent orders.
func ListOrdersByUserID(ctx context.Context, userID int64, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListRecentOrders returns recent orders for the admin panel, newest first.
func ListRecentOrders(ctx context.Context, limit, offset int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]models.Order, error) {
	var res []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *o)
	}
	return res, rows.Err()
}

// CountOrders returns the total number of orders.
func CountOrders(ctx context.Context) (int, error) {
	var n int
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

// AttachLocationAndFee sets the order's coordinate, delivery fee and
// nearest branch from a quote computed against that same coordinate.
// First-wins: the UPDATE only matches while nearest_branch is still NULL,
// so a second location can never overwrite the fee with a quote for a
// different coordinate. Returns false when the fee was already attached.
func AttachLocationAndFee(ctx context.Context, orderID string, lat, lon float64, deliveryFee int64, nearestBranch string) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE orders SET
			lat = $1, lon = $2, delivery_fee = $3, nearest_branch = $4,
			updated_at = now()
		WHERE id = $5 AND nearest_branch IS NULL`,
		lat, lon, deliveryFee, nearestBranch, orderID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// expectedFromStatus returns the only status a transition to target may
// start from, per the transition table.
func expectedFromStatus(target string) (string, error) {
	for _, from := range AllOrderStatuses {
		if ValidStatusTransition(from, target) {
			return from, nil
		}
	}
	return "", fmt.Errorf("no transition leads to status %q", target)
}

// DecideOrder commits a status transition atomically: a single UPDATE
// guarded by the expected source status, so under a concurrent duplicate
// decision exactly one actor wins. The loser gets *ErrAlreadyDecided with
// the status that actually stuck. Returns the updated order on success.
func DecideOrder(ctx context.Context, orderID string, target string) (*models.Order, error) {
	expected, err := expectedFromStatus(target)
	if err != nil {
		return nil, err
	}
	o, err := scanOrder(db.Pool.QueryRow(ctx, `
		UPDATE orders SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING `+orderColumns,
		target, orderID, expected,
	))
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	// Lost the race or wrong state: report what the order actually is.
	var current string
	err = db.Pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return nil, &ErrAlreadyDecided{OrderID: orderID, CurrentStatus: current}
}

// GetStatistics aggregates counts for the admin panel.
func GetStatistics(ctx context.Context) (*models.Statistics, error) {
	s := &models.Statistics{OrdersByStatus: make(map[string]int)}

	rows, err := db.Pool.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		s.OrdersByStatus[status] = count
		s.TotalOrders += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(DISTINCT user_id) FROM orders`).Scan(&s.TotalUsers); err != nil {
		return nil, err
	}
	err = db.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount + COALESCE(delivery_fee, 0)), 0)::bigint
		FROM orders WHERE status = $1`,
		OrderStatusCompleted,
	).Scan(&s.CompletedRevenue)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetDailyStats aggregates one day's orders (date as YYYY-MM-DD).
func GetDailyStats(ctx context.Context, date string) (*models.DailyStats, error) {
	var s models.DailyStats
	err := db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*)::int,
			COALESCE(SUM(total_amount), 0)::bigint,
			COALESCE(SUM(delivery_fee), 0)::bigint,
			COALESCE(SUM(total_amount + COALESCE(delivery_fee, 0)), 0)::bigint
		FROM orders
		WHERE created_at::date = $1::date`,
		date,
	).Scan(&s.OrdersCount, &s.ItemsRevenue, &s.DeliveryRevenue, &s.GrandRevenue)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
