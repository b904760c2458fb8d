package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ashishpal07/qp-assessment/internal/database"
	"github.com/ashishpal07/qp-assessment/internal/models"
)

type CreateOrderRequest struct {
	UserID int64
	Items  []OrderItemRequest
}

type OrderItemRequest struct {
	GroceryID int64
	Quantity  int
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%s", uuid.NewString())
}

// CreateOrder places an order atomically: every referenced grocery row is
// locked, stock sufficiency is verified against the locked rows, the order
// and its price-snapshot items are inserted, and each stock decrement keeps
// a floor check so no concurrent order can drive stock negative. The whole
// sequence commits or rolls back as one transaction.
func CreateOrder(ctx context.Context, db *sql.DB, req CreateOrderRequest) (*models.Order, error) {
	var order *models.Order

	// Lock rows in ascending grocery id order to avoid lock-order deadlocks
	// between concurrent orders.
	locked := make([]OrderItemRequest, len(req.Items))
	copy(locked, req.Items)
	sort.Slice(locked, func(i, j int) bool { return locked[i].GroceryID < locked[j].GroceryID })

	err := database.WithRetry(ctx, db, database.TxOptions{
		IsolationLevel: sql.LevelSerializable,
		MaxRetries:     3,
	}, func(tx *sql.Tx) error {
		groceries := make(map[int64]*models.Grocery, len(locked))

		for _, item := range locked {
			grocery := &models.Grocery{}
			err := tx.QueryRowContext(ctx,
				`SELECT id, name, price, stock
				 FROM groceries
				 WHERE id = $1
				 FOR UPDATE`,
				item.GroceryID).Scan(
				&grocery.ID,
				&grocery.Name,
				&grocery.Price,
				&grocery.Stock,
			)
			if err != nil {
				if err == sql.ErrNoRows {
					return database.ErrGroceryNotFound
				}
				return fmt.Errorf("lock grocery %d: %w", item.GroceryID, err)
			}
			groceries[grocery.ID] = grocery
		}

		var totalPrice decimal.Decimal
		for _, item := range req.Items {
			grocery := groceries[item.GroceryID]
			if grocery.Stock < item.Quantity {
				return database.ErrInsufficientStock
			}
			totalPrice = totalPrice.Add(grocery.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		order = &models.Order{}
		err := tx.QueryRowContext(ctx,
			`INSERT INTO orders (user_id, order_number, status, total_price, created_at, updated_at, version)
			 VALUES ($1, $2, $3, $4, NOW(), NOW(), 1)
			 RETURNING id, user_id, order_number, status, total_price, created_at, updated_at, version`,
			req.UserID, generateOrderNumber(), models.OrderStatusPending, totalPrice).Scan(
			&order.ID,
			&order.UserID,
			&order.OrderNumber,
			&order.Status,
			&order.TotalPrice,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.Version,
		)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, item := range req.Items {
			unitPrice := groceries[item.GroceryID].Price
			subtotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

			orderItem := models.OrderItem{}
			err = tx.QueryRowContext(ctx,
				`INSERT INTO order_items (order_id, grocery_id, quantity, price, subtotal, created_at)
				 VALUES ($1, $2, $3, $4, $5, NOW())
				 RETURNING id, order_id, grocery_id, quantity, price, subtotal, created_at`,
				order.ID, item.GroceryID, item.Quantity, unitPrice, subtotal).Scan(
				&orderItem.ID,
				&orderItem.OrderID,
				&orderItem.GroceryID,
				&orderItem.Quantity,
				&orderItem.Price,
				&orderItem.Subtotal,
				&orderItem.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
			order.Items = append(order.Items, orderItem)
		}

		for _, item := range locked {
			result, err := tx.ExecContext(ctx,
				`UPDATE groceries
				 SET stock = stock - $1,
				     updated_at = NOW(),
				     version = version + 1
				 WHERE id = $2
				   AND stock >= $1`,
				item.Quantity, item.GroceryID)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}

			rowsAffected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("get rows affected: %w", err)
			}

			if rowsAffected == 0 {
				return database.ErrInsufficientStock
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return order, nil
}

// CancelOrder restores each item's stock and marks the order cancelled in
// one transaction. The order row is locked first so a concurrent cancel or
// delivery cannot interleave.
func CancelOrder(ctx context.Context, db *sql.DB, orderID, userID int64) (*models.Order, error) {
	var order *models.Order

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		var ownerID int64
		var status string

		err := tx.QueryRowContext(ctx,
			`SELECT user_id, status FROM orders WHERE id = $1 FOR UPDATE`,
			orderID).Scan(&ownerID, &status)
		if err != nil {
			if err == sql.ErrNoRows {
				return database.ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}

		if ownerID != userID {
			return database.ErrOrderNotOwned
		}
		if status != models.OrderStatusPending {
			return database.ErrOrderNotPending
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE groceries g
			 SET stock = g.stock + oi.quantity,
			     updated_at = NOW(),
			     version = g.version + 1
			 FROM order_items oi
			 WHERE oi.order_id = $1
			   AND g.id = oi.grocery_id`,
			orderID)
		if err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}

		order = &models.Order{}
		err = tx.QueryRowContext(ctx,
			`UPDATE orders
			 SET status = $1, updated_at = NOW(), version = version + 1
			 WHERE id = $2
			 RETURNING id, user_id, order_number, status, total_price, created_at, updated_at, version`,
			models.OrderStatusCancelled, orderID).Scan(
			&order.ID,
			&order.UserID,
			&order.OrderNumber,
			&order.Status,
			&order.TotalPrice,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.Version,
		)
		if err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return order, nil
}

// DeliverOrder moves a pending order to delivered. Stock is untouched; it
// was already decremented at creation.
func DeliverOrder(ctx context.Context, db *sql.DB, orderID int64) (*models.Order, error) {
	var order *models.Order

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		var status string

		err := tx.QueryRowContext(ctx,
			`SELECT status FROM orders WHERE id = $1 FOR UPDATE`,
			orderID).Scan(&status)
		if err != nil {
			if err == sql.ErrNoRows {
				return database.ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}

		if status != models.OrderStatusPending {
			return database.ErrOrderNotPending
		}

		order = &models.Order{}
		err = tx.QueryRowContext(ctx,
			`UPDATE orders
			 SET status = $1, updated_at = NOW(), version = version + 1
			 WHERE id = $2
			 RETURNING id, user_id, order_number, status, total_price, created_at, updated_at, version`,
			models.OrderStatusDelivered, orderID).Scan(
			&order.ID,
			&order.UserID,
			&order.OrderNumber,
			&order.Status,
			&order.TotalPrice,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.Version,
		)
		if err != nil {
			return fmt.Errorf("deliver order: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return order, nil
}

func GetOrder(ctx context.Context, db *sql.DB, id int64) (*models.Order, error) {
	order := &models.Order{}

	query := `
		SELECT id, user_id, order_number, status, total_price, created_at, updated_at, version
		FROM orders
		WHERE id = $1`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNumber,
		&order.Status,
		&order.TotalPrice,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, grocery_id, quantity, price, subtotal, created_at
		FROM order_items
		WHERE order_id = $1`

	rows, err := db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.GroceryID,
			&item.Quantity,
			&item.Price,
			&item.Subtotal,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	order.Items = items

	return order, nil
}

func ListOrdersCursor(ctx context.Context, db *sql.DB, userID int64, cursor string, limit int) (*CursorPage, error) {
	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	query := `
		SELECT id, user_id, order_number, status, total_price, created_at, updated_at, version
		FROM orders
		WHERE user_id = $1
		  AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`

	rows, err := db.QueryContext(ctx, query, userID, cursorData.CreatedAt, cursorData.ID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.OrderNumber,
			&order.Status,
			&order.TotalPrice,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	var nextCursor string
	if hasMore && len(orders) > 0 {
		lastOrder := orders[len(orders)-1]
		nextCursor = EncodeCursor(OrderCursor{
			CreatedAt: lastOrder.CreatedAt,
			ID:        lastOrder.ID,
		})
	}

	return &CursorPage{
		Items:      orders,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}
