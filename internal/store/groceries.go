package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ashishpal07/qp-assessment/internal/database"
	"github.com/ashishpal07/qp-assessment/internal/models"
)

func CreateGrocery(ctx context.Context, db *sql.DB, name, description string, price decimal.Decimal, stock int) (*models.Grocery, error) {
	grocery := &models.Grocery{}

	query := `
		INSERT INTO groceries (name, description, price, stock, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, NOW(), NOW(), 1)
		RETURNING id, name, description, price, stock, created_at, updated_at, version`

	err := db.QueryRowContext(ctx, query, name, description, price, stock).Scan(
		&grocery.ID,
		&grocery.Name,
		&grocery.Description,
		&grocery.Price,
		&grocery.Stock,
		&grocery.CreatedAt,
		&grocery.UpdatedAt,
		&grocery.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("create grocery: %w", err)
	}

	return grocery, nil
}

func GetGrocery(ctx context.Context, db *sql.DB, id int64) (*models.Grocery, error) {
	grocery := &models.Grocery{}

	query := `
		SELECT id, name, description, price, stock, created_at, updated_at, version
		FROM groceries
		WHERE id = $1`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&grocery.ID,
		&grocery.Name,
		&grocery.Description,
		&grocery.Price,
		&grocery.Stock,
		&grocery.CreatedAt,
		&grocery.UpdatedAt,
		&grocery.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrGroceryNotFound
		}
		return nil, fmt.Errorf("get grocery: %w", err)
	}

	return grocery, nil
}

// ListGroceries returns every catalog row. Ordering is not part of the
// contract; the query orders by id only to keep output stable.
func ListGroceries(ctx context.Context, db *sql.DB) ([]models.Grocery, error) {
	query := `
		SELECT id, name, description, price, stock, created_at, updated_at, version
		FROM groceries
		ORDER BY id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list groceries: %w", err)
	}
	defer rows.Close()

	var groceries []models.Grocery
	for rows.Next() {
		var grocery models.Grocery
		err := rows.Scan(
			&grocery.ID,
			&grocery.Name,
			&grocery.Description,
			&grocery.Price,
			&grocery.Stock,
			&grocery.CreatedAt,
			&grocery.UpdatedAt,
			&grocery.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("scan grocery: %w", err)
		}
		groceries = append(groceries, grocery)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return groceries, nil
}

// GroceryUpdate carries the optional fields of a partial catalog update.
// Nil fields keep their current value.
type GroceryUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
}

func UpdateGrocery(ctx context.Context, db *sql.DB, id int64, upd GroceryUpdate) (*models.Grocery, error) {
	grocery := &models.Grocery{}

	query := `
		UPDATE groceries
		SET name = COALESCE($1, name),
		    description = COALESCE($2, description),
		    price = COALESCE($3, price),
		    stock = COALESCE($4, stock),
		    updated_at = NOW(),
		    version = version + 1
		WHERE id = $5
		RETURNING id, name, description, price, stock, created_at, updated_at, version`

	var price interface{}
	if upd.Price != nil {
		price = *upd.Price
	}

	err := db.QueryRowContext(ctx, query,
		nullableString(upd.Name),
		nullableString(upd.Description),
		price,
		nullableInt(upd.Stock),
		id,
	).Scan(
		&grocery.ID,
		&grocery.Name,
		&grocery.Description,
		&grocery.Price,
		&grocery.Stock,
		&grocery.CreatedAt,
		&grocery.UpdatedAt,
		&grocery.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrGroceryNotFound
		}
		return nil, fmt.Errorf("update grocery: %w", err)
	}

	return grocery, nil
}

// DeleteGrocery removes a catalog row. Rows referenced by order items are
// protected by an ON DELETE RESTRICT constraint and surface as ErrGroceryInUse.
func DeleteGrocery(ctx context.Context, db *sql.DB, id int64) (*models.Grocery, error) {
	grocery := &models.Grocery{}

	query := `
		DELETE FROM groceries
		WHERE id = $1
		RETURNING id, name, description, price, stock, created_at, updated_at, version`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&grocery.ID,
		&grocery.Name,
		&grocery.Description,
		&grocery.Price,
		&grocery.Stock,
		&grocery.CreatedAt,
		&grocery.UpdatedAt,
		&grocery.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrGroceryNotFound
		}
		if database.IsForeignKeyViolation(err) {
			return nil, database.ErrGroceryInUse
		}
		return nil, fmt.Errorf("delete grocery: %w", err)
	}

	return grocery, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullableInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
