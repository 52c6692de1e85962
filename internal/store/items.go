package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stockroom-app/stockroom/internal/model"
)

// CreateItem creates a new inventory item.
func CreateItem(ctx context.Context, db *sql.DB, name string, quantity int, category, location string) (*model.Item, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative: %w", model.ErrInvalidInput)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, quantity, category, location) VALUES (?, ?, ?, ?)`,
		name, quantity, category, location,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var category, location, imageMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, quantity, category, location, image_mime, created_at, updated_at, deleted_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Quantity, &category, &location, &imageMime,
		&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Category = category.String
	item.Location = location.String
	item.ImageMime = imageMime.String
	return item, nil
}

// ListItems returns all non-deleted items, newest first.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, quantity, category, location, image_mime, created_at, updated_at, deleted_at
		 FROM items WHERE deleted_at IS NULL ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// SearchItems returns non-deleted items filtered by a name substring and a
// created-at date range. Dates are YYYY-MM-DD strings, inclusive on both
// ends; any empty filter is skipped.
func SearchItems(ctx context.Context, db *sql.DB, search, startDate, endDate string) ([]model.Item, error) {
	query := `SELECT id, name, quantity, category, location, image_mime, created_at, updated_at, deleted_at
	          FROM items WHERE deleted_at IS NULL`
	var args []any

	if search != "" {
		query += ` AND name LIKE '%' || ? || '%'`
		args = append(args, search)
	}
	if startDate != "" {
		query += ` AND date(created_at) >= date(?)`
		args = append(args, startDate)
	}
	if endDate != "" {
		query += ` AND date(created_at) <= date(?)`
		args = append(args, endDate)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var item model.Item
		var category, location, imageMime sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &category, &location, &imageMime,
			&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Category = category.String
		item.Location = location.String
		item.ImageMime = imageMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's metadata and quantity (administrative edit,
// unconstrained beyond the non-negative check).
func UpdateItem(ctx context.Context, db *sql.DB, id int64, name string, quantity int, category, location string) error {
	if quantity < 0 {
		return fmt.Errorf("quantity must not be negative: %w", model.ErrInvalidInput)
	}

	_, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, quantity = ?, category = ?, location = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, quantity, category, location, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem soft-deletes an item.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// AdjustItemQuantity atomically applies quantity += delta. The guard is the
// conditional UPDATE itself: if the result would be negative no row matches,
// nothing changes, and ErrInsufficientStock is returned. Two concurrent
// deductions can therefore never drive the quantity below zero.
func AdjustItemQuantity(ctx context.Context, db *sql.DB, id int64, delta int) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL AND quantity + ? >= 0`,
		delta, id, delta,
	)
	if err != nil {
		return nil, fmt.Errorf("adjusting item quantity: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking adjustment: %w", err)
	}
	if rows == 0 {
		item, err := GetItem(ctx, db, id)
		if err != nil {
			return nil, err
		}
		if item == nil || item.DeletedAt != nil {
			return nil, fmt.Errorf("item %d: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("item %d has %d, need %d: %w", id, item.Quantity, -delta, model.ErrInsufficientStock)
	}

	return GetItem(ctx, db, id)
}

// CountItems returns the number of non-deleted items.
func CountItems(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE deleted_at IS NULL`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return count, nil
}

// SetItemImage sets an item's image data.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
