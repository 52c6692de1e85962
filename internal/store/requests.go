package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stockroom-app/stockroom/internal/model"
)

// SubmitRequest creates a pending request and appends one notification per
// administrator, all in a single transaction: either the request and its
// fan-out land together or neither does.
func SubmitRequest(ctx context.Context, db *sql.DB, requesterID, itemID int64, quantity int) (*model.Request, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", model.ErrInvalidInput)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemName string
	err = tx.QueryRowContext(ctx,
		`SELECT name FROM items WHERE id = ? AND deleted_at IS NULL`, itemID,
	).Scan(&itemName)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", itemID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}

	var requester string
	err = tx.QueryRowContext(ctx,
		`SELECT username FROM users WHERE id = ? AND deleted_at IS NULL`, requesterID,
	).Scan(&requester)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", requesterID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("checking requester: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO requests (requester_id, item_id, quantity) VALUES (?, ?, ?)`,
		requesterID, itemID, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Notify every current administrator. Zero admins means zero rows.
	adminIDs, err := listAdminIDs(ctx, tx)
	if err != nil {
		return nil, err
	}
	message := fmt.Sprintf("%s requested %s", requester, itemName)
	for _, adminID := range adminIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO notifications (user_id, message) VALUES (?, ?)`,
			adminID, message,
		); err != nil {
			return nil, fmt.Errorf("notifying admin %d: %w", adminID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing request: %w", err)
	}

	requestID, _ := result.LastInsertId()
	return GetRequest(ctx, db, requestID)
}

func listAdminIDs(ctx context.Context, tx *sql.Tx) ([]int64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM users WHERE role = ? AND deleted_at IS NULL`, model.RoleAdmin,
	)
	if err != nil {
		return nil, fmt.Errorf("listing admins: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning admin id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ApproveRequest transitions a request to approved and deducts the requested
// quantity from the item, as one unit: the decrement never commits without
// the status flip and vice versa. Stock sufficiency is checked against the
// item's quantity now, not at submission time. An already-approved request
// reports ErrAlreadyApproved and mutates nothing.
func ApproveRequest(ctx context.Context, db *sql.DB, requestID, decidedBy int64) (*model.Request, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID int64
	var quantity int
	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT item_id, quantity, status FROM requests WHERE id = ?`, requestID,
	).Scan(&itemID, &quantity, &status)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request %d: %w", requestID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}

	next, err := model.NextStatus(status, model.ActionApprove)
	if err != nil {
		return nil, fmt.Errorf("request %d: %w", requestID, err)
	}

	// Conditional decrement: no row matches if stock is insufficient.
	result, err := tx.ExecContext(ctx,
		`UPDATE items SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL AND quantity >= ?`,
		quantity, itemID, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("deducting stock: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking deduction: %w", err)
	}
	if rows == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM items WHERE id = ? AND deleted_at IS NULL`, itemID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("checking item: %w", err)
		}
		if exists == 0 {
			return nil, fmt.Errorf("item %d: %w", itemID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("item %d, need %d: %w", itemID, quantity, model.ErrInsufficientStock)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE requests SET status = ?, decided_by = ?, decided_at = CURRENT_TIMESTAMP WHERE id = ?`,
		next, decidedBy, requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating request status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing approval: %w", err)
	}

	return GetRequest(ctx, db, requestID)
}

// RejectRequest transitions a request to rejected. Reject is valid from every
// status and never touches stock, so an approved request can still be
// rejected afterwards without restoring the deducted quantity.
func RejectRequest(ctx context.Context, db *sql.DB, requestID, decidedBy int64) (*model.Request, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM requests WHERE id = ?`, requestID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request %d: %w", requestID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}

	next, err := model.NextStatus(status, model.ActionReject)
	if err != nil {
		return nil, fmt.Errorf("request %d: %w", requestID, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE requests SET status = ?, decided_by = ?, decided_at = CURRENT_TIMESTAMP WHERE id = ?`,
		next, decidedBy, requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating request status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing rejection: %w", err)
	}

	return GetRequest(ctx, db, requestID)
}

// GetRequest returns a request by ID with requester and item names joined.
func GetRequest(ctx context.Context, db *sql.DB, id int64) (*model.Request, error) {
	req := &model.Request{}
	var location sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT r.id, r.requester_id, r.item_id, r.quantity, r.status, r.decided_by, r.decided_at, r.created_at,
		        u.username AS requester_name, i.name AS item_name, i.location AS item_location
		 FROM requests r
		 JOIN users u ON u.id = r.requester_id
		 JOIN items i ON i.id = r.item_id
		 WHERE r.id = ?`, id,
	).Scan(&req.ID, &req.RequesterID, &req.ItemID, &req.Quantity, &req.Status, &req.DecidedBy, &req.DecidedAt,
		&req.CreatedAt, &req.RequesterName, &req.ItemName, &location)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}
	req.ItemLocation = location.String
	return req, nil
}

// ListRequests returns requests newest first, optionally filtered by
// requester or status.
func ListRequests(ctx context.Context, db *sql.DB, requesterID int64, status string) ([]model.Request, error) {
	query := `SELECT r.id, r.requester_id, r.item_id, r.quantity, r.status, r.decided_by, r.decided_at, r.created_at,
	                 u.username AS requester_name, i.name AS item_name, i.location AS item_location
	          FROM requests r
	          JOIN users u ON u.id = r.requester_id
	          JOIN items i ON i.id = r.item_id
	          WHERE 1=1`
	var args []any

	if requesterID > 0 {
		query += ` AND r.requester_id = ?`
		args = append(args, requesterID)
	}
	if status != "" {
		query += ` AND r.status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY r.created_at DESC, r.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer rows.Close()

	var requests []model.Request
	for rows.Next() {
		var req model.Request
		var location sql.NullString
		if err := rows.Scan(&req.ID, &req.RequesterID, &req.ItemID, &req.Quantity, &req.Status,
			&req.DecidedBy, &req.DecidedAt, &req.CreatedAt,
			&req.RequesterName, &req.ItemName, &location); err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		req.ItemLocation = location.String
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// LatestRequestForItem returns the most recent request referencing an item,
// or nil if the item has never been requested.
func LatestRequestForItem(ctx context.Context, db *sql.DB, itemID int64) (*model.Request, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM requests WHERE item_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`, itemID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest request: %w", err)
	}
	return GetRequest(ctx, db, id)
}

// CountRequests returns the total and pending request counts.
func CountRequests(ctx context.Context, db *sql.DB) (total, pending int, err error) {
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) FROM requests`,
		model.StatusPending,
	).Scan(&total, &pending)
	if err != nil {
		return 0, 0, fmt.Errorf("counting requests: %w", err)
	}
	return total, pending, nil
}
