package model

import "time"

// Request represents a user's ask to withdraw a quantity of an item.
type Request struct {
	ID          int64      `json:"id"`
	RequesterID int64      `json:"requester_id"`
	ItemID      int64      `json:"item_id"`
	Quantity    int        `json:"quantity"`
	Status      string     `json:"status"`
	DecidedBy   *int64     `json:"decided_by,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	// Joined fields (not always populated).
	RequesterName string `json:"requester_name,omitempty"`
	ItemName      string `json:"item_name,omitempty"`
	ItemLocation  string `json:"item_location,omitempty"`
}

// Request statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Workflow actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type transition struct {
	status string
	action string
}

// transitions maps every valid (status, action) pair to the resulting status.
// Approving an approved request is the one missing pair: the stock deduction
// must never replay. Reject is reachable from every status and does not
// restore stock.
var transitions = map[transition]string{
	{StatusPending, ActionApprove}:  StatusApproved,
	{StatusRejected, ActionApprove}: StatusApproved,
	{StatusPending, ActionReject}:   StatusRejected,
	{StatusApproved, ActionReject}:  StatusRejected,
	{StatusRejected, ActionReject}:  StatusRejected,
}

// NextStatus validates a workflow action against the current status and
// returns the status the request moves to.
func NextStatus(status, action string) (string, error) {
	if status == StatusApproved && action == ActionApprove {
		return "", ErrAlreadyApproved
	}
	next, ok := transitions[transition{status, action}]
	if !ok {
		return "", ErrInvalidInput
	}
	return next, nil
}
