package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stockroom-app/stockroom/internal/db"
	"github.com/stockroom-app/stockroom/internal/model"
)

func seedWorkflow(t *testing.T) (database *sql.DB, admin, requester *model.User, item *model.Item) {
	t.Helper()
	database = db.NewTestDB(t)
	ctx := context.Background()

	admin, err := CreateUser(ctx, database, "boss", "hash", model.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	requester, err = CreateUser(ctx, database, "alice", "hash", model.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	item, err = CreateItem(ctx, database, "Monitor", 10, "Electronics", "Shelf B")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	return database, admin, requester, item
}

func TestSubmitRequest(t *testing.T) {
	database, admin, requester, item := seedWorkflow(t)
	ctx := context.Background()

	req, err := SubmitRequest(ctx, database, requester.ID, item.ID, 3)
	if err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}
	if req.Status != model.StatusPending {
		t.Errorf("expected pending, got %q", req.Status)
	}
	if req.RequesterName != "alice" || req.ItemName != "Monitor" {
		t.Errorf("unexpected joined fields: %+v", req)
	}

	// One notification per admin, with the requester and item named.
	notes, err := ListNotifications(ctx, database, admin.ID, false)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 admin notification, got %d", len(notes))
	}
	if notes[0].Message != "alice requested Monitor" {
		t.Errorf("unexpected message %q", notes[0].Message)
	}

	// The requester is not notified about their own submission.
	own, _ := ListNotifications(ctx, database, requester.ID, false)
	if len(own) != 0 {
		t.Errorf("expected no requester notifications, got %d", len(own))
	}
}

func TestSubmitRequestFanOutPerAdmin(t *testing.T) {
	database, _, requester, item := seedWorkflow(t)
	ctx := context.Background()

	second, _ := CreateUser(ctx, database, "boss2", "hash", model.RoleAdmin)

	if _, err := SubmitRequest(ctx, database, requester.ID, item.ID, 1); err != nil {
		t.Fatalf("SubmitRequest: %v", err)
	}

	notes, _ := ListNotifications(ctx, database, second.ID, false)
	if len(notes) != 1 {
		t.Errorf("expected second admin to be notified, got %d", len(notes))
	}
}

func TestSubmitRequestValidation(t *testing.T) {
	database, _, requester, item := seedWorkflow(t)
	ctx := context.Background()

	if _, err := SubmitRequest(ctx, database, requester.ID, item.ID, 0); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero quantity, got %v", err)
	}
	if _, err := SubmitRequest(ctx, database, requester.ID, item.ID, -2); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative quantity, got %v", err)
	}
	if _, err := SubmitRequest(ctx, database, requester.ID, 9999, 1); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing item, got %v", err)
	}
}

func TestApproveRequest(t *testing.T) {
	database, admin, requester, item := seedWorkflow(t)
	ctx := context.Background()

	req, _ := SubmitRequest(ctx, database, requester.ID, item.ID, 4)

	approved, err := ApproveRequest(ctx, database, req.ID, admin.ID)
	if err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	if approved.Status != model.StatusApproved {
		t.Errorf("expected approved, got %q", approved.Status)
	}
	if approved.DecidedBy == nil || *approved.DecidedBy != admin.ID {
		t.Errorf("expected decided_by %d, got %v", admin.ID, approved.DecidedBy)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != 6 {
		t.Errorf("expected quantity 6 after approval, got %d", got.Quantity)
	}
}

func TestApproveRequestTwiceDeductsOnce(t *testing.T) {
	database, admin, requester, item := seedWorkflow(t)
	ctx := context.Background()

	req, _ := SubmitRequest(ctx, database, requester.ID, item.ID, 4)

	if _, err := ApproveRequest(ctx, database, req.ID, admin.ID); err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}

	_, err := ApproveRequest(ctx, database, req.ID, admin.ID)
	if !errors.Is(err, model.ErrAlreadyApproved) {
		t.Fatalf("expected ErrAlreadyApproved, got %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != 6 {
		t.Errorf("expected quantity 6 after double approval, got %d", got.Quantity)
	}
}

func TestApproveRequestInsufficientStock(t *testing.T) {
	database, admin, requester, item := seedWorkflow(t)
	ctx := context.Background()

	req, _ := SubmitRequest(ctx, database, requester.ID, item.ID, 11)

	_, err := ApproveRequest(ctx, database, req.ID, admin.ID)
	if !errors.Is(err, model.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Neither the request nor the item changed.
	got, _ := GetRequest(ctx, database, req.ID)
	if got.Status != model.StatusPending {
		t.Errorf("expected pending after failed approval, got %q", got.Status)
	}
	stock, _ := GetItem(ctx, database, item.ID)
	if stock.Quantity != 10 {
		t.Errorf("expected quantity 10 after failed approval, got %d", stock.Quantity)
	}
}

func TestApproveRequestExactStock(t *testing.T) {
	database, admin, requester, _ := seedWorkflow(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Stapler", 5, "", "")
	req, _ := SubmitRequest(ctx, database, requester.ID, item.ID, 5)

	if _, err := ApproveRequest(ctx, database, req.ID, admin.ID); err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", got.Quantity)
	}
}

func TestRejectRequestFromAnyStatus(t *testing.T) {
	database, admin, requester, item := seedWorkflow(t)
	ctx := context.Background()

	// pending -> rejected
	req, _ := SubmitRequest(ctx, database, requester.ID, item.ID, 2)
	rejected, err := RejectRequest(ctx, database, req.ID, admin.ID)
	if err != nil {
		t.Fatalf("RejectRequest: %v", err)
	}
	if rejected.Status != model.StatusRejected {
		t.Errorf("expected rejected, got %q", rejected.Status)
	}

	// rejected -> rejected (no guard)
	if _, err := RejectRequest(ctx, database, req.ID, admin.ID); err != nil {
		t.Errorf("re-reject should succeed, got %v", err)
	}

	// approved -> rejected, stock not restored
	req2, _ := SubmitRequest(ctx, database, requester.ID, item.ID, 3)
	ApproveRequest(ctx, database, req2.ID, admin.ID)
	rejected, err = RejectRequest(ctx, database, req2.ID, admin.ID)
	if err != nil {
		t.Fatalf("RejectRequest after approval: %v", err)
	}
	if rejected.Status != model.StatusRejected {
		t.Errorf("expected rejected, got %q", rejected.Status)
	}
	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != 7 {
		t.Errorf("rejecting an approved request must not restore stock: got %d", got.Quantity)
	}
}

func TestApproveAfterReject(t *testing.T) {
	database, admin, requester, item := seedWorkflow(t)
	ctx := context.Background()

	req, _ := SubmitRequest(ctx, database, requester.ID, item.ID, 2)
	RejectRequest(ctx, database, req.ID, admin.ID)

	// A rejected request may still be approved; only approved is guarded.
	approved, err := ApproveRequest(ctx, database, req.ID, admin.ID)
	if err != nil {
		t.Fatalf("ApproveRequest after reject: %v", err)
	}
	if approved.Status != model.StatusApproved {
		t.Errorf("expected approved, got %q", approved.Status)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != 8 {
		t.Errorf("expected quantity 8, got %d", got.Quantity)
	}
}

func TestApproveRequestMissing(t *testing.T) {
	database, admin, _, _ := seedWorkflow(t)
	ctx := context.Background()

	if _, err := ApproveRequest(ctx, database, 4242, admin.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := RejectRequest(ctx, database, 4242, admin.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentApprovals(t *testing.T) {
	database, admin, requester, _ := seedWorkflow(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, "Projector", 10, "", "")
	first, _ := SubmitRequest(ctx, database, requester.ID, item.ID, 6)
	second, _ := SubmitRequest(ctx, database, requester.ID, item.ID, 6)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, id := range []int64{first.ID, second.ID} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = ApproveRequest(ctx, database, id, admin.ID)
		}()
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, model.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || insufficient != 1 {
		t.Fatalf("expected exactly one success and one stock failure, got ok=%d insufficient=%d", ok, insufficient)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != 4 {
		t.Errorf("expected quantity 4 after concurrent approvals, got %d", got.Quantity)
	}
}

func TestListRequestsFiltered(t *testing.T) {
	database, admin, requester, item := seedWorkflow(t)
	ctx := context.Background()

	r1, _ := SubmitRequest(ctx, database, requester.ID, item.ID, 1)
	SubmitRequest(ctx, database, admin.ID, item.ID, 2)
	ApproveRequest(ctx, database, r1.ID, admin.ID)

	all, err := ListRequests(ctx, database, 0, "")
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 requests, got %d", len(all))
	}

	mine, _ := ListRequests(ctx, database, requester.ID, "")
	if len(mine) != 1 {
		t.Errorf("expected 1 request for alice, got %d", len(mine))
	}

	pending, _ := ListRequests(ctx, database, 0, model.StatusPending)
	if len(pending) != 1 {
		t.Errorf("expected 1 pending request, got %d", len(pending))
	}
}

func TestCountRequests(t *testing.T) {
	database, admin, requester, item := seedWorkflow(t)
	ctx := context.Background()

	r1, _ := SubmitRequest(ctx, database, requester.ID, item.ID, 1)
	SubmitRequest(ctx, database, requester.ID, item.ID, 2)
	ApproveRequest(ctx, database, r1.ID, admin.ID)

	total, pending, err := CountRequests(ctx, database)
	if err != nil {
		t.Fatalf("CountRequests: %v", err)
	}
	if total != 2 || pending != 1 {
		t.Errorf("expected total=2 pending=1, got total=%d pending=%d", total, pending)
	}
}
