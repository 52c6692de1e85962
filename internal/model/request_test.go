package model

import (
	"errors"
	"testing"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		status  string
		action  string
		want    string
		wantErr error
	}{
		{StatusPending, ActionApprove, StatusApproved, nil},
		{StatusPending, ActionReject, StatusRejected, nil},
		// Approved requests must never be approved again.
		{StatusApproved, ActionApprove, "", ErrAlreadyApproved},
		// Re-approval of a rejected request is permitted.
		{StatusRejected, ActionApprove, StatusApproved, nil},
		// Reject is reachable from every status.
		{StatusApproved, ActionReject, StatusRejected, nil},
		{StatusRejected, ActionReject, StatusRejected, nil},
		// Unknown statuses and actions are invalid.
		{"cancelled", ActionApprove, "", ErrInvalidInput},
		{StatusPending, "revoke", "", ErrInvalidInput},
		{"", "", "", ErrInvalidInput},
	}

	for _, tt := range tests {
		got, err := NextStatus(tt.status, tt.action)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NextStatus(%q, %q) error = %v, want %v", tt.status, tt.action, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("NextStatus(%q, %q) unexpected error: %v", tt.status, tt.action, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NextStatus(%q, %q) = %q, want %q", tt.status, tt.action, got, tt.want)
		}
	}
}
