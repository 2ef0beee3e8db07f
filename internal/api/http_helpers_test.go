package api

import (
	"errors"
	"testing"

	"github.com/terraincognita07/askesis/internal/models"
	"github.com/terraincognita07/askesis/internal/services"
)

func TestTargetUserID(t *testing.T) {
	t.Parallel()

	member := &models.User{ID: 7, Role: models.RoleUser}
	admin := &models.User{ID: 1, Role: models.RoleAdmin}

	tests := []struct {
		name    string
		caller  *models.User
		raw     string
		want    uint
		wantErr error
	}{
		{name: "empty defaults to caller", caller: member, raw: "", want: 7},
		{name: "own id allowed", caller: member, raw: "7", want: 7},
		{name: "other id forbidden for member", caller: member, raw: "8", wantErr: services.ErrForbidden},
		{name: "other id allowed for admin", caller: admin, raw: " 8 ", want: 8},
		{name: "zero rejected", caller: admin, raw: "0", wantErr: errInvalidID},
		{name: "garbage rejected", caller: member, raw: "abc", wantErr: errInvalidID},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := targetUserID(test.caller, test.raw)
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("targetUserID(%q) error = %v, want %v", test.raw, err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("targetUserID(%q) returned error: %v", test.raw, err)
			}
			if got != test.want {
				t.Fatalf("targetUserID(%q) = %d, want %d", test.raw, got, test.want)
			}
		})
	}
}
