package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrNotFound, "not_found"},
		{fmt.Errorf("project %q: %w", "a", ErrAlreadyExists), "already_exists"},
		{fmt.Errorf("wrap: %w", ErrInvalidName), "invalid_name"},
		{fmt.Errorf("open: %w: %w", ErrStorage, errors.New("disk full")), "storage"},
		{errors.New("boom"), "internal"},
	}
	for _, tc := range cases {
		if got := Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
