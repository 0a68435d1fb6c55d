package adapter

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestRowAbsentClassification(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		absent bool
	}{
		{"no rows", pgx.ErrNoRows, true},
		{"wrapped no rows", fmt.Errorf("lookup: %w", pgx.ErrNoRows), true},
		// A non-uuid opaque id fails at the cast before any row lookup; to
		// callers that is indistinguishable from a key with no row.
		{"invalid uuid literal", &pgconn.PgError{Code: "22P02"}, true},
		{"wrapped invalid uuid literal", fmt.Errorf("query: %w", &pgconn.PgError{Code: "22P02"}), true},
		{"fk violation", &pgconn.PgError{Code: "23503"}, false},
		{"connection failure", fmt.Errorf("dial tcp: connection refused"), false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.absent, rowAbsent(tc.err))
		})
	}
}

func TestIsPgCode(t *testing.T) {
	assert.True(t, isPgCode(&pgconn.PgError{Code: "23503"}, pgFKViolation))
	assert.True(t, isPgCode(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "22P02"}), pgInvalidText))
	assert.False(t, isPgCode(&pgconn.PgError{Code: "23503"}, pgInvalidText))
	assert.False(t, isPgCode(fmt.Errorf("plain failure"), pgFKViolation))
	assert.False(t, isPgCode(nil, pgFKViolation))
}
