package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolationPgx(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "raw_messages_message_control_id_key"}

	assert.True(t, IsUniqueViolation(pgErr, ""))
	assert.True(t, IsUniqueViolation(pgErr, "raw_messages_message_control_id_key"))
	assert.False(t, IsUniqueViolation(pgErr, "other_constraint"))

	wrapped := fmt.Errorf("create raw message: %w", pgErr)
	assert.True(t, IsUniqueViolation(wrapped, "raw_messages_message_control_id_key"))
}

func TestIsUniqueViolationPgxNonUnique(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503"}
	assert.False(t, IsUniqueViolation(pgErr, ""))
}

func TestIsUniqueViolationSQLiteMessage(t *testing.T) {
	err := errors.New("UNIQUE constraint failed: raw_messages.message_control_id")
	assert.True(t, IsUniqueViolation(err, ""))
}

func TestIsUniqueViolationNil(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil, "anything"))
}
