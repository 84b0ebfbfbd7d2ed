package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	pgDup := &pgconn.PgError{Code: "23505", ConstraintName: "employees_email_key"}
	sqliteDup := errors.New("UNIQUE constraint failed: employees.email")

	assert.True(t, IsUniqueViolation(pgDup))
	assert.True(t, IsUniqueViolation(fmt.Errorf("updating employee: %w", pgDup)))
	assert.True(t, IsUniqueViolation(sqliteDup))
	assert.True(t, IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "employees_email_key"`)))

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
