package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/vallas?sslmode=disable", pgx5URL("postgres://u:p@db:5432/vallas?sslmode=disable"))
	assert.Equal(t, "pgx5://u:p@db/vallas", pgx5URL("postgresql://u:p@db/vallas"))
	assert.Equal(t, "pgx5://db/vallas", pgx5URL("pgx5://db/vallas"))
}

func TestViolatedConstraint(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: constraintProformaMonth}
	wrapped := errors.Join(errors.New("insert"), err)

	assert.True(t, isUniqueViolation(wrapped))
	assert.Equal(t, constraintProformaMonth, violatedConstraint(wrapped))
	assert.Equal(t, "", violatedConstraint(errors.New("otro")))
}

func TestMonthStart(t *testing.T) {
	loc := time.FixedZone("CAT", 2*3600)
	got := monthStart(time.Date(2025, 3, 31, 23, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, loc), got)
}
