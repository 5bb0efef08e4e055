package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	if !IsUniqueViolation(pgErr, "") {
		t.Fatal("expected pg error with code 23505 to be a unique violation")
	}
	if !IsUniqueViolation(pgErr, "users_email_key") {
		t.Fatal("expected matching constraint name to be accepted")
	}
	if IsUniqueViolation(pgErr, "roles_name_key") {
		t.Fatal("expected mismatched constraint name to be rejected")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("expected foreign key violation to be rejected")
	}

	wrapped := errors.New("insert failed: UNIQUE constraint failed: users.email")
	if !IsUniqueViolation(wrapped, "") {
		t.Fatal("expected sqlite message fallback to match")
	}
	if !IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "roles_name_key"`), "roles_name_key") {
		t.Fatal("expected postgres message fallback to match constraint")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("expected nil error to be rejected")
	}
	if IsUniqueViolation(errors.New("connection reset"), "") {
		t.Fatal("expected unrelated error to be rejected")
	}
}
