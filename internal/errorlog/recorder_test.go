package errorlog

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/angelmondragon/storecraft-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storecraft-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.ErrorLog{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func TestRecordPersistsRow(t *testing.T) {
	conn := openTestDB(t)
	rec := NewRecorder(NewRepository(conn), nil)

	cause := pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("driver broke"), "db: insert order")
	rec.Record(context.Background(), "ERROR", "/api/orders", "create order failed", cause)

	var rows []models.ErrorLog
	if err := conn.Find(&rows).Error; err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Level != "ERROR" || row.Logger != "/api/orders" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if !strings.HasPrefix(row.Thread, "goroutine-") {
		t.Fatalf("expected goroutine thread label, got %q", row.Thread)
	}
	if !strings.Contains(row.Exception, "driver broke") {
		t.Fatalf("expected cause chain in exception, got %q", row.Exception)
	}
	if row.Date.IsZero() {
		t.Fatal("expected date to be set")
	}
}

func TestRecorderContextRoundTrip(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Fatalf("expected nil recorder for bare context, got %v", got)
	}

	rec := NewRecorder(NewRepository(openTestDB(t)), nil)
	ctx := WithRecorder(context.Background(), rec)
	if got := FromContext(ctx); got != rec {
		t.Fatal("expected recorder back from context")
	}
}

func TestRecordWithNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.Record(context.Background(), "ERROR", "x", "y", nil)
}
