package errorlog

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/angelmondragon/storecraft-backend/pkg/db/models"
	"github.com/angelmondragon/storecraft-backend/pkg/logger"
)

type contextKey struct{}

type errorLogStore interface {
	Insert(ctx context.Context, entry *models.ErrorLog) error
}

// Recorder persists server-side failures to the error_logs table. Inserts are
// best-effort: a failed write is side-logged and never surfaced to callers.
type Recorder struct {
	store errorLogStore
	logg  *logger.Logger
}

// NewRecorder builds a recorder over the provided store.
func NewRecorder(store errorLogStore, logg *logger.Logger) *Recorder {
	return &Recorder{store: store, logg: logg}
}

// WithRecorder attaches the recorder to the context for downstream writers.
func WithRecorder(ctx context.Context, rec *Recorder) context.Context {
	if rec == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, rec)
}

// FromContext returns the attached recorder, or nil when none is bound.
func FromContext(ctx context.Context) *Recorder {
	rec, _ := ctx.Value(contextKey{}).(*Recorder)
	return rec
}

// Record appends one row. The logger name identifies the component that
// produced the failure, usually the chi route pattern.
func (r *Recorder) Record(ctx context.Context, level, loggerName, message string, cause error) {
	if r == nil || r.store == nil {
		return
	}

	exception := ""
	if cause != nil {
		exception = errorChain(cause)
	}
	entry := &models.ErrorLog{
		Date:      time.Now().UTC(),
		Thread:    goroutineLabel(),
		Level:     level,
		Logger:    loggerName,
		Message:   truncate(message, 4000),
		Exception: truncate(exception, 2000),
	}
	if err := r.store.Insert(ctx, entry); err != nil && r.logg != nil {
		r.logg.Error(ctx, "errorlog.insert_failed", err)
	}
}

// errorChain renders the full unwrap chain, outermost first.
func errorChain(err error) string {
	var buf bytes.Buffer
	for err != nil {
		if buf.Len() > 0 {
			buf.WriteString(": ")
		}
		buf.WriteString(err.Error())
		next := errors.Unwrap(err)
		if next == nil || next.Error() == err.Error() {
			break
		}
		err = next
	}
	return buf.String()
}

// goroutineLabel returns "goroutine-N" for the calling goroutine, read from
// the first line of the runtime stack header.
func goroutineLabel() string {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	header := buf[:n]
	// header looks like "goroutine 42 [running]:"
	fields := bytes.Fields(header)
	if len(fields) >= 2 {
		return "goroutine-" + string(fields[1])
	}
	return "goroutine-unknown"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
