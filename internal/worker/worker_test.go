package worker

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"comptoir/internal/reports"

	"github.com/rs/zerolog"
)

type fakeExporter struct {
	calls   int
	failFor int
}

func (f *fakeExporter) ExportWorkbook(_ context.Context, _ reports.Params) (string, error) {
	f.calls++
	if f.calls <= f.failFor {
		return "", errors.New("boom")
	}
	return "/tmp/indicators.xlsx", nil
}

func TestRunOnceSuccess(t *testing.T) {
	exporter := &fakeExporter{}
	logger := zerolog.Nop()
	w := NewExportWorker(exporter, time.Hour, RetryPolicy{}, &logger)

	w.runOnce(context.Background())

	if exporter.calls != 1 {
		t.Fatalf("expected 1 export call, got %d", exporter.calls)
	}
}

func TestRunOnceRetriesUntilSuccess(t *testing.T) {
	exporter := &fakeExporter{failFor: 2}
	logger := zerolog.Nop()
	w := NewExportWorker(exporter, time.Hour, RetryPolicy{
		MaxRetries:   5,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
	}, &logger)

	w.runOnce(context.Background())

	if exporter.calls != 3 {
		t.Fatalf("expected 3 export calls, got %d", exporter.calls)
	}
}

func TestRunOnceGivesUp(t *testing.T) {
	exporter := &fakeExporter{failFor: 100}
	logger := zerolog.Nop()
	w := NewExportWorker(exporter, time.Hour, RetryPolicy{
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
	}, &logger)

	w.runOnce(context.Background())

	if exporter.calls != 2 {
		t.Fatalf("expected 2 export calls, got %d", exporter.calls)
	}
}

func TestRunOnceStopsOnCancel(t *testing.T) {
	exporter := &fakeExporter{failFor: 100}
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	w := NewExportWorker(exporter, time.Hour, RetryPolicy{
		MaxRetries:   10,
		InitialDelay: 50 * time.Millisecond,
	}, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.runOnce(ctx)

	if exporter.calls != 1 {
		t.Fatalf("expected 1 export call before cancel, got %d", exporter.calls)
	}
	if !strings.Contains(buf.String(), "export abandoned") {
		t.Fatalf("expected an abandoned-run log entry, got %q", buf.String())
	}
}

func TestRetryPolicyNextDelay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: time.Second, BackoffFactor: 2, MaxDelay: 5 * time.Second}

	if d := policy.NextDelay(1); d != time.Second {
		t.Errorf("attempt 1: expected 1s, got %s", d)
	}
	if d := policy.NextDelay(2); d != 2*time.Second {
		t.Errorf("attempt 2: expected 2s, got %s", d)
	}
	if d := policy.NextDelay(10); d != 5*time.Second {
		t.Errorf("attempt 10: expected clamp to 5s, got %s", d)
	}
	if d := policy.NextDelay(0); d != time.Second {
		t.Errorf("attempt 0: expected 1s, got %s", d)
	}

	zero := RetryPolicy{}
	if d := zero.NextDelay(1); d != time.Second {
		t.Errorf("zero policy: expected 1s default, got %s", d)
	}
}
