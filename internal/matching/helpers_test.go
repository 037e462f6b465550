package matching

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMatcher(t *testing.T, preset string, th Thresholds) *Matcher {
	t.Helper()
	opts, err := NewOptions(preset, th, 4)
	require.NoError(t, err)
	return NewMatcher(discardLogger(), opts)
}

func subject(en, zh string) domain.Subject {
	return domain.Subject{
		ID:                uuid.New(),
		NameEN:            en,
		NameZH:            zh,
		SearchKey:         json.RawMessage(`{"searchBy":"name"}`),
		OngoingMonitoring: true,
	}
}

func event(action domain.Action, payload string, offset time.Duration) domain.ChangeEvent {
	return domain.ChangeEvent{
		ID:             uuid.New(),
		Category:       domain.CategoryAdverseMedia,
		Action:         action,
		SourceRecordID: "src-" + uuid.NewString()[:8],
		Payload:        json.RawMessage(payload),
		Status:         domain.EventStatusPending,
		CreatedAt:      baseTime.Add(offset),
	}
}
