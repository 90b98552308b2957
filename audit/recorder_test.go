package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T) *Recorder {
	rec, err := Open("file::memory:")
	require.NoError(t, err)
	return rec
}

func TestRecordStartAndOutcome(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	params := map[string]interface{}{"origin": "FRA", "destination": "HKT"}
	callID, err := rec.RecordStart(ctx, "session-1", "flight_search", params)
	require.NoError(t, err)
	require.NotEmpty(t, callID)

	calls, err := rec.CallsForSession(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, callID, calls[0].ID)
	assert.Equal(t, "flight_search", calls[0].Name)
	assert.Equal(t, "running", calls[0].Status)
	assert.Contains(t, calls[0].Params, `"origin":"FRA"`)

	err = rec.RecordOutcome(ctx, callID, "succeeded", map[string]interface{}{"kind": "results"})
	require.NoError(t, err)

	calls, err = rec.CallsForSession(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "succeeded", calls[0].Status)
	assert.Contains(t, calls[0].Result, `"kind":"results"`)
}

func TestRecordOutcomeUnknownCall(t *testing.T) {
	rec := newTestRecorder(t)

	err := rec.RecordOutcome(context.Background(), "no-such-call", "failed", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCallsForSessionScopedBySession(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	_, err := rec.RecordStart(ctx, "session-a", "flight_search", nil)
	require.NoError(t, err)
	_, err = rec.RecordStart(ctx, "session-b", "flight_search", nil)
	require.NoError(t, err)

	calls, err := rec.CallsForSession(ctx, "session-a")
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "session-a", calls[0].SessionID)
}

func TestMergeSessionState(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	err := rec.MergeSessionState(ctx, "session-1", map[string]interface{}{
		"last_origin": "FRA",
		"last_cabin":  "business",
	})
	require.NoError(t, err)

	err = rec.MergeSessionState(ctx, "session-1", map[string]interface{}{
		"last_origin": "MUC",
		"last_date":   "2025-03-15",
	})
	require.NoError(t, err)

	var row SessionState
	require.NoError(t, rec.db.Where("session_id = ?", "session-1").First(&row).Error)

	state := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(row.State), &state))
	assert.Equal(t, "MUC", state["last_origin"])
	assert.Equal(t, "business", state["last_cabin"])
	assert.Equal(t, "2025-03-15", state["last_date"])
}

func TestMergeSessionStateRequiresSessionID(t *testing.T) {
	rec := newTestRecorder(t)

	err := rec.MergeSessionState(context.Background(), "", map[string]interface{}{"k": "v"})
	require.Error(t, err)
}
