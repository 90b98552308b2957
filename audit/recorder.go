// Package audit persists the lifecycle of tool calls and the per-session
// search state. Callers treat every method as best-effort; this package
// only reports plain errors and never retries.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ToolCall is one recorded search invocation.
type ToolCall struct {
	ID        string `gorm:"primaryKey"`
	SessionID string `gorm:"index"`
	Name      string
	Status    string
	Params    string
	Result    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionState is the merged state document for one conversation.
type SessionState struct {
	SessionID string `gorm:"primaryKey"`
	State     string
	UpdatedAt time.Time
}

// Recorder stores tool calls and session state in a gorm-backed store.
type Recorder struct {
	db *gorm.DB
}

// Open creates a sqlite-backed recorder at path and migrates its schema.
func Open(path string) (*Recorder, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening audit store: %w", err)
	}
	return NewRecorder(db)
}

// NewRecorder wraps an existing gorm DB, migrating the audit schema.
func NewRecorder(db *gorm.DB) (*Recorder, error) {
	if err := db.AutoMigrate(&ToolCall{}, &SessionState{}); err != nil {
		return nil, fmt.Errorf("migrating audit schema: %w", err)
	}
	return &Recorder{db: db}, nil
}

// RecordStart creates a running tool-call row and returns its ID.
func (r *Recorder) RecordStart(ctx context.Context, sessionID, name string, params interface{}) (string, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encoding call params: %w", err)
	}

	call := ToolCall{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Name:      name,
		Status:    "running",
		Params:    string(encoded),
	}
	if err := r.db.WithContext(ctx).Create(&call).Error; err != nil {
		return "", err
	}
	return call.ID, nil
}

// RecordOutcome finalizes a tool call with its status and payload.
func (r *Recorder) RecordOutcome(ctx context.Context, callID, status string, payload interface{}) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding call result: %w", err)
	}

	res := r.db.WithContext(ctx).Model(&ToolCall{}).Where("id = ?", callID).
		Updates(map[string]interface{}{"status": status, "result": string(encoded)})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("tool call %s not found", callID)
	}
	return nil
}

// MergeSessionState shallow-merges partial into the session's state
// document, creating the row on first write.
func (r *Recorder) MergeSessionState(ctx context.Context, sessionID string, partial map[string]interface{}) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row SessionState
		state := map[string]interface{}{}

		err := tx.Where("session_id = ?", sessionID).First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = SessionState{SessionID: sessionID}
		case err != nil:
			return err
		default:
			if row.State != "" {
				if err := json.Unmarshal([]byte(row.State), &state); err != nil {
					return fmt.Errorf("decoding session state: %w", err)
				}
			}
		}

		for key, value := range partial {
			state[key] = value
		}
		encoded, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("encoding session state: %w", err)
		}
		row.State = string(encoded)
		return tx.Save(&row).Error
	})
}

// CallsForSession lists recorded calls for one session, newest first.
func (r *Recorder) CallsForSession(ctx context.Context, sessionID string) ([]ToolCall, error) {
	var calls []ToolCall
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at desc").
		Find(&calls).Error
	return calls, err
}
