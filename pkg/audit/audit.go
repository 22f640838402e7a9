// Package audit keeps an append-only log of admin actions: catalog edits
// and submission decisions. Entries are never updated; old events are
// pruned by the retention worker.
package audit

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Action names what the actor did.
type Action string

const (
	ActionEntryCreated       Action = "entry.created"
	ActionEntryUpdated       Action = "entry.updated"
	ActionEntryDeleted       Action = "entry.deleted"
	ActionSubmissionApproved Action = "submission.approved"
	ActionSubmissionRejected Action = "submission.rejected"
)

// EventRecord is an immutable audit log entry.
type EventRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Actor     string    `gorm:"column:actor;index:idx_audit_actor_time,priority:1;not null" json:"actor"`
	Action    Action    `gorm:"column:action;index:idx_audit_action_time,priority:1;not null" json:"action"`
	TargetID  string    `gorm:"column:target_id;index" json:"targetId,omitempty"`
	Detail    string    `gorm:"column:detail" json:"detail,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_audit_actor_time,priority:2;index:idx_audit_action_time,priority:2;autoCreateTime" json:"createdAt"`
}

// TableName returns the GORM table name.
func (EventRecord) TableName() string { return "audit_events" }

// Log persists audit events.
type Log struct {
	db *gorm.DB
}

// NewLog creates a new Log.
func NewLog(db *gorm.DB) *Log {
	return &Log{db: db}
}

// AutoMigrate creates or updates the audit table.
func (l *Log) AutoMigrate() error {
	if err := l.db.AutoMigrate(&EventRecord{}); err != nil {
		return fmt.Errorf("auto-migrate audit_events: %w", err)
	}
	return nil
}

// Append records an event.
func (l *Log) Append(actor string, action Action, targetID, detail string) error {
	rec := &EventRecord{
		ID:       uuid.NewString(),
		Actor:    actor,
		Action:   action,
		TargetID: targetID,
		Detail:   detail,
	}
	if err := l.db.Create(rec).Error; err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// List returns the newest events first, capped at limit. limit <= 0
// defaults to 100.
func (l *Log) List(limit int) ([]EventRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var records []EventRecord
	if err := l.db.Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return records, nil
}

// DeleteOlderThan removes events created before cutoff and returns the
// number removed.
func (l *Log) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := l.db.Where("created_at < ?", cutoff).Delete(&EventRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete audit events: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ByTarget returns all events touching one target, oldest first.
func (l *Log) ByTarget(targetID string) ([]EventRecord, error) {
	if targetID == "" {
		return nil, errors.New("target id required")
	}
	var records []EventRecord
	if err := l.db.Where("target_id = ?", targetID).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list audit events by target: %w", err)
	}
	return records, nil
}
