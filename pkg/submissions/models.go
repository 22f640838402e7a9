// Package submissions implements the community submission pipeline: drafts
// enter as pending records and leave through an admin approving or rejecting
// them. Approved drafts project back into catalog entries.
package submissions

import "time"

// Kind distinguishes what a submission proposes to add to the catalog.
type Kind string

const (
	KindMod    Kind = "mod"
	KindServer Kind = "server"
)

// Status is a submission's position in the review lifecycle. Pending is the
// only state a decision can be made from; approved and rejected are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// SubmissionRecord stores one submitted draft. Payload holds the draft
// catalog entry encoded as JSON; its shape depends on Kind.
type SubmissionRecord struct {
	ID         string     `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Kind       Kind       `gorm:"column:kind;index:idx_sub_kind_status,priority:1;not null" json:"kind"`
	Status     Status     `gorm:"column:status;index:idx_sub_kind_status,priority:2;default:pending;not null" json:"status"`
	Submitter  string     `gorm:"column:submitter;index;not null" json:"submitter"`
	Payload    string     `gorm:"column:payload;type:text;not null" json:"payload"`
	ResolvedBy string     `gorm:"column:resolved_by" json:"resolvedBy,omitempty"`
	ResolvedAt *time.Time `gorm:"column:resolved_at" json:"resolvedAt,omitempty"`
	Note       string     `gorm:"column:note" json:"note,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (SubmissionRecord) TableName() string { return "submissions" }
