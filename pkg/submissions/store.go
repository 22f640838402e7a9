package submissions

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HypoDev/MineGlass/pkg/catalog"
)

var (
	// ErrNotFound is returned when no submission carries the given ID.
	ErrNotFound = errors.New("submission not found")

	// ErrAlreadyResolved is returned when a decision targets a submission
	// that has already been approved or rejected. Decisions are final; a
	// second decision is a caller error, not a retry.
	ErrAlreadyResolved = errors.New("submission already resolved")
)

// Store provides CRUD and review operations for submissions.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the submissions table.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&SubmissionRecord{}); err != nil {
		return fmt.Errorf("auto-migrate submissions: %w", err)
	}
	return nil
}

// SubmitMod records a mod draft as a pending submission. The draft's ID is
// overwritten with the submission ID so the approved projection and the
// review queue always agree on identity.
func (s *Store) SubmitMod(draft catalog.Mod, submitter string) (*SubmissionRecord, error) {
	if !draft.Category.Valid() {
		return nil, fmt.Errorf("unknown category %q", draft.Category)
	}
	id := uuid.NewString()
	draft.ID = id
	return s.submit(id, KindMod, submitter, draft)
}

// SubmitServer records a server draft as a pending submission.
func (s *Store) SubmitServer(draft catalog.Server, submitter string) (*SubmissionRecord, error) {
	if !draft.Type.Valid() {
		return nil, fmt.Errorf("unknown server type %q", draft.Type)
	}
	id := uuid.NewString()
	draft.ID = id
	return s.submit(id, KindServer, submitter, draft)
}

func (s *Store) submit(id string, kind Kind, submitter string, payload any) (*SubmissionRecord, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s draft: %w", kind, err)
	}
	rec := &SubmissionRecord{
		ID:        id,
		Kind:      kind,
		Status:    StatusPending,
		Submitter: submitter,
		Payload:   string(data),
	}
	if err := s.db.Create(rec).Error; err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return rec, nil
}

// Get retrieves a submission by ID.
func (s *Store) Get(id string) (*SubmissionRecord, error) {
	var rec SubmissionRecord
	if err := s.db.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return &rec, nil
}

// Pending returns every pending submission, oldest first, so reviewers work
// the queue in arrival order.
func (s *Store) Pending() ([]SubmissionRecord, error) {
	var records []SubmissionRecord
	if err := s.db.Where("status = ?", StatusPending).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}
	return records, nil
}

// BySubmitter returns all submissions made by one submitter, newest first.
func (s *Store) BySubmitter(submitter string) ([]SubmissionRecord, error) {
	var records []SubmissionRecord
	if err := s.db.Where("submitter = ?", submitter).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list submissions by submitter: %w", err)
	}
	return records, nil
}

// Approve marks a pending submission approved. Returns ErrNotFound if the ID
// is unknown and ErrAlreadyResolved if a decision was already made.
func (s *Store) Approve(id, actor string) error {
	return s.resolve(id, actor, StatusApproved, "")
}

// Reject marks a pending submission rejected, keeping the reviewer's note.
func (s *Store) Reject(id, actor, note string) error {
	return s.resolve(id, actor, StatusRejected, note)
}

// resolve flips a submission out of pending with a single conditional
// update. Concurrent decisions race on the WHERE clause; exactly one wins
// and the loser sees ErrAlreadyResolved.
func (s *Store) resolve(id, actor string, status Status, note string) error {
	result := s.db.Model(&SubmissionRecord{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":      status,
			"resolved_by": actor,
			"resolved_at": time.Now(),
			"note":        note,
		})
	if result.Error != nil {
		return fmt.Errorf("resolve submission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := s.Get(id); err != nil {
			return err
		}
		return ErrAlreadyResolved
	}
	return nil
}

// ApprovedMods projects every approved mod submission back into catalog
// entries, oldest approval first.
func (s *Store) ApprovedMods() ([]catalog.Mod, error) {
	records, err := s.approved(KindMod)
	if err != nil {
		return nil, err
	}
	mods := make([]catalog.Mod, 0, len(records))
	for _, rec := range records {
		var m catalog.Mod
		if err := json.Unmarshal([]byte(rec.Payload), &m); err != nil {
			return nil, fmt.Errorf("decode submission %s: %w", rec.ID, err)
		}
		m.ID = rec.ID
		mods = append(mods, m)
	}
	return mods, nil
}

// ApprovedServers projects every approved server submission back into
// catalog entries.
func (s *Store) ApprovedServers() ([]catalog.Server, error) {
	records, err := s.approved(KindServer)
	if err != nil {
		return nil, err
	}
	servers := make([]catalog.Server, 0, len(records))
	for _, rec := range records {
		var srv catalog.Server
		if err := json.Unmarshal([]byte(rec.Payload), &srv); err != nil {
			return nil, fmt.Errorf("decode submission %s: %w", rec.ID, err)
		}
		srv.ID = rec.ID
		servers = append(servers, srv)
	}
	return servers, nil
}

func (s *Store) approved(kind Kind) ([]SubmissionRecord, error) {
	var records []SubmissionRecord
	query := s.db.Where("kind = ? AND status = ?", kind, StatusApproved).Order("resolved_at ASC")
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list approved %s submissions: %w", kind, err)
	}
	return records, nil
}
