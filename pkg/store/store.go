package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HypoDev/MineGlass/pkg/blob"
	"github.com/HypoDev/MineGlass/pkg/catalog"
)

// ErrNotFound is returned when no catalog entry carries the given ID.
var ErrNotFound = errors.New("catalog entry not found")

// CatalogStore provides CRUD for managed catalog entries. Deleting or
// replacing an entry releases its managed image best effort: storage
// failures are logged and the catalog operation still succeeds.
type CatalogStore struct {
	db      *gorm.DB
	storage blob.Storage // nil when no object storage is configured
	logger  *slog.Logger
}

// NewCatalogStore creates a new CatalogStore. storage may be nil.
func NewCatalogStore(db *gorm.DB, storage blob.Storage, logger *slog.Logger) *CatalogStore {
	return &CatalogStore{db: db, storage: storage, logger: logger}
}

// AutoMigrate creates or updates the catalog tables.
func (s *CatalogStore) AutoMigrate() error {
	if err := s.db.AutoMigrate(&ModRecord{}); err != nil {
		return fmt.Errorf("auto-migrate mods: %w", err)
	}
	if err := s.db.AutoMigrate(&ServerRecord{}); err != nil {
		return fmt.Errorf("auto-migrate servers: %w", err)
	}
	return nil
}

// CreateMod inserts a managed mod entry. A blank ID gets a generated one.
// imageKey ties the entry to its managed image object, empty for external
// image URLs.
func (s *CatalogStore) CreateMod(m catalog.Mod, imageKey string) (catalog.Mod, error) {
	if !m.Category.Valid() {
		return catalog.Mod{}, fmt.Errorf("unknown category %q", m.Category)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	rec := modRecordFrom(m, imageKey)
	if err := s.db.Create(rec).Error; err != nil {
		return catalog.Mod{}, fmt.Errorf("create mod: %w", err)
	}
	return rec.toMod(), nil
}

// GetMod retrieves a managed mod by ID.
func (s *CatalogStore) GetMod(id string) (catalog.Mod, error) {
	var rec ModRecord
	if err := s.db.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Mod{}, ErrNotFound
		}
		return catalog.Mod{}, fmt.Errorf("get mod: %w", err)
	}
	return rec.toMod(), nil
}

// UpdateMod replaces a managed mod entry. An empty imageKey keeps the
// previous image association; a different key swaps the image in and
// releases the previous object.
func (s *CatalogStore) UpdateMod(ctx context.Context, m catalog.Mod, imageKey string) (catalog.Mod, error) {
	if !m.Category.Valid() {
		return catalog.Mod{}, fmt.Errorf("unknown category %q", m.Category)
	}

	var prev ModRecord
	if err := s.db.Where("id = ?", m.ID).First(&prev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Mod{}, ErrNotFound
		}
		return catalog.Mod{}, fmt.Errorf("get mod: %w", err)
	}

	if imageKey == "" {
		imageKey = prev.ImageKey
	}
	rec := modRecordFrom(m, imageKey)
	rec.CreatedAt = prev.CreatedAt
	if err := s.db.Save(rec).Error; err != nil {
		return catalog.Mod{}, fmt.Errorf("update mod: %w", err)
	}

	if prev.ImageKey != "" && prev.ImageKey != imageKey {
		s.releaseImage(ctx, prev.ImageKey)
	}
	return rec.toMod(), nil
}

// DeleteMod removes a managed mod and releases its managed image.
func (s *CatalogStore) DeleteMod(ctx context.Context, id string) error {
	var rec ModRecord
	if err := s.db.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get mod: %w", err)
	}
	if err := s.db.Delete(&ModRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete mod: %w", err)
	}
	if rec.ImageKey != "" {
		s.releaseImage(ctx, rec.ImageKey)
	}
	return nil
}

// ListMods returns every managed mod entry in creation order.
func (s *CatalogStore) ListMods() ([]catalog.Mod, error) {
	var records []ModRecord
	if err := s.db.Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list mods: %w", err)
	}
	mods := make([]catalog.Mod, 0, len(records))
	for i := range records {
		mods = append(mods, records[i].toMod())
	}
	return mods, nil
}

// SearchMods returns managed mods matching a free-text query and optional
// category, in creation order. Matching rules are those of the browse
// query engine.
func (s *CatalogStore) SearchMods(text string, category catalog.ModCategory) ([]catalog.Mod, error) {
	all, err := s.ListMods()
	if err != nil {
		return nil, err
	}
	matched := make([]catalog.Mod, 0, len(all))
	for _, m := range all {
		if catalog.MatchMod(m, text, category) {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// CreateServer inserts a managed server entry.
func (s *CatalogStore) CreateServer(srv catalog.Server, imageKey string) (catalog.Server, error) {
	if !srv.Type.Valid() {
		return catalog.Server{}, fmt.Errorf("unknown server type %q", srv.Type)
	}
	if srv.ID == "" {
		srv.ID = uuid.NewString()
	}
	rec := serverRecordFrom(srv, imageKey)
	if err := s.db.Create(rec).Error; err != nil {
		return catalog.Server{}, fmt.Errorf("create server: %w", err)
	}
	return rec.toServer(), nil
}

// GetServer retrieves a managed server by ID.
func (s *CatalogStore) GetServer(id string) (catalog.Server, error) {
	var rec ServerRecord
	if err := s.db.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Server{}, ErrNotFound
		}
		return catalog.Server{}, fmt.Errorf("get server: %w", err)
	}
	return rec.toServer(), nil
}

// UpdateServer replaces a managed server entry. An empty imageKey keeps
// the previous image association.
func (s *CatalogStore) UpdateServer(ctx context.Context, srv catalog.Server, imageKey string) (catalog.Server, error) {
	if !srv.Type.Valid() {
		return catalog.Server{}, fmt.Errorf("unknown server type %q", srv.Type)
	}
	var prev ServerRecord
	if err := s.db.Where("id = ?", srv.ID).First(&prev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Server{}, ErrNotFound
		}
		return catalog.Server{}, fmt.Errorf("get server: %w", err)
	}

	if imageKey == "" {
		imageKey = prev.ImageKey
	}
	rec := serverRecordFrom(srv, imageKey)
	rec.CreatedAt = prev.CreatedAt
	if err := s.db.Save(rec).Error; err != nil {
		return catalog.Server{}, fmt.Errorf("update server: %w", err)
	}

	if prev.ImageKey != "" && prev.ImageKey != imageKey {
		s.releaseImage(ctx, prev.ImageKey)
	}
	return rec.toServer(), nil
}

// DeleteServer removes a managed server and releases its managed image.
func (s *CatalogStore) DeleteServer(ctx context.Context, id string) error {
	var rec ServerRecord
	if err := s.db.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get server: %w", err)
	}
	if err := s.db.Delete(&ServerRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete server: %w", err)
	}
	if rec.ImageKey != "" {
		s.releaseImage(ctx, rec.ImageKey)
	}
	return nil
}

// ListServers returns every managed server entry in creation order.
func (s *CatalogStore) ListServers() ([]catalog.Server, error) {
	var records []ServerRecord
	if err := s.db.Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}
	servers := make([]catalog.Server, 0, len(records))
	for i := range records {
		servers = append(servers, records[i].toServer())
	}
	return servers, nil
}

// releaseImage deletes an image object, logging failures instead of
// surfacing them. The entry mutation already committed; a stale object is
// the cheaper inconsistency.
func (s *CatalogStore) releaseImage(ctx context.Context, key string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil && !errors.Is(err, blob.ErrNotFound) {
		s.logger.Warn("failed to release image", "key", key, "error", err)
	}
}
