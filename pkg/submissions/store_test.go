package submissions

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/HypoDev/MineGlass/pkg/catalog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store := NewStore(db)
	require.NoError(t, store.AutoMigrate())
	return store
}

func modDraft(title string) catalog.Mod {
	return catalog.Mod{
		Title:       title,
		Description: "a draft",
		Author:      "someone",
		Category:    catalog.CategoryUtility,
		Tags:        []string{"draft"},
	}
}

func TestStore_SubmitMod(t *testing.T) {
	store := newTestStore(t)

	rec, err := store.SubmitMod(modDraft("Iron Chests"), "user")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, KindMod, rec.Kind)
	assert.Equal(t, StatusPending, rec.Status)
	assert.Equal(t, "user", rec.Submitter)

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.JSONEq(t, rec.Payload, got.Payload)
}

func TestStore_SubmitMod_UnknownCategory(t *testing.T) {
	store := newTestStore(t)

	draft := modDraft("Bad")
	draft.Category = "redstone"
	_, err := store.SubmitMod(draft, "user")
	require.Error(t, err)
}

func TestStore_SubmitServer_UnknownType(t *testing.T) {
	store := newTestStore(t)

	draft := catalog.Server{Name: "X", Type: "definitely-not-a-type"}
	_, err := store.SubmitServer(draft, "user")
	require.Error(t, err)

	// Nothing entered the queue, so nothing can ever be approved.
	pending, err := store.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
	servers, err := store.ApprovedServers()
	require.NoError(t, err)
	assert.Empty(t, servers)
}

func TestStore_Get_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ApproveFlow(t *testing.T) {
	store := newTestStore(t)

	rec, err := store.SubmitMod(modDraft("Waystones"), "user")
	require.NoError(t, err)

	require.NoError(t, store.Approve(rec.ID, "admin"))

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
	assert.Equal(t, "admin", got.ResolvedBy)
	require.NotNil(t, got.ResolvedAt)

	mods, err := store.ApprovedMods()
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, rec.ID, mods[0].ID)
	assert.Equal(t, "Waystones", mods[0].Title)
}

func TestStore_RejectFlow(t *testing.T) {
	store := newTestStore(t)

	rec, err := store.SubmitMod(modDraft("Spam Mod"), "user")
	require.NoError(t, err)

	require.NoError(t, store.Reject(rec.ID, "admin", "duplicate of an existing entry"))

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)
	assert.Equal(t, "duplicate of an existing entry", got.Note)

	mods, err := store.ApprovedMods()
	require.NoError(t, err)
	assert.Empty(t, mods)
}

func TestStore_DecisionsAreFinal(t *testing.T) {
	store := newTestStore(t)

	rec, err := store.SubmitMod(modDraft("Chisel"), "user")
	require.NoError(t, err)
	require.NoError(t, store.Approve(rec.ID, "admin"))

	assert.ErrorIs(t, store.Approve(rec.ID, "admin"), ErrAlreadyResolved)
	assert.ErrorIs(t, store.Reject(rec.ID, "admin", "changed my mind"), ErrAlreadyResolved)

	// The first decision stands.
	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
}

func TestStore_ResolveUnknownID(t *testing.T) {
	store := newTestStore(t)

	assert.ErrorIs(t, store.Approve("missing", "admin"), ErrNotFound)
	assert.ErrorIs(t, store.Reject("missing", "admin", ""), ErrNotFound)
}

func TestStore_PendingQueueOrder(t *testing.T) {
	store := newTestStore(t)

	first, err := store.SubmitMod(modDraft("First"), "user")
	require.NoError(t, err)
	second, err := store.SubmitServer(catalog.Server{Name: "Second", Type: catalog.ServerSurvival}, "user")
	require.NoError(t, err)
	third, err := store.SubmitMod(modDraft("Third"), "other")
	require.NoError(t, err)

	require.NoError(t, store.Approve(second.ID, "admin"))

	pending, err := store.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, third.ID, pending[1].ID)
}

func TestStore_BySubmitter(t *testing.T) {
	store := newTestStore(t)

	mine, err := store.SubmitMod(modDraft("Mine"), "user")
	require.NoError(t, err)
	_, err = store.SubmitMod(modDraft("Theirs"), "other")
	require.NoError(t, err)

	records, err := store.BySubmitter("user")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, mine.ID, records[0].ID)
}

func TestStore_ApprovedServers(t *testing.T) {
	store := newTestStore(t)

	draft := catalog.Server{
		Name:        "CubeCraft",
		Description: "Minigames network",
		IP:          "play.cubecraft.net",
		Port:        25565,
		Type:        catalog.ServerMinigames,
		Players:     catalog.PlayerCounts{Online: 120, Max: 4000},
	}
	rec, err := store.SubmitServer(draft, "user")
	require.NoError(t, err)
	require.NoError(t, store.Approve(rec.ID, "admin"))

	servers, err := store.ApprovedServers()
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, rec.ID, servers[0].ID)
	assert.Equal(t, "CubeCraft", servers[0].Name)
	assert.Equal(t, 120, servers[0].Players.Online)
}
