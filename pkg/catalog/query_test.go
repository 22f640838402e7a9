package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// fixtureMods builds a 14-entry mod collection. Exactly four entries match
// the text "create": two by title, one by description, one by tag. Download
// counts are distinct except for the two entries used by the stability test.
func fixtureMods() []Mod {
	return []Mod{
		{ID: "1", Title: "Create", Description: "Building tools and aesthetic technology", Author: "simibubi", Downloads: 12500000, Updated: "2024-01-15", Category: CategoryTechnology, Tags: []string{"machinery", "building"}, Rating: 4.9},
		{ID: "2", Title: "JEI", Description: "Item and recipe viewing", Author: "mezz", Downloads: 45600000, Updated: "2024-01-20", Category: CategoryUtility, Tags: []string{"recipes", "items"}, Rating: 4.8},
		{ID: "3", Title: "Biomes O' Plenty", Description: "Adds over 80 unique biomes", Author: "Forstride", Downloads: 28900000, Updated: "2024-01-18", Category: CategoryAdventure, Tags: []string{"biomes", "world-gen"}, Rating: 4.7},
		{ID: "4", Title: "Applied Energistics 2", Description: "Revolutionary storage and automation system", Author: "AlgorithmX2", Downloads: 18700000, Updated: "2024-01-12", Category: CategoryTechnology, Tags: []string{"storage", "automation"}, Rating: 4.8},
		{ID: "5", Title: "Botania", Description: "Tech mod themed around natural magic", Author: "Vazkii", Downloads: 22100000, Updated: "2024-01-16", Category: CategoryMagic, Tags: []string{"magic", "flowers"}, Rating: 4.9},
		{ID: "6", Title: "Create: Steam 'n' Rails", Description: "Trains and more for the flywheel age", Author: "railways-team", Downloads: 5000000, Updated: "2024-01-10", Category: CategoryTransportation, Tags: []string{"trains"}, Rating: 4.6},
		{ID: "7", Title: "Structurize", Description: "Lets you create grand structures with scan tools", Author: "ldtteam", Downloads: 3100000, Updated: "2023-12-30", Category: CategoryUtility, Tags: []string{"building"}, Rating: 4.3},
		{ID: "8", Title: "Steam Powered", Description: "Boilers and early industry", Author: "cogwheel", Downloads: 900000, Updated: "2023-11-02", Category: CategoryTechnology, Tags: []string{"create-addon", "steam"}, Rating: 4.1},
		{ID: "9", Title: "Creative Flight", Description: "Elytra-free hovering", Author: "wingless", Downloads: 700000, Updated: "2023-10-12", Category: CategoryUtility, Tags: []string{"movement"}, Rating: 3.9},
		{ID: "10", Title: "Iron Chests", Description: "Bigger chests in familiar shapes", Author: "progwml6", Downloads: 31000000, Updated: "2024-01-05", Category: CategoryStorage, Tags: []string{"storage", "chests"}, Rating: 4.5},
		{ID: "11", Title: "Waystones", Description: "Teleport network bound to stones", Author: "BlayTheNinth", Downloads: 26400000, Updated: "2024-01-19", Category: CategoryAdventure, Tags: []string{"teleport"}, Rating: 4.7},
		{ID: "12", Title: "Farmer's Delight", Description: "Cooking and farming expansion", Author: "vectorwing", Downloads: 15200000, Updated: "2024-01-08", Category: CategoryFood, Tags: []string{"cooking", "farming"}, Rating: 4.8},
		{ID: "13", Title: "Chisel", Description: "Decorative block variants", Author: "tterrag", Downloads: 15200000, Updated: "2023-09-14", Category: CategoryDecoration, Tags: []string{"decoration"}, Rating: 4.2},
		{ID: "14", Title: "Minecarts Plus", Description: "Faster rails and cart linking", Author: "cartwright", Downloads: 450000, Updated: "2023-08-21", Category: CategoryTransportation, Tags: []string{"rails", "minecarts"}, Rating: 3.8},
	}
}

func fixtureServers() []Server {
	return []Server{
		{ID: "s1", Name: "Hypixel", Description: "The largest server with unique games", Players: PlayerCounts{Online: 45000, Max: 100000}, Type: ServerMinigames, Tags: []string{"minigames", "skyblock"}, Rating: 4.9, Uptime: 99.9, Country: "US"},
		{ID: "s2", Name: "Mineplex", Description: "Family-friendly minigames", Players: PlayerCounts{Online: 2500, Max: 10000}, Type: ServerMinigames, Tags: []string{"family-friendly"}, Rating: 4.6, Uptime: 98.5, Country: "US"},
		{ID: "s3", Name: "2b2t", Description: "The oldest anarchy server", Players: PlayerCounts{Online: 780, Max: 1000}, Type: ServerAnarchy, Tags: []string{"anarchy", "oldest"}, Rating: 3.9, Uptime: 95.2, Country: "US"},
		{ID: "s4", Name: "Wynncraft", Description: "MMORPG adventure server", Players: PlayerCounts{Online: 1900, Max: 5000}, Type: ServerModded, Tags: []string{"mmorpg", "quests"}, Rating: 4.7, Uptime: 99.1, Country: "GB"},
	}
}

func TestQueryMods_EmptyFilterReturnsAll(t *testing.T) {
	mods := fixtureMods()
	items, total, err := QueryMods(mods, Params{Sort: SortDownloads})
	require.NoError(t, err)
	assert.Equal(t, len(mods), total)
	assert.Len(t, items, len(mods))

	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t, items[i-1].Downloads, items[i].Downloads,
			"downloads must be non-increasing")
	}
}

func TestQueryMods_TextFilter(t *testing.T) {
	items, total, err := QueryMods(fixtureMods(), Params{Text: "CREATE", Sort: SortDownloads})
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	ids := make([]string, 0, len(items))
	for _, m := range items {
		ids = append(ids, m.ID)
	}
	// Title matches ("Create", "Create: Steam 'n' Rails"), a description
	// match ("Structurize") and a tag match ("Steam Powered"), in
	// descending download order. "Creative Flight" must not match:
	// "create" is not a substring of "creative".
	assert.Equal(t, []string{"1", "6", "7", "8"}, ids)
}

func TestQueryMods_TextAndCategoryCompose(t *testing.T) {
	items, total, err := QueryMods(fixtureMods(), Params{
		Text:     "create",
		Category: CategoryTechnology,
		Sort:     SortDownloads,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Create", items[0].Title)
	assert.Equal(t, "Steam Powered", items[1].Title)
}

func TestQueryMods_CategoryFilter(t *testing.T) {
	items, total, err := QueryMods(fixtureMods(), Params{Category: CategoryAdventure, Sort: SortName})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Biomes O' Plenty", items[0].Title)
	assert.Equal(t, "Waystones", items[1].Title)
}

func TestQueryMods_SortUpdated(t *testing.T) {
	items, _, err := QueryMods(fixtureMods(), Params{Sort: SortUpdated})
	require.NoError(t, err)
	assert.Equal(t, "JEI", items[0].Title)           // 2024-01-20
	assert.Equal(t, "Waystones", items[1].Title)     // 2024-01-19
	assert.Equal(t, "Minecarts Plus", items[len(items)-1].Title)
}

func TestQueryMods_SortUpdatedUnparseableSortsLast(t *testing.T) {
	mods := []Mod{
		{ID: "a", Title: "A", Updated: "not-a-date"},
		{ID: "b", Title: "B", Updated: "2024-01-01"},
		{ID: "c", Title: "C", Updated: "also-bad"},
	}
	items, _, err := QueryMods(mods, Params{Sort: SortUpdated})
	require.NoError(t, err)
	assert.Equal(t, "b", items[0].ID)
	// Unparseable dates keep their relative order.
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, "c", items[2].ID)
}

func TestQueryMods_NameSortIdempotent(t *testing.T) {
	once, _, err := QueryMods(fixtureMods(), Params{Sort: SortName})
	require.NoError(t, err)
	twice, _, err := QueryMods(once, Params{Sort: SortName})
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestQueryMods_NameSortCollation(t *testing.T) {
	mods := []Mod{
		{ID: "1", Title: "Zoom"},
		{ID: "2", Title: "Éclair Express"},
		{ID: "3", Title: "quark"},
		{ID: "4", Title: "Ender IO"},
	}
	items, _, err := QueryMods(mods, Params{Sort: SortName})
	require.NoError(t, err)

	got := make([]string, 0, len(items))
	for _, m := range items {
		got = append(got, m.Title)
	}
	// "É" sorts with "E", not after "Z", and case does not matter.
	assert.Equal(t, []string{"Éclair Express", "Ender IO", "quark", "Zoom"}, got)
}

func TestQueryServers_NameSortCollation(t *testing.T) {
	servers := []Server{
		{ID: "1", Name: "Ünity SMP", Type: ServerSurvival},
		{ID: "2", Name: "Valhalla", Type: ServerSurvival},
		{ID: "3", Name: "underground", Type: ServerAnarchy},
	}
	items, _, err := QueryServers(servers, Params{Sort: SortName})
	require.NoError(t, err)
	assert.Equal(t, "underground", items[0].Name)
	assert.Equal(t, "Ünity SMP", items[1].Name)
	assert.Equal(t, "Valhalla", items[2].Name)
}

func TestQueryMods_NumericSortStable(t *testing.T) {
	// Farmer's Delight (12) and Chisel (13) share a download count; their
	// insertion order must survive the sort.
	items, _, err := QueryMods(fixtureMods(), Params{Sort: SortDownloads})
	require.NoError(t, err)

	var first, second int
	for i, m := range items {
		if m.ID == "12" {
			first = i
		}
		if m.ID == "13" {
			second = i
		}
	}
	assert.Equal(t, first+1, second, "equal-key entries must keep insertion order")
}

func TestQueryMods_InvalidSortKey(t *testing.T) {
	_, _, err := QueryMods(fixtureMods(), Params{Sort: "popularity"})
	require.ErrorIs(t, err, ErrInvalidSortKey)

	// The key set is per-variant: "players" belongs to servers only.
	_, _, err = QueryMods(nil, Params{Sort: SortPlayers})
	require.ErrorIs(t, err, ErrInvalidSortKey)
}

func TestQueryMods_Pagination(t *testing.T) {
	mods := fixtureMods()

	page1, total, err := QueryMods(mods, Params{Sort: SortDownloads, Page: 1, PageSize: 12})
	require.NoError(t, err)
	assert.Equal(t, 14, total)
	assert.Len(t, page1, 12)

	page2, total, err := QueryMods(mods, Params{Sort: SortDownloads, Page: 2, PageSize: 12})
	require.NoError(t, err)
	assert.Equal(t, 14, total)
	assert.Len(t, page2, 2)

	page3, _, err := QueryMods(mods, Params{Sort: SortDownloads, Page: 3, PageSize: 12})
	require.NoError(t, err)
	assert.Empty(t, page3, "out-of-range page yields an empty slice")
}

func TestQueryMods_DoesNotMutateInput(t *testing.T) {
	mods := fixtureMods()
	want := fixtureMods()
	_, _, err := QueryMods(mods, Params{Sort: SortName})
	require.NoError(t, err)
	assert.Equal(t, want, mods)
}

func TestQueryServers_Sorts(t *testing.T) {
	servers := fixtureServers()

	byPlayers, total, err := QueryServers(servers, Params{Sort: SortPlayers})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, "Hypixel", byPlayers[0].Name)
	assert.Equal(t, "2b2t", byPlayers[3].Name)

	byUptime, _, err := QueryServers(servers, Params{Sort: SortUptime})
	require.NoError(t, err)
	assert.Equal(t, "Hypixel", byUptime[0].Name)
	assert.Equal(t, "Wynncraft", byUptime[1].Name)

	byName, _, err := QueryServers(servers, Params{Sort: SortName})
	require.NoError(t, err)
	assert.Equal(t, "2b2t", byName[0].Name)

	_, _, err = QueryServers(servers, Params{Sort: SortDownloads})
	require.ErrorIs(t, err, ErrInvalidSortKey)
}

func TestQueryServers_TextFilter(t *testing.T) {
	items, total, err := QueryServers(fixtureServers(), Params{Text: "anarchy", Sort: SortRating})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "2b2t", items[0].Name)
}

// TestQueryMods_PaginationPartitions checks, over randomized collections and
// page sizes, that concatenating all pages reconstructs the filtered+sorted
// sequence with no gap or overlap.
func TestQueryMods_PaginationPartitions(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 60).Draw(t, "n")
		mods := make([]Mod, n)
		for i := range mods {
			mods[i] = Mod{
				ID:        fmt.Sprintf("m%d", i),
				Title:     rapid.StringMatching(`[a-z]{1,8}`).Draw(t, fmt.Sprintf("title%d", i)),
				Downloads: int64(rapid.IntRange(0, 20).Draw(t, fmt.Sprintf("dl%d", i))),
				Rating:    float64(rapid.IntRange(0, 50).Draw(t, fmt.Sprintf("r%d", i))) / 10,
			}
		}
		pageSize := rapid.IntRange(1, 10).Draw(t, "pageSize")

		all, total, err := QueryMods(mods, Params{Sort: SortDownloads})
		require.NoError(t, err)
		require.Equal(t, n, total)

		var collected []Mod
		for page := 1; ; page++ {
			items, pagedTotal, err := QueryMods(mods, Params{Sort: SortDownloads, Page: page, PageSize: pageSize})
			require.NoError(t, err)
			require.Equal(t, total, pagedTotal)
			if len(items) == 0 {
				break
			}
			collected = append(collected, items...)
		}

		require.Len(t, collected, len(all))
		for i := range all {
			require.Equal(t, all[i].ID, collected[i].ID)
		}
	})
}

// TestQueryMods_FilterSoundness checks that every returned entry really
// contains the query in a searched field and that no title match is missed.
func TestQueryMods_FilterSoundness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(t, "n")
		mods := make([]Mod, n)
		for i := range mods {
			mods[i] = Mod{
				ID:          fmt.Sprintf("m%d", i),
				Title:       rapid.StringMatching(`[a-zA-Z ]{0,12}`).Draw(t, fmt.Sprintf("title%d", i)),
				Description: rapid.StringMatching(`[a-zA-Z ]{0,12}`).Draw(t, fmt.Sprintf("desc%d", i)),
				Author:      rapid.StringMatching(`[a-z]{0,8}`).Draw(t, fmt.Sprintf("author%d", i)),
				Tags:        []string{rapid.StringMatching(`[a-z]{0,6}`).Draw(t, fmt.Sprintf("tag%d", i))},
			}
		}
		text := rapid.StringMatching(`[a-z]{1,4}`).Draw(t, "text")

		items, _, err := QueryMods(mods, Params{Text: text, Sort: SortName})
		require.NoError(t, err)

		returned := map[string]bool{}
		for _, m := range items {
			returned[m.ID] = true
			require.True(t, modMatches(m, text), "returned entry %s lacks %q", m.ID, text)
		}
		for _, m := range mods {
			if modMatches(m, text) {
				require.True(t, returned[m.ID], "entry %s contains %q but was filtered out", m.ID, text)
			}
		}
	})
}
