package catalog

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeed = `
categories:
  - id: technology
    name: Technology
    icon: Cpu
    count: 10
mods:
  - id: "1"
    title: Create
    description: Building tools
    author: simibubi
    downloads: 12500000
    updated: "2024-01-15"
    version: 0.5.1
    category: technology
    tags: [machinery]
    imageUrl: /images/create.png
    rating: 4.9
    gameVersions: ["1.20.1"]
servers:
  - id: "1"
    name: Hypixel
    description: The largest network
    ip: mc.hypixel.net
    port: 25565
    players:
      online: 45230
      max: 100000
    type: minigames
    rating: 4.9
    uptime: 99.9
    country: US
`

func writeSeedFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSeed(t *testing.T) {
	path := writeSeedFile(t, t.TempDir(), testSeed)

	seed, err := LoadSeed(path)
	require.NoError(t, err)

	require.Len(t, seed.Categories, 1)
	assert.Equal(t, IconCPU, seed.Categories[0].Icon)

	require.Len(t, seed.Mods, 1)
	assert.Equal(t, "Create", seed.Mods[0].Title)
	assert.Equal(t, CategoryTechnology, seed.Mods[0].Category)
	assert.Equal(t, int64(12500000), seed.Mods[0].Downloads)

	require.Len(t, seed.Servers, 1)
	assert.Equal(t, 45230, seed.Servers[0].Players.Online)
	assert.Equal(t, ServerMinigames, seed.Servers[0].Type)
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadSeed_UnknownIconFallsBack(t *testing.T) {
	path := writeSeedFile(t, t.TempDir(), `
categories:
  - id: misc
    name: Misc
    icon: Wrenches
    count: 3
`)
	seed, err := LoadSeed(path)
	require.NoError(t, err)
	assert.Equal(t, IconPackage, seed.Categories[0].Icon)
}

func TestLoadSeed_RejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown mod category",
			yaml: `
mods:
  - id: "1"
    title: X
    category: redstone
`,
		},
		{
			name: "duplicate mod id",
			yaml: `
mods:
  - id: "1"
    title: X
    category: utility
  - id: "1"
    title: Y
    category: utility
`,
		},
		{
			name: "mod without id",
			yaml: `
mods:
  - title: X
    category: utility
`,
		},
		{
			name: "unknown server type",
			yaml: `
servers:
  - id: "1"
    name: A
    type: hardcore-plus
`,
		},
		{
			name: "duplicate server id",
			yaml: `
servers:
  - id: "1"
    name: A
    type: survival
  - id: "1"
    name: B
    type: survival
`,
		},
		{
			name: "not yaml",
			yaml: "{{{",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSeedFile(t, t.TempDir(), tc.yaml)
			_, err := LoadSeed(path)
			require.Error(t, err)
		})
	}
}

func TestWatchSeed_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeSeedFile(t, dir, testSeed)

	reloaded := make(chan *Seed, 1)
	sw, err := WatchSeed(path, slog.New(slog.DiscardHandler), func(s *Seed) {
		reloaded <- s
	})
	require.NoError(t, err)
	defer sw.Close()

	updated := testSeed + `
  - id: "2"
    name: Mineplex
    description: Minigames network
    ip: us.mineplex.com
    port: 25565
    players:
      online: 2540
      max: 10000
    type: minigames
    rating: 4.6
    uptime: 98.5
    country: US
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case seed := <-reloaded:
		assert.Len(t, seed.Servers, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("seed reload never fired")
	}
}

func TestWatchSeed_KeepsPreviousOnParseError(t *testing.T) {
	dir := t.TempDir()
	path := writeSeedFile(t, dir, testSeed)

	reloaded := make(chan *Seed, 1)
	sw, err := WatchSeed(path, slog.New(slog.DiscardHandler), func(s *Seed) {
		reloaded <- s
	})
	require.NoError(t, err)
	defer sw.Close()

	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o644))

	select {
	case <-reloaded:
		t.Fatal("broken seed must not be delivered")
	case <-time.After(seedDebounce * 4):
	}
}
