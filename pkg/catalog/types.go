// Package catalog defines the MineGlass content model (mods, servers,
// categories) and the query engine that projects a collection into the
// ordered, paginated slice a browsing user should see.
package catalog

// ModCategory classifies a mod. The set is closed; values outside it are
// rejected at the API boundary.
type ModCategory string

const (
	CategoryTechnology     ModCategory = "technology"
	CategoryAdventure      ModCategory = "adventure"
	CategoryMagic          ModCategory = "magic"
	CategoryDecoration     ModCategory = "decoration"
	CategoryUtility        ModCategory = "utility"
	CategoryStorage        ModCategory = "storage"
	CategoryTransportation ModCategory = "transportation"
	CategoryFood           ModCategory = "food"
)

// ModCategories lists every valid category, in display order.
var ModCategories = []ModCategory{
	CategoryTechnology,
	CategoryAdventure,
	CategoryMagic,
	CategoryDecoration,
	CategoryUtility,
	CategoryStorage,
	CategoryTransportation,
	CategoryFood,
}

// Valid reports whether c is a known category.
func (c ModCategory) Valid() bool {
	for _, known := range ModCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ServerType classifies a game server. Like ModCategory the set is closed
// and enforced at the API boundary.
type ServerType string

const (
	ServerSurvival  ServerType = "survival"
	ServerCreative  ServerType = "creative"
	ServerSkyblock  ServerType = "skyblock"
	ServerMinigames ServerType = "minigames"
	ServerPvP       ServerType = "pvp"
	ServerVanilla   ServerType = "vanilla"
	ServerModded    ServerType = "modded"
	ServerAnarchy   ServerType = "anarchy"
)

// ServerTypes lists every valid server type, in display order.
var ServerTypes = []ServerType{
	ServerSurvival,
	ServerCreative,
	ServerSkyblock,
	ServerMinigames,
	ServerPvP,
	ServerVanilla,
	ServerModded,
	ServerAnarchy,
}

// Valid reports whether t is a known server type.
func (t ServerType) Valid() bool {
	for _, known := range ServerTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Mod is a catalog entry describing a game modification.
type Mod struct {
	ID              string      `json:"id" yaml:"id"`
	Title           string      `json:"title" yaml:"title"`
	Description     string      `json:"description" yaml:"description"`
	LongDescription string      `json:"longDescription,omitempty" yaml:"longDescription,omitempty"`
	Author          string      `json:"author" yaml:"author"`
	Downloads       int64       `json:"downloads" yaml:"downloads"`
	Updated         string      `json:"updated" yaml:"updated"` // ISO calendar date
	Version         string      `json:"version" yaml:"version"`
	Category        ModCategory `json:"category" yaml:"category"`
	Tags            []string    `json:"tags" yaml:"tags"`
	ImageURL        string      `json:"imageUrl" yaml:"imageUrl"`
	Featured        bool        `json:"featured,omitempty" yaml:"featured,omitempty"`
	Rating          float64     `json:"rating" yaml:"rating"`
	GameVersions    []string    `json:"gameVersions" yaml:"gameVersions"`
	Screenshots     []string    `json:"screenshots,omitempty" yaml:"screenshots,omitempty"`
	Dependencies    []string    `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Changelog       string      `json:"changelog,omitempty" yaml:"changelog,omitempty"`
	License         string      `json:"license,omitempty" yaml:"license,omitempty"`
	SourceURL       string      `json:"sourceUrl,omitempty" yaml:"sourceUrl,omitempty"`
	IssuesURL       string      `json:"issuesUrl,omitempty" yaml:"issuesUrl,omitempty"`
	WikiURL         string      `json:"wikiUrl,omitempty" yaml:"wikiUrl,omitempty"`
}

// PlayerCounts holds a server's current and maximum player numbers.
type PlayerCounts struct {
	Online int `json:"online" yaml:"online"`
	Max    int `json:"max" yaml:"max"`
}

// Server is a catalog entry describing a game server.
type Server struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	IP          string       `json:"ip" yaml:"ip"`
	Port        int          `json:"port" yaml:"port"`
	Version     string       `json:"version" yaml:"version"`
	Players     PlayerCounts `json:"players" yaml:"players"`
	Type        ServerType   `json:"type" yaml:"type"`
	Tags        []string     `json:"tags" yaml:"tags"`
	ImageURL    string       `json:"imageUrl" yaml:"imageUrl"`
	Featured    bool         `json:"featured,omitempty" yaml:"featured,omitempty"`
	Rating      float64      `json:"rating" yaml:"rating"`
	Uptime      float64      `json:"uptime" yaml:"uptime"` // percentage, 0-100
	Country     string       `json:"country" yaml:"country"`
	Website     string       `json:"website,omitempty" yaml:"website,omitempty"`
	Discord     string       `json:"discord,omitempty" yaml:"discord,omitempty"`
}

// Category is static reference data for the browse sidebar. Count is
// denormalized display data and is not kept consistent with the actual
// catalog size.
type Category struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Icon        CategoryIcon `json:"icon" yaml:"icon"`
	Count       int          `json:"count" yaml:"count"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
}
