// Package store persists the managed catalog: entries created and edited
// through the admin API, as opposed to seed data and approved submissions.
package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HypoDev/MineGlass/pkg/catalog"
)

// JSONStringSlice is a custom GORM type for []string stored as JSON.
type JSONStringSlice []string

// Scan implements the sql.Scanner interface for JSONStringSlice.
func (s *JSONStringSlice) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case string:
		bytes = []byte(v)
	case []byte:
		bytes = v
	default:
		return fmt.Errorf("unsupported type for JSONStringSlice: %T", value)
	}
	return json.Unmarshal(bytes, s)
}

// Value implements the driver.Valuer interface for JSONStringSlice.
func (s JSONStringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// ModRecord is the persisted form of a managed mod entry. ImageKey is the
// object key behind ImageURL when the image lives in managed storage; it is
// empty for external image URLs.
type ModRecord struct {
	ID              string          `gorm:"primaryKey;column:id;type:varchar(36)"`
	Title           string          `gorm:"column:title;index;not null"`
	Description     string          `gorm:"column:description"`
	LongDescription string          `gorm:"column:long_description"`
	Author          string          `gorm:"column:author;index"`
	Downloads       int64           `gorm:"column:downloads"`
	Updated         string          `gorm:"column:updated"`
	Version         string          `gorm:"column:version"`
	Category        string          `gorm:"column:category;index;not null"`
	Tags            JSONStringSlice `gorm:"column:tags;type:text"`
	ImageURL        string          `gorm:"column:image_url"`
	ImageKey        string          `gorm:"column:image_key"`
	Featured        bool            `gorm:"column:featured"`
	Rating          float64         `gorm:"column:rating"`
	GameVersions    JSONStringSlice `gorm:"column:game_versions;type:text"`
	Screenshots     JSONStringSlice `gorm:"column:screenshots;type:text"`
	Dependencies    JSONStringSlice `gorm:"column:dependencies;type:text"`
	Changelog       string          `gorm:"column:changelog"`
	License         string          `gorm:"column:license"`
	SourceURL       string          `gorm:"column:source_url"`
	IssuesURL       string          `gorm:"column:issues_url"`
	WikiURL         string          `gorm:"column:wiki_url"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the GORM table name.
func (ModRecord) TableName() string { return "mods" }

// ServerRecord is the persisted form of a managed server entry.
type ServerRecord struct {
	ID            string          `gorm:"primaryKey;column:id;type:varchar(36)"`
	Name          string          `gorm:"column:name;index;not null"`
	Description   string          `gorm:"column:description"`
	IP            string          `gorm:"column:ip"`
	Port          int             `gorm:"column:port"`
	Version       string          `gorm:"column:version"`
	PlayersOnline int             `gorm:"column:players_online"`
	PlayersMax    int             `gorm:"column:players_max"`
	Type          string          `gorm:"column:type;index"`
	Tags          JSONStringSlice `gorm:"column:tags;type:text"`
	ImageURL      string          `gorm:"column:image_url"`
	ImageKey      string          `gorm:"column:image_key"`
	Featured      bool            `gorm:"column:featured"`
	Rating        float64         `gorm:"column:rating"`
	Uptime        float64         `gorm:"column:uptime"`
	Country       string          `gorm:"column:country"`
	Website       string          `gorm:"column:website"`
	Discord       string          `gorm:"column:discord"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the GORM table name.
func (ServerRecord) TableName() string { return "servers" }

func modRecordFrom(m catalog.Mod, imageKey string) *ModRecord {
	return &ModRecord{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		LongDescription: m.LongDescription,
		Author:          m.Author,
		Downloads:       m.Downloads,
		Updated:         m.Updated,
		Version:         m.Version,
		Category:        string(m.Category),
		Tags:            JSONStringSlice(m.Tags),
		ImageURL:        m.ImageURL,
		ImageKey:        imageKey,
		Featured:        m.Featured,
		Rating:          m.Rating,
		GameVersions:    JSONStringSlice(m.GameVersions),
		Screenshots:     JSONStringSlice(m.Screenshots),
		Dependencies:    JSONStringSlice(m.Dependencies),
		Changelog:       m.Changelog,
		License:         m.License,
		SourceURL:       m.SourceURL,
		IssuesURL:       m.IssuesURL,
		WikiURL:         m.WikiURL,
	}
}

func (r *ModRecord) toMod() catalog.Mod {
	return catalog.Mod{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		LongDescription: r.LongDescription,
		Author:          r.Author,
		Downloads:       r.Downloads,
		Updated:         r.Updated,
		Version:         r.Version,
		Category:        catalog.ModCategory(r.Category),
		Tags:            []string(r.Tags),
		ImageURL:        r.ImageURL,
		Featured:        r.Featured,
		Rating:          r.Rating,
		GameVersions:    []string(r.GameVersions),
		Screenshots:     []string(r.Screenshots),
		Dependencies:    []string(r.Dependencies),
		Changelog:       r.Changelog,
		License:         r.License,
		SourceURL:       r.SourceURL,
		IssuesURL:       r.IssuesURL,
		WikiURL:         r.WikiURL,
	}
}

func serverRecordFrom(s catalog.Server, imageKey string) *ServerRecord {
	return &ServerRecord{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		IP:            s.IP,
		Port:          s.Port,
		Version:       s.Version,
		PlayersOnline: s.Players.Online,
		PlayersMax:    s.Players.Max,
		Type:          string(s.Type),
		Tags:          JSONStringSlice(s.Tags),
		ImageURL:      s.ImageURL,
		ImageKey:      imageKey,
		Featured:      s.Featured,
		Rating:        s.Rating,
		Uptime:        s.Uptime,
		Country:       s.Country,
		Website:       s.Website,
		Discord:       s.Discord,
	}
}

func (r *ServerRecord) toServer() catalog.Server {
	return catalog.Server{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IP:          r.IP,
		Port:        r.Port,
		Version:     r.Version,
		Players:     catalog.PlayerCounts{Online: r.PlayersOnline, Max: r.PlayersMax},
		Type:        catalog.ServerType(r.Type),
		Tags:        []string(r.Tags),
		ImageURL:    r.ImageURL,
		Featured:    r.Featured,
		Rating:      r.Rating,
		Uptime:      r.Uptime,
		Country:     r.Country,
		Website:     r.Website,
		Discord:     r.Discord,
	}
}
