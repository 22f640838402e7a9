package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrInvalidSortKey is returned when a query names a sort key that is not
// defined for the collection being queried.
var ErrInvalidSortKey = errors.New("invalid sort key")

// SortKey selects the ordering applied to a filtered collection.
type SortKey string

const (
	SortDownloads SortKey = "downloads"
	SortUpdated   SortKey = "updated"
	SortRating    SortKey = "rating"
	SortName      SortKey = "name"
	SortPlayers   SortKey = "players"
	SortUptime    SortKey = "uptime"
)

// Params is the query tuple that determines a visible result slice:
// free text, optional category (mods only), sort key, and page request.
//
// Page is 1-based. The engine does not clamp Page: a page past the end of
// the filtered collection yields an empty slice, and callers that want
// friendlier behavior clamp before querying. PageSize <= 0 disables
// pagination and returns the whole filtered, sorted collection.
type Params struct {
	Text     string
	Category ModCategory // empty means all categories
	Sort     SortKey
	Page     int
	PageSize int
}

// QueryMods projects a mod collection through the filter/sort/paginate
// pipeline. It returns the requested page and the total post-filter count,
// leaving the input slice untouched. An unknown sort key fails with
// ErrInvalidSortKey even when the collection is empty.
func QueryMods(mods []Mod, p Params) ([]Mod, int, error) {
	less, err := modLess(p.Sort)
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]Mod, 0, len(mods))
	text := strings.ToLower(p.Text)
	for _, m := range mods {
		if text != "" && !modMatches(m, text) {
			continue
		}
		if p.Category != "" && m.Category != p.Category {
			continue
		}
		filtered = append(filtered, m)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return less(filtered[i], filtered[j])
	})

	page := paginate(filtered, p.Page, p.PageSize)
	return page, len(filtered), nil
}

// QueryServers is the server-collection counterpart of QueryMods. Servers
// carry no category filter; Params.Category is ignored.
func QueryServers(servers []Server, p Params) ([]Server, int, error) {
	less, err := serverLess(p.Sort)
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]Server, 0, len(servers))
	text := strings.ToLower(p.Text)
	for _, s := range servers {
		if text != "" && !serverMatches(s, text) {
			continue
		}
		filtered = append(filtered, s)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return less(filtered[i], filtered[j])
	})

	page := paginate(filtered, p.Page, p.PageSize)
	return page, len(filtered), nil
}

// MatchMod reports whether a mod satisfies a free-text and category filter,
// using the same matching rules as QueryMods. An empty text or category
// matches everything.
func MatchMod(m Mod, text string, category ModCategory) bool {
	t := strings.ToLower(text)
	if t != "" && !modMatches(m, t) {
		return false
	}
	return category == "" || m.Category == category
}

// modMatches reports whether the lowercased query is a substring of the
// mod's title, description, author, or any tag. The caller lowercases the
// query once; entry fields are lowercased here.
func modMatches(m Mod, text string) bool {
	if strings.Contains(strings.ToLower(m.Title), text) ||
		strings.Contains(strings.ToLower(m.Description), text) ||
		strings.Contains(strings.ToLower(m.Author), text) {
		return true
	}
	return anyTagContains(m.Tags, text)
}

// serverMatches is the server analogue: name, description, or any tag.
func serverMatches(s Server, text string) bool {
	if strings.Contains(strings.ToLower(s.Name), text) ||
		strings.Contains(strings.ToLower(s.Description), text) {
		return true
	}
	return anyTagContains(s.Tags, text)
}

func anyTagContains(tags []string, text string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), text) {
			return true
		}
	}
	return false
}

// modLess returns the comparator for a mod sort key. Numeric and timestamp
// keys order descending (most popular / most recent first); name orders
// ascending. Comparators are strict weak orderings returning false for equal
// keys, so sort.SliceStable preserves the pre-sort relative order of ties.
func modLess(key SortKey) (func(a, b Mod) bool, error) {
	switch key {
	case SortDownloads:
		return func(a, b Mod) bool { return a.Downloads > b.Downloads }, nil
	case SortUpdated:
		return func(a, b Mod) bool { return parseUpdated(a.Updated).After(parseUpdated(b.Updated)) }, nil
	case SortRating:
		return func(a, b Mod) bool { return a.Rating > b.Rating }, nil
	case SortName:
		coll := nameCollator()
		return func(a, b Mod) bool {
			return coll.CompareString(a.Title, b.Title) < 0
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q for mods", ErrInvalidSortKey, key)
	}
}

// serverLess returns the comparator for a server sort key.
func serverLess(key SortKey) (func(a, b Server) bool, error) {
	switch key {
	case SortPlayers:
		return func(a, b Server) bool { return a.Players.Online > b.Players.Online }, nil
	case SortRating:
		return func(a, b Server) bool { return a.Rating > b.Rating }, nil
	case SortUptime:
		return func(a, b Server) bool { return a.Uptime > b.Uptime }, nil
	case SortName:
		coll := nameCollator()
		return func(a, b Server) bool {
			return coll.CompareString(a.Name, b.Name) < 0
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q for servers", ErrInvalidSortKey, key)
	}
}

// nameCollator orders titles by Unicode collation rather than byte value,
// so accented letters sort with their base letter and case is ignored.
// Collators buffer state across comparisons, so each sort gets its own.
func nameCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}

// parseUpdated parses an entry timestamp as a calendar date, accepting full
// RFC 3339 as a fallback. Unparseable values yield the zero time, which
// sorts last under the descending "updated" ordering.
func parseUpdated(s string) time.Time {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

// paginate slices out the 1-based page of the given size. Out-of-range pages
// return an empty slice; size <= 0 returns the whole input.
func paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	start := (page - 1) * size
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
