package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/HypoDev/MineGlass/pkg/catalog"
)

// errBadRequest marks request parsing failures so writeError renders 400.
var errBadRequest = errors.New("bad request")

func badRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errBadRequest}, args...)...)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parseListParams reads q, category, sort, page, and pageSize from the
// query string. Page and pageSize are clamped here so the query engine only
// ever sees sane values; the engine itself does no clamping.
func parseListParams(r *http.Request, defaultSort catalog.SortKey) (catalog.Params, error) {
	q := r.URL.Query()

	p := catalog.Params{
		Text:     q.Get("q"),
		Sort:     defaultSort,
		Page:     1,
		PageSize: defaultPageSize,
	}

	if sortKey := q.Get("sort"); sortKey != "" {
		p.Sort = catalog.SortKey(sortKey)
	}

	if cat := q.Get("category"); cat != "" {
		c := catalog.ModCategory(cat)
		if !c.Valid() {
			return catalog.Params{}, fmt.Errorf("%w: unknown category %q", errBadRequest, cat)
		}
		p.Category = c
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return catalog.Params{}, fmt.Errorf("%w: invalid page %q", errBadRequest, raw)
		}
		if page < 1 {
			page = 1
		}
		p.Page = page
	}

	if raw := q.Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return catalog.Params{}, fmt.Errorf("%w: invalid pageSize %q", errBadRequest, raw)
		}
		if size < 1 {
			size = 1
		}
		if size > maxPageSize {
			size = maxPageSize
		}
		p.PageSize = size
	}

	return p, nil
}
