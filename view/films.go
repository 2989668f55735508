package view

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/s0up4200/filmdesk/sakila"
)

// FilmsSnapshot is the render state of the film list
type FilmsSnapshot = ListSnapshot[sakila.FilmFilters, sakila.Film]

// Films controls the paginated, searchable film list
type Films struct {
	*list[sakila.FilmFilters, sakila.Film]
}

// NewFilms returns an idle film list. Call Load to fetch the first page.
func NewFilms(api sakila.FilmsAPI, settings Settings, logger zerolog.Logger) *Films {
	settings = settings.withDefaults()
	fetch := func(ctx context.Context, page, limit int) ([]sakila.Film, sakila.Pagination, error) {
		resp, err := api.Films(ctx, page, limit)
		if err != nil {
			return nil, sakila.Pagination{}, err
		}
		return resp.Films, resp.Pagination, nil
	}
	return &Films{
		list: newList("films", settings, logger.With().Str("view", "films").Logger(), fetch, api.SearchFilms),
	}
}

// Snapshot returns the current render state
func (f *Films) Snapshot() FilmsSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}
