package view

import (
	"context"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/filmdesk/sakila"
)

// ActorDetailSnapshot is the render state of the actor page
type ActorDetailSnapshot struct {
	Status   Status
	Actor    *sakila.Actor
	TopFilms []sakila.RankedFilm
}

// ActorDetail controls the actor page: filmography and the actor's most
// rented films
type ActorDetail struct {
	lifecycle

	api    sakila.ActorsAPI
	id     int
	logger zerolog.Logger
	loads  Slot

	status   Status
	actor    *sakila.Actor
	topFilms []sakila.RankedFilm
}

// NewActorDetail returns an idle actor page for id
func NewActorDetail(api sakila.ActorsAPI, id int, logger zerolog.Logger) *ActorDetail {
	d := &ActorDetail{
		api:    api,
		id:     id,
		logger: logger.With().Str("view", "actor").Int("actor_id", id).Logger(),
		status: Idle{},
	}
	d.init()
	return d
}

// Load fetches the actor and their ranking together
func (d *ActorDetail) Load(ctx context.Context) error {
	d.mu.Lock()
	rctx, done, err := d.enter(ctx, false)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	rctx, ticket := d.loads.Begin(rctx)
	d.status = Loading{}
	d.mu.Unlock()

	actor, top, err := Join(rctx,
		func(ctx context.Context) (*sakila.Actor, error) { return d.api.Actor(ctx, d.id) },
		func(ctx context.Context) ([]sakila.RankedFilm, error) { return d.api.ActorTopRentedFilms(ctx, d.id) },
	)

	d.mu.Lock()
	defer d.mu.Unlock()
	done()

	if d.closed {
		return ErrClosed
	}
	if !d.loads.Finish(ticket) {
		return ErrSuperseded
	}

	switch {
	case err == nil:
		d.actor, d.topFilms = actor, top
		d.status = Ready{}
		return nil
	case sakila.IsNotFound(err):
		nf := &NotFoundError{Resource: "actor", ID: d.id, Err: err}
		d.actor, d.topFilms = nil, nil
		d.status = Missing{Err: nf}
		return nf
	default:
		d.logger.Error().Err(err).Msg("Failed to load actor")
		ferr := &FetchError{Resource: "actor", Err: err}
		d.actor, d.topFilms = nil, nil
		d.status = Failed{Err: ferr}
		return ferr
	}
}

// Snapshot returns the current render state
func (d *ActorDetail) Snapshot() ActorDetailSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ActorDetailSnapshot{
		Status:   d.status,
		Actor:    d.actor,
		TopFilms: slices.Clone(d.topFilms),
	}
}

// ActorSearchSnapshot is the render state of the actor search box
type ActorSearchSnapshot struct {
	Status  Status
	Query   string
	Results []sakila.Actor
}

// ActorSearch controls the actor search box
type ActorSearch struct {
	lifecycle

	api    sakila.ActorsAPI
	logger zerolog.Logger

	searches Slot
	status   Status
	query    string
	results  []sakila.Actor
}

// NewActorSearch returns an empty search box
func NewActorSearch(api sakila.ActorsAPI, logger zerolog.Logger) *ActorSearch {
	s := &ActorSearch{
		api:    api,
		logger: logger.With().Str("view", "actor-search").Logger(),
		status: Idle{},
	}
	s.init()
	return s
}

// Submit searches actors by name. A blank query clears the results without
// a request.
func (s *ActorSearch) Submit(ctx context.Context, query string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.query = query
	if strings.TrimSpace(query) == "" {
		s.searches.Cancel()
		s.results = nil
		s.status = Idle{}
		s.mu.Unlock()
		return nil
	}
	rctx, done, err := s.enter(ctx, false)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	rctx, ticket := s.searches.Begin(rctx)
	s.status = Loading{}
	s.mu.Unlock()

	actors, err := s.api.SearchActors(rctx, strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()
	done()

	if s.closed {
		return ErrClosed
	}
	if !s.searches.Finish(ticket) {
		return ErrSuperseded
	}
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("Failed to search actors")
		ferr := &FetchError{Resource: "actors", Err: err}
		s.results = nil
		s.status = Failed{Err: ferr}
		return ferr
	}
	s.results = actors
	s.status = Ready{}
	return nil
}

// Snapshot returns the current render state
func (s *ActorSearch) Snapshot() ActorSearchSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ActorSearchSnapshot{
		Status:  s.status,
		Query:   s.query,
		Results: slices.Clone(s.results),
	}
}
