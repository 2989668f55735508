package view

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/s0up4200/filmdesk/sakila"
)

// landingAPI is the subset of the API the landing page needs
type landingAPI interface {
	TopRentedFilms(ctx context.Context) ([]sakila.Film, error)
	TopActors(ctx context.Context) ([]sakila.Actor, error)
}

// LandingSnapshot is the render state of the landing page
type LandingSnapshot struct {
	Status Status
	Films  []sakila.Film
	Actors []sakila.Actor
}

// Landing controls the landing page: top rented films and top actors,
// fetched together and shown only when both succeed.
type Landing struct {
	lifecycle

	api    landingAPI
	logger zerolog.Logger
	loads  Slot

	status Status
	films  []sakila.Film
	actors []sakila.Actor
}

// NewLanding returns an idle landing page
func NewLanding(api landingAPI, logger zerolog.Logger) *Landing {
	l := &Landing{
		api:    api,
		logger: logger.With().Str("view", "landing").Logger(),
		status: Idle{},
	}
	l.init()
	return l
}

// Load fetches both rankings concurrently
func (l *Landing) Load(ctx context.Context) error {
	l.mu.Lock()
	rctx, done, err := l.enter(ctx, false)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	rctx, ticket := l.loads.Begin(rctx)
	l.status = Loading{}
	l.mu.Unlock()

	films, actors, err := Join(rctx, l.api.TopRentedFilms, l.api.TopActors)

	l.mu.Lock()
	defer l.mu.Unlock()
	done()

	if l.closed {
		return ErrClosed
	}
	if !l.loads.Finish(ticket) {
		return ErrSuperseded
	}
	if err != nil {
		l.logger.Error().Err(err).Msg("Failed to load landing page")
		ferr := &FetchError{Resource: "rankings", Err: err}
		l.status = Failed{Err: ferr}
		l.films, l.actors = nil, nil
		return ferr
	}

	l.films, l.actors = films, actors
	l.status = Ready{}
	return nil
}

// Snapshot returns the current render state
func (l *Landing) Snapshot() LandingSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LandingSnapshot{
		Status: l.status,
		Films:  slices.Clone(l.films),
		Actors: slices.Clone(l.actors),
	}
}
