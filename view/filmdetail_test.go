package view_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/filmdesk/sakila"
	"github.com/s0up4200/filmdesk/sakila/sakilatest"
	"github.com/s0up4200/filmdesk/view"
)

func newFilmDetail(t *testing.T, api sakila.API, id int) *view.FilmDetail {
	t.Helper()
	d := view.NewFilmDetail(api, id, testSettings(), zerolog.Nop())
	t.Cleanup(d.Close)
	return d
}

func TestFilmDetailLoad(t *testing.T) {
	_, client := setup(t)
	d := newFilmDetail(t, client, sakilatest.InceptionID)

	require.NoError(t, d.Load(context.Background()))
	snap := d.Snapshot()
	assert.IsType(t, view.Ready{}, snap.Status)
	require.NotNil(t, snap.Film)
	assert.Equal(t, "Inception", snap.Film.Title)
	assert.Len(t, snap.Film.Actors, 2)
	assert.Equal(t, []string{"Trailers", "Deleted Scenes"}, snap.Film.Features())
}

func TestFilmDetailNotFound(t *testing.T) {
	_, client := setup(t)
	d := newFilmDetail(t, client, 9999)

	err := d.Load(context.Background())
	var nf *view.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.True(t, sakila.IsNotFound(err))

	missing, ok := d.Snapshot().Status.(view.Missing)
	require.True(t, ok)
	assert.Equal(t, "film", missing.Err.Resource)
	assert.Equal(t, 9999, missing.Err.ID)
	assert.ErrorIs(t, d.OpenRental(), view.ErrControlDisabled)
}

func TestRentFilm(t *testing.T) {
	srv, client := setup(t)
	d := newFilmDetail(t, client, sakilatest.InceptionID)
	ctx := context.Background()
	require.NoError(t, d.Load(ctx))

	assert.ErrorIs(t, d.SetCustomerID(ctx, "5"), view.ErrControlDisabled, "overlay must be open")
	require.NoError(t, d.OpenRental())

	form := d.Snapshot().Rental
	require.NotNil(t, form)
	assert.Equal(t, 1, form.StoreID, "defaults to the first store with stock")
	assert.False(t, form.Confirmed())
	assert.ErrorIs(t, d.ConfirmRental(ctx), view.ErrControlDisabled)

	lookups := srv.Hits("GET /api/customers/5")
	require.NoError(t, d.SetCustomerID(ctx, "abc"))
	form = d.Snapshot().Rental
	assert.Nil(t, form.Preview)
	assert.False(t, form.Confirmed())
	assert.Equal(t, lookups, srv.Hits("GET /api/customers/5"))

	require.NoError(t, d.SetCustomerID(ctx, "5"))
	form = d.Snapshot().Rental
	require.NotNil(t, form.Preview)
	assert.Equal(t, 5, form.Preview.ID)
	assert.True(t, form.Confirmed())

	before := srv.AvailableCopies(sakilatest.InceptionID, 1)
	require.NoError(t, d.ConfirmRental(ctx))

	snap := d.Snapshot()
	assert.Nil(t, snap.Rental, "the overlay closes on success")
	assert.Equal(t, "Film rented successfully!", snap.Notice)
	assert.Equal(t, before-1, srv.AvailableCopies(sakilatest.InceptionID, 1))
	assert.Equal(t, before-1, snap.Film.Inventory[0].AvailableCopies, "the film is fetched again")
}

func TestRentFilmFailureKeepsOverlay(t *testing.T) {
	srv, client := setup(t)
	d := newFilmDetail(t, client, sakilatest.InceptionID)
	ctx := context.Background()
	require.NoError(t, d.Load(ctx))
	require.NoError(t, d.OpenRental())
	require.NoError(t, d.SetStore(2))
	require.NoError(t, d.SetCustomerID(ctx, "5"))

	// Inception has no copies at store 2
	require.Zero(t, srv.AvailableCopies(sakilatest.InceptionID, 2))
	err := d.ConfirmRental(ctx)
	var mutationErr *view.MutationError
	require.ErrorAs(t, err, &mutationErr)

	snap := d.Snapshot()
	require.NotNil(t, snap.Rental)
	assert.Equal(t, "Failed to rent film. Please check inventory availability.", snap.Rental.Error)
	assert.Equal(t, 5, snap.Rental.Preview.ID)
	assert.Empty(t, snap.Banner)
	assert.Empty(t, snap.Notice)

	d.CloseRental()
	assert.Nil(t, d.Snapshot().Rental)
}

func TestCustomerLookupFailureIsNotAPageError(t *testing.T) {
	_, client := setup(t)
	d := newFilmDetail(t, client, sakilatest.InceptionID)
	ctx := context.Background()
	require.NoError(t, d.Load(ctx))
	require.NoError(t, d.OpenRental())

	require.NoError(t, d.SetCustomerID(ctx, "5"))
	require.NoError(t, d.SetCustomerID(ctx, "99999"))

	snap := d.Snapshot()
	assert.IsType(t, view.Ready{}, snap.Status)
	assert.Empty(t, snap.Banner)
	assert.Nil(t, snap.Rental.Preview)
	assert.False(t, snap.Rental.Confirmed())
	assert.Equal(t, "99999", snap.Rental.CustomerInput)
}

func TestLatestCustomerLookupWins(t *testing.T) {
	srv, client := setup(t)
	d := newFilmDetail(t, client, sakilatest.InceptionID)
	ctx := context.Background()
	require.NoError(t, d.Load(ctx))
	require.NoError(t, d.OpenRental())

	srv.Delay("GET /api/customers/5", time.Second)
	first := make(chan error, 1)
	go func() { first <- d.SetCustomerID(ctx, "5") }()
	require.Eventually(t, func() bool { return d.Snapshot().Rental.LookingUp }, waitFor, tick)

	require.NoError(t, d.SetCustomerID(ctx, "6"))
	assert.ErrorIs(t, <-first, view.ErrSuperseded)

	form := d.Snapshot().Rental
	require.NotNil(t, form.Preview)
	assert.Equal(t, 6, form.Preview.ID)
	assert.False(t, form.LookingUp)
}

func TestClosingOverlayDropsLookup(t *testing.T) {
	srv, client := setup(t)
	d := newFilmDetail(t, client, sakilatest.InceptionID)
	ctx := context.Background()
	require.NoError(t, d.Load(ctx))
	require.NoError(t, d.OpenRental())

	srv.Delay("GET /api/customers/5", time.Second)
	first := make(chan error, 1)
	go func() { first <- d.SetCustomerID(ctx, "5") }()
	require.Eventually(t, d.Busy, waitFor, tick)

	d.CloseRental()
	assert.ErrorIs(t, <-first, view.ErrSuperseded)
	assert.Nil(t, d.Snapshot().Rental)
}

func TestDefaultStoreWithoutStock(t *testing.T) {
	api := &stubFilms{film: &sakila.Film{ID: 1, Title: "Sold Out", Inventory: []sakila.Inventory{{StoreID: 2}}}}
	settings := testSettings()
	settings.DefaultStore = 3

	d := view.NewFilmDetail(api, 1, settings, zerolog.Nop())
	defer d.Close()

	require.NoError(t, d.Load(context.Background()))
	require.NoError(t, d.OpenRental())
	assert.Equal(t, 3, d.Snapshot().Rental.StoreID)
}

func TestRentAfterCloseShowsNoNotice(t *testing.T) {
	api := &stubFilms{
		film:    &sakila.Film{ID: 1, Title: "Slow Rental", Inventory: []sakila.Inventory{{StoreID: 1, AvailableCopies: 1}}},
		release: make(chan struct{}),
	}
	d := view.NewFilmDetail(api, 1, testSettings(), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, d.Load(ctx))
	require.NoError(t, d.OpenRental())
	require.NoError(t, d.SetCustomerID(ctx, "1"))

	confirmed := make(chan error, 1)
	go func() {
		confirmed <- d.ConfirmRental(ctx)
	}()
	require.Eventually(t, d.Busy, waitFor, tick)

	d.Close()
	close(api.release)
	assert.ErrorIs(t, <-confirmed, view.ErrClosed)
	assert.Empty(t, d.Snapshot().Notice, "a closed view shows no messages")
}

type stubFilms struct {
	film *sakila.Film
	// release, when set, holds RentFilm until it is closed
	release chan struct{}
}

func (s *stubFilms) Film(context.Context, int) (*sakila.Film, error) {
	return s.film, nil
}

func (s *stubFilms) RentFilm(context.Context, int, sakila.RentRequest) (*sakila.Ack, error) {
	if s.release != nil {
		<-s.release
	}
	return &sakila.Ack{}, nil
}

func (s *stubFilms) Customer(context.Context, int) (*sakila.Customer, error) {
	return &sakila.Customer{ID: 1}, nil
}
