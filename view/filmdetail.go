package view

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/filmdesk/sakila"
)

// filmDetailAPI is the subset of the API the film page needs
type filmDetailAPI interface {
	Film(ctx context.Context, id int) (*sakila.Film, error)
	RentFilm(ctx context.Context, filmID int, req sakila.RentRequest) (*sakila.Ack, error)
	Customer(ctx context.Context, id int) (*sakila.Customer, error)
}

// RentalForm is the state of the rent overlay
type RentalForm struct {
	CustomerInput string
	StoreID       int
	// Preview is the customer matching CustomerInput, nil when the input is
	// empty, malformed or unknown
	Preview    *sakila.Customer
	LookingUp  bool
	Submitting bool
	// Error is shown inside the overlay
	Error string
}

// Confirmed reports whether the rent button is enabled
func (r RentalForm) Confirmed() bool {
	return r.Preview != nil && !r.Submitting
}

// FilmDetailSnapshot is the render state of the film page
type FilmDetailSnapshot struct {
	Status Status
	Film   *sakila.Film
	Banner string
	Notice string
	// Rental is nil while the overlay is closed
	Rental *RentalForm
}

// FilmDetail controls the film page and its rent overlay
type FilmDetail struct {
	lifecycle

	api      filmDetailAPI
	id       int
	settings Settings
	logger   zerolog.Logger

	status  Status
	film    *sakila.Film
	banner  string
	rental  *RentalForm
	lookups Slot
	notice  *Transient
}

// NewFilmDetail returns an idle film page for id
func NewFilmDetail(api filmDetailAPI, id int, settings Settings, logger zerolog.Logger) *FilmDetail {
	settings = settings.withDefaults()
	d := &FilmDetail{
		api:      api,
		id:       id,
		settings: settings,
		logger:   logger.With().Str("view", "film").Int("film_id", id).Logger(),
		status:   Idle{},
		notice:   NewTransient(settings.MessageTTL),
	}
	d.init(d.notice)
	return d
}

// Load fetches the film with its cast and inventory
func (d *FilmDetail) Load(ctx context.Context) error {
	d.mu.Lock()
	rctx, done, err := d.enter(ctx, false)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.status = Loading{}
	d.banner = ""
	d.mu.Unlock()

	film, err := d.api.Film(rctx, d.id)

	d.mu.Lock()
	defer d.mu.Unlock()
	done()

	if d.closed {
		return ErrClosed
	}

	switch {
	case err == nil:
		d.film = film
		d.status = Ready{}
		return nil
	case sakila.IsNotFound(err):
		nf := &NotFoundError{Resource: "film", ID: d.id, Err: err}
		d.film = nil
		d.status = Missing{Err: nf}
		return nf
	default:
		d.logger.Error().Err(err).Msg("Failed to load film")
		ferr := &FetchError{Resource: "film", Err: err}
		if d.film == nil {
			d.status = Failed{Err: ferr}
		} else {
			d.status = Ready{}
			d.banner = "Failed to load film details. Please try again later."
		}
		return ferr
	}
}

// OpenRental opens the rent overlay. The store defaults to the first store
// with an available copy.
func (d *FilmDetail) OpenRental() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.film == nil {
		return ErrControlDisabled
	}
	store, ok := d.film.StoreWithStock()
	if !ok {
		store = d.settings.DefaultStore
	}
	d.lookups.Cancel()
	d.rental = &RentalForm{StoreID: store}
	return nil
}

// CloseRental closes the overlay and abandons a pending customer lookup
func (d *FilmDetail) CloseRental() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups.Cancel()
	d.rental = nil
}

// SetStore selects the store the copy is rented from
func (d *FilmDetail) SetStore(storeID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rental == nil || storeID <= 0 {
		return ErrControlDisabled
	}
	d.rental.StoreID = storeID
	return nil
}

// SetCustomerID records the typed customer id and looks the customer up.
// Only the latest lookup is applied; a failed lookup just clears the
// preview.
func (d *FilmDetail) SetCustomerID(ctx context.Context, input string) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.rental == nil {
		d.mu.Unlock()
		return ErrControlDisabled
	}
	form := d.rental
	form.CustomerInput = input
	form.Preview = nil
	form.Error = ""

	id, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || id <= 0 {
		d.lookups.Cancel()
		form.LookingUp = false
		d.mu.Unlock()
		return nil
	}

	rctx, done, err := d.enter(ctx, false)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	rctx, ticket := d.lookups.Begin(rctx)
	form.LookingUp = true
	d.mu.Unlock()

	customer, err := d.api.Customer(rctx, id)

	d.mu.Lock()
	defer d.mu.Unlock()
	done()

	if d.closed {
		return ErrClosed
	}
	if !d.lookups.Finish(ticket) || d.rental != form {
		return ErrSuperseded
	}
	form.LookingUp = false
	if err != nil {
		d.logger.Debug().Err(err).Int("customer_id", id).Msg("Customer lookup failed")
		return nil
	}
	form.Preview = customer
	return nil
}

// ConfirmRental rents the film to the previewed customer. On success the
// overlay closes and the film is fetched again to refresh the inventory.
func (d *FilmDetail) ConfirmRental(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.rental == nil || !d.rental.Confirmed() {
		d.mu.Unlock()
		return ErrControlDisabled
	}
	rctx, done, err := d.enter(ctx, true)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	form := d.rental
	form.Submitting = true
	form.Error = ""
	req := sakila.RentRequest{CustomerID: form.Preview.ID, StoreID: form.StoreID}
	d.mu.Unlock()

	_, err = d.api.RentFilm(rctx, d.id, req)

	d.mu.Lock()
	done()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	form.Submitting = false
	if err != nil {
		d.logger.Error().Err(err).Int("customer_id", req.CustomerID).Int("store_id", req.StoreID).Msg("Failed to rent film")
		form.Error = "Failed to rent film. Please check inventory availability."
		d.mu.Unlock()
		return &MutationError{Op: "rent film", Err: err}
	}
	if d.rental == form {
		d.rental = nil
	}
	d.notice.Show("Film rented successfully!")
	d.mu.Unlock()

	d.logger.Info().Int("customer_id", req.CustomerID).Int("store_id", req.StoreID).Msg("Film rented")
	return d.Load(ctx)
}

// Snapshot returns the current render state
func (d *FilmDetail) Snapshot() FilmDetailSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := FilmDetailSnapshot{
		Status: d.status,
		Film:   d.film,
		Banner: d.banner,
		Notice: d.notice.Value(),
	}
	if d.rental != nil {
		form := *d.rental
		snap.Rental = &form
	}
	return snap
}
