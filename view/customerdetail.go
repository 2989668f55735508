package view

import (
	"context"
	"slices"
	"sort"

	"github.com/rs/zerolog"

	"github.com/s0up4200/filmdesk/sakila"
)

// Confirmation prompts
const (
	PromptReturnRental   = "Are you sure you want to mark this rental as returned?"
	PromptDeleteCustomer = "Are you sure you want to delete this customer? This action cannot be undone."
)

// EditForm is the state of the customer edit form
type EditForm struct {
	Fields     sakila.CustomerUpdate
	Submitting bool
	// Error is shown next to the form
	Error string
}

// CustomerDetailSnapshot is the render state of the customer page
type CustomerDetailSnapshot struct {
	Status   Status
	Customer *sakila.Customer
	Banner   string
	Notice   string
	// Edit is nil while the form is closed
	Edit *EditForm
	// Deleted is set once the customer is gone and navigation is pending
	Deleted bool
	// Active lists the rentals still out
	Active []sakila.Rental
	// History lists the most recent returned rentals, capped at the history
	// limit. HistoryTotal counts all of them.
	History      []sakila.Rental
	HistoryTotal int
}

// CustomerDetail controls the customer page: profile, edit form, rental
// return and delete.
type CustomerDetail struct {
	lifecycle

	api      sakila.CustomersAPI
	id       int
	settings Settings
	logger   zerolog.Logger
	confirm  Confirmer
	nav      Navigator

	status   Status
	customer *sakila.Customer
	banner   string
	edit     *EditForm
	deleted  bool
	notice   *Transient
}

// NewCustomerDetail returns an idle customer page for id. confirm gates
// destructive actions and nav receives the redirect after a delete.
func NewCustomerDetail(api sakila.CustomersAPI, id int, confirm Confirmer, nav Navigator, settings Settings, logger zerolog.Logger) *CustomerDetail {
	settings = settings.withDefaults()
	d := &CustomerDetail{
		api:      api,
		id:       id,
		settings: settings,
		logger:   logger.With().Str("view", "customer").Int("customer_id", id).Logger(),
		confirm:  confirm,
		nav:      nav,
		status:   Idle{},
		notice:   NewTransient(settings.MessageTTL),
	}
	d.init(d.notice)
	return d
}

// Load fetches the customer with their rental history
func (d *CustomerDetail) Load(ctx context.Context) error {
	d.mu.Lock()
	rctx, done, err := d.enter(ctx, false)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.status = Loading{}
	d.banner = ""
	d.mu.Unlock()

	customer, err := d.api.Customer(rctx, d.id)

	d.mu.Lock()
	defer d.mu.Unlock()
	done()

	if d.closed {
		return ErrClosed
	}

	switch {
	case err == nil:
		d.customer = customer
		d.status = Ready{}
		return nil
	case sakila.IsNotFound(err):
		nf := &NotFoundError{Resource: "customer", ID: d.id, Err: err}
		d.customer = nil
		d.status = Missing{Err: nf}
		return nf
	default:
		d.logger.Error().Err(err).Msg("Failed to load customer")
		ferr := &FetchError{Resource: "customer", Err: err}
		if d.customer == nil {
			d.status = Failed{Err: ferr}
		} else {
			d.status = Ready{}
			d.banner = "Failed to load customer details. Please try again later."
		}
		return ferr
	}
}

// OpenEdit opens the edit form pre-populated with the customer's fields
func (d *CustomerDetail) OpenEdit() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.customer == nil || d.deleted {
		return ErrControlDisabled
	}
	d.edit = &EditForm{Fields: sakila.UpdateFrom(d.customer)}
	return nil
}

// CancelEdit closes the form and discards unsaved changes
func (d *CustomerDetail) CancelEdit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.edit = nil
}

// SubmitEdit saves the edit form. On success the form closes and the
// customer is fetched again.
func (d *CustomerDetail) SubmitEdit(ctx context.Context, fields sakila.CustomerUpdate) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.edit == nil {
		d.mu.Unlock()
		return ErrControlDisabled
	}
	form := d.edit
	form.Fields = fields
	if err := checkForm(fields); err != nil {
		form.Error = err.Error()
		d.mu.Unlock()
		return &MutationError{Op: "update customer", Err: err}
	}
	rctx, done, err := d.enter(ctx, true)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	form.Submitting = true
	form.Error = ""
	d.mu.Unlock()

	_, err = d.api.UpdateCustomer(rctx, d.id, fields)

	d.mu.Lock()
	done()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	form.Submitting = false
	if err != nil {
		d.logger.Error().Err(err).Msg("Failed to update customer")
		form.Error = "Failed to update customer. Please try again later."
		d.mu.Unlock()
		return &MutationError{Op: "update customer", Err: err}
	}
	if d.edit == form {
		d.edit = nil
	}
	d.banner = ""
	d.notice.Show("Customer updated successfully!")
	d.mu.Unlock()

	d.logger.Info().Msg("Customer updated")
	return d.Load(ctx)
}

// ReturnRental marks an active rental as returned after confirmation, then
// fetches the customer again
func (d *CustomerDetail) ReturnRental(ctx context.Context, rentalID int) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	if !d.hasActiveRental(rentalID) {
		d.mu.Unlock()
		return ErrControlDisabled
	}
	if d.busy > 0 {
		d.mu.Unlock()
		return ErrBusy
	}
	d.mu.Unlock()

	if !d.confirm.Confirm(PromptReturnRental) {
		return ErrCancelled
	}

	d.mu.Lock()
	rctx, done, err := d.enter(ctx, true)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.banner = ""
	d.mu.Unlock()

	_, err = d.api.ReturnRental(rctx, d.id, rentalID)

	d.mu.Lock()
	done()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		d.logger.Error().Err(err).Int("rental_id", rentalID).Msg("Failed to return rental")
		d.banner = "Failed to return rental. Please try again later."
		d.mu.Unlock()
		return &MutationError{Op: "return rental", Err: err}
	}
	d.notice.Show("Rental returned successfully!")
	d.mu.Unlock()

	d.logger.Info().Int("rental_id", rentalID).Msg("Rental returned")
	return d.Load(ctx)
}

// hasActiveRental must be called with d.mu held
func (d *CustomerDetail) hasActiveRental(rentalID int) bool {
	if d.customer == nil || d.deleted {
		return false
	}
	for i := range d.customer.RentalHistory {
		r := &d.customer.RentalHistory[i]
		if r.ID == rentalID && r.Status() == sakila.StatusRented {
			return true
		}
	}
	return false
}

// Delete removes the customer after confirmation. On success a notice is
// shown and the client navigates to the customer list after the redirect
// delay, unless the view is closed first.
func (d *CustomerDetail) Delete(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.customer == nil || d.deleted {
		d.mu.Unlock()
		return ErrControlDisabled
	}
	if d.busy > 0 {
		d.mu.Unlock()
		return ErrBusy
	}
	d.mu.Unlock()

	if !d.confirm.Confirm(PromptDeleteCustomer) {
		return ErrCancelled
	}

	d.mu.Lock()
	rctx, done, err := d.enter(ctx, true)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.banner = ""
	d.mu.Unlock()

	_, err = d.api.DeleteCustomer(rctx, d.id)

	d.mu.Lock()
	defer d.mu.Unlock()
	done()
	if d.closed {
		return ErrClosed
	}
	if err != nil {
		d.logger.Error().Err(err).Msg("Failed to delete customer")
		d.banner = "Failed to delete customer. Please try again later."
		return &MutationError{Op: "delete customer", Err: err}
	}

	d.logger.Info().Msg("Customer deleted")
	d.deleted = true
	d.edit = nil
	d.notice.Show("Customer deleted successfully!")
	d.after(d.settings.RedirectDelay, func() {
		d.nav.Navigate(RouteCustomers)
	})
	return nil
}

// Snapshot returns the current render state
func (d *CustomerDetail) Snapshot() CustomerDetailSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := CustomerDetailSnapshot{
		Status:   d.status,
		Customer: d.customer,
		Banner:   d.banner,
		Notice:   d.notice.Value(),
		Deleted:  d.deleted,
	}
	if d.edit != nil {
		form := *d.edit
		snap.Edit = &form
	}
	if d.customer != nil {
		snap.Active, snap.History, snap.HistoryTotal = PartitionRentals(d.customer.RentalHistory, d.settings.HistoryLimit)
	}
	return snap
}

// PartitionRentals splits a rental history into the rentals still out and
// the most recent returned ones, newest first, capped at limit. It also
// returns the total number of returned rentals.
func PartitionRentals(rentals []sakila.Rental, limit int) (active, history []sakila.Rental, historyTotal int) {
	for _, r := range rentals {
		if r.Status() == sakila.StatusRented {
			active = append(active, r)
		} else {
			history = append(history, r)
		}
	}

	history = slices.Clone(history)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].RentalDate > history[j].RentalDate
	})
	historyTotal = len(history)
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return active, history, historyTotal
}
