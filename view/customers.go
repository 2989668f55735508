package view

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/filmdesk/sakila"
)

// AddForm is the state of the add-customer modal
type AddForm struct {
	Submitting bool
	// Error is shown inside the modal
	Error string
}

// CustomersSnapshot is the render state of the customer list
type CustomersSnapshot struct {
	ListSnapshot[sakila.CustomerFilters, sakila.Customer]
	Sort SortState
	// Add is nil while the modal is closed
	Add *AddForm
}

// Customers controls the paginated, searchable, sortable customer list and
// its add-customer modal
type Customers struct {
	*list[sakila.CustomerFilters, sakila.Customer]

	api  sakila.CustomersAPI
	sort SortState
	add  *AddForm
}

// NewCustomers returns an idle customer list. Call Load to fetch the first
// page.
func NewCustomers(api sakila.CustomersAPI, settings Settings, logger zerolog.Logger) *Customers {
	settings = settings.withDefaults()
	fetch := func(ctx context.Context, page, limit int) ([]sakila.Customer, sakila.Pagination, error) {
		resp, err := api.Customers(ctx, page, limit, "")
		if err != nil {
			return nil, sakila.Pagination{}, err
		}
		return resp.Customers, resp.Pagination, nil
	}
	return &Customers{
		list: newList("customers", settings, logger.With().Str("view", "customers").Logger(), fetch, api.SearchCustomers),
		api:  api,
	}
}

// ToggleSort cycles the sort state of a column. Sorting is applied to the
// displayed rows only and never issues a request.
func (c *Customers) ToggleSort(key SortKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = c.sort.Toggle(key)
}

// OpenAdd opens the add-customer modal with an empty form
func (c *Customers) OpenAdd() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.add = &AddForm{}
	return nil
}

// CancelAdd closes the modal and discards the form
func (c *Customers) CancelAdd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add = nil
}

// AddCustomer submits the modal. Validation and server errors are kept in
// the modal; on success the modal closes, a notice is shown and the current
// browse page is fetched again.
func (c *Customers) AddCustomer(ctx context.Context, nc sakila.NewCustomer) error {
	nc.FirstName = strings.TrimSpace(nc.FirstName)
	nc.LastName = strings.TrimSpace(nc.LastName)
	nc.Email = strings.TrimSpace(nc.Email)

	c.mu.Lock()
	if c.add == nil {
		c.mu.Unlock()
		return ErrControlDisabled
	}
	if err := checkForm(nc); err != nil {
		c.add.Error = err.Error()
		c.mu.Unlock()
		return &MutationError{Op: "create customer", Err: err}
	}
	rctx, done, err := c.enter(ctx, true)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	form := c.add
	form.Submitting = true
	form.Error = ""
	c.mu.Unlock()

	created, err := c.api.CreateCustomer(rctx, nc)

	c.mu.Lock()
	done()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	form.Submitting = false
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to add customer")
		form.Error = "Failed to add customer. Please try again later."
		c.mu.Unlock()
		return &MutationError{Op: "create customer", Err: err}
	}
	if c.add == form {
		c.add = nil
	}
	c.notice.Show("Customer added successfully!")
	c.mu.Unlock()

	c.logger.Info().Int("customer_id", created.ID).Msg("Customer added")
	return c.Load(ctx)
}

// Snapshot returns the current render state. Rows are sorted per the
// current sort state.
func (c *Customers) Snapshot() CustomersSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := CustomersSnapshot{
		ListSnapshot: c.snapshot(),
		Sort:         c.sort,
	}
	snap.Rows = SortCustomers(snap.Rows, c.sort)
	if c.add != nil {
		form := *c.add
		snap.Add = &form
	}
	return snap
}
