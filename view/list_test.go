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

const (
	customersRoute      = "GET /api/customers"
	customerSearchRoute = "GET /api/customers/search"
)

func newCustomers(t *testing.T, api sakila.CustomersAPI) *view.Customers {
	t.Helper()
	c := view.NewCustomers(api, testSettings(), zerolog.Nop())
	t.Cleanup(c.Close)
	return c
}

func TestCustomersPaging(t *testing.T) {
	srv, client := setup(t)
	c := newCustomers(t, client)
	ctx := context.Background()

	assert.IsType(t, view.Idle{}, c.Snapshot().Status)
	require.NoError(t, c.Load(ctx))

	snap := c.Snapshot()
	assert.IsType(t, view.Ready{}, snap.Status)
	assert.Equal(t, 1, snap.Page)
	assert.Equal(t, 3, snap.TotalPages)
	assert.Equal(t, sakilatest.CustomerTotal, snap.Total)
	assert.Equal(t, idRange(1, 20), customerIDs(snap.Rows))
	assert.False(t, snap.HasPrev())
	assert.True(t, snap.HasNext())

	assert.ErrorIs(t, c.Prev(ctx), view.ErrControlDisabled)

	require.NoError(t, c.Next(ctx))
	snap = c.Snapshot()
	assert.Equal(t, 2, snap.Page)
	assert.Equal(t, idRange(21, 40), customerIDs(snap.Rows))
	assert.True(t, snap.HasPrev())

	require.NoError(t, c.Next(ctx))
	snap = c.Snapshot()
	assert.Equal(t, idRange(41, 45), customerIDs(snap.Rows))
	assert.False(t, snap.HasNext())

	before := srv.Hits(customersRoute)
	assert.ErrorIs(t, c.Next(ctx), view.ErrControlDisabled)
	assert.Equal(t, before, srv.Hits(customersRoute), "a disabled control issues no request")

	require.NoError(t, c.Prev(ctx))
	assert.Equal(t, 2, c.Snapshot().Page)
}

func TestFailedPageKeepsPreviousRows(t *testing.T) {
	srv, client := setup(t)
	c := newCustomers(t, client)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	srv.Fail(customersRoute)

	err := c.Next(ctx)
	var fetchErr *view.FetchError
	require.ErrorAs(t, err, &fetchErr)

	snap := c.Snapshot()
	assert.IsType(t, view.Ready{}, snap.Status)
	assert.Equal(t, 1, snap.Page, "the displayed page is the last one fetched")
	assert.Equal(t, idRange(1, 20), customerIDs(snap.Rows))
	assert.Equal(t, "Failed to load customers. Please try again later.", snap.Banner)

	srv.Recover(customersRoute)
	require.NoError(t, c.Next(ctx))
	snap = c.Snapshot()
	assert.Equal(t, 2, snap.Page)
	assert.Empty(t, snap.Banner)
}

func TestInitialLoadFailure(t *testing.T) {
	srv, client := setup(t)
	srv.Fail("GET /api/films")

	f := view.NewFilms(client, testSettings(), zerolog.Nop())
	defer f.Close()

	err := f.Load(context.Background())
	require.Error(t, err)

	failed, ok := f.Snapshot().Status.(view.Failed)
	require.True(t, ok)
	assert.ErrorIs(t, failed.Err, err)
	assert.Empty(t, f.Snapshot().Rows)
}

func TestJumpTo(t *testing.T) {
	srv, client := setup(t)
	c := newCustomers(t, client)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	for _, input := range []string{"0", "4", "abc", ""} {
		before := srv.Hits(customersRoute)

		err := c.JumpTo(ctx, input)
		var inputErr *view.InputError
		require.ErrorAs(t, err, &inputErr, "input %q", input)

		snap := c.Snapshot()
		assert.Equal(t, 1, snap.Page)
		assert.Equal(t, "Please enter a page number between 1 and 3", snap.InputError)
		assert.Equal(t, before, srv.Hits(customersRoute), "invalid input issues no request")
	}

	assert.Eventually(t, func() bool { return c.Snapshot().InputError == "" }, waitFor, tick, "input errors are transient")

	require.NoError(t, c.JumpTo(ctx, "3"))
	snap := c.Snapshot()
	assert.Equal(t, 3, snap.Page)
	assert.Len(t, snap.Rows, 5)
}

func TestSearchAndClear(t *testing.T) {
	srv, client := setup(t)
	c := newCustomers(t, client)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.Next(ctx))
	browse := c.Snapshot()

	require.NoError(t, c.Submit(ctx, sakila.CustomerFilters{Name: "mary"}))
	snap := c.Snapshot()
	assert.Equal(t, view.ModeSearch, snap.Mode)
	assert.Equal(t, []int{1, 16, 31}, customerIDs(snap.Rows))
	assert.Equal(t, "mary", snap.Filters.Name)
	assert.False(t, snap.HasNext())
	assert.False(t, snap.HasPrev())

	assert.ErrorIs(t, c.Next(ctx), view.ErrSearchActive)
	assert.ErrorIs(t, c.Prev(ctx), view.ErrSearchActive)
	assert.ErrorIs(t, c.JumpTo(ctx, "1"), view.ErrSearchActive)

	hits := srv.Hits(customersRoute)
	require.NoError(t, c.ClearSearch())
	snap = c.Snapshot()
	assert.Equal(t, view.ModeBrowse, snap.Mode)
	assert.Equal(t, 2, snap.Page)
	assert.Equal(t, customerIDs(browse.Rows), customerIDs(snap.Rows))
	assert.Empty(t, snap.Filters.Name)
	assert.Equal(t, hits, srv.Hits(customersRoute), "clearing a search does not refetch")
}

func TestSearchByCustomerID(t *testing.T) {
	_, client := setup(t)
	c := newCustomers(t, client)

	require.NoError(t, c.Submit(context.Background(), sakila.CustomerFilters{CustomerID: "17"}))
	assert.Equal(t, []int{17}, customerIDs(c.Snapshot().Rows))
}

func TestEmptySearchRevertsWithoutRequest(t *testing.T) {
	srv, client := setup(t)
	c := newCustomers(t, client)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.Submit(ctx, sakila.CustomerFilters{Name: "mary"}))
	searches := srv.Hits(customerSearchRoute)

	require.NoError(t, c.Submit(ctx, sakila.CustomerFilters{Name: "   ", CustomerID: ""}))
	snap := c.Snapshot()
	assert.Equal(t, view.ModeBrowse, snap.Mode)
	assert.Equal(t, idRange(1, 20), customerIDs(snap.Rows))
	assert.Equal(t, searches, srv.Hits(customerSearchRoute))

	srv.Fail(customersRoute)
	require.Error(t, c.Next(ctx))
	banner := c.Snapshot().Banner
	require.NotEmpty(t, banner)

	require.NoError(t, c.Submit(ctx, sakila.CustomerFilters{}))
	snap = c.Snapshot()
	assert.Equal(t, banner, snap.Banner, "an empty submit in browse mode leaves the page alone")
	assert.Equal(t, 1, snap.Page)
	assert.Equal(t, idRange(1, 20), customerIDs(snap.Rows))
	assert.Equal(t, searches, srv.Hits(customerSearchRoute))
}

func TestFailedSearchKeepsMode(t *testing.T) {
	srv, client := setup(t)
	c := newCustomers(t, client)
	ctx := context.Background()

	require.NoError(t, c.Load(ctx))
	srv.FailOnce(customerSearchRoute)

	require.Error(t, c.Submit(ctx, sakila.CustomerFilters{Name: "mary"}))
	snap := c.Snapshot()
	assert.Equal(t, view.ModeBrowse, snap.Mode)
	assert.Equal(t, "Failed to search customers. Please try again later.", snap.Banner)
	assert.Len(t, snap.Rows, 20)
}

func TestLatestSearchWins(t *testing.T) {
	srv, client := setup(t)
	c := newCustomers(t, client)
	ctx := context.Background()

	srv.Delay(customerSearchRoute, time.Second)
	first := make(chan error, 1)
	go func() {
		first <- c.Submit(ctx, sakila.CustomerFilters{Name: "mary"})
	}()
	require.Eventually(t, c.Busy, waitFor, tick)
	assert.IsType(t, view.Loading{}, c.Snapshot().Status)

	srv.Delay(customerSearchRoute, 0)
	require.NoError(t, c.Submit(ctx, sakila.CustomerFilters{Name: "linda"}))
	assert.ErrorIs(t, <-first, view.ErrSuperseded)

	snap := c.Snapshot()
	assert.IsType(t, view.Ready{}, snap.Status)
	for _, row := range snap.Rows {
		assert.Equal(t, "Linda", row.FirstName)
	}
	assert.Equal(t, "linda", snap.Filters.Name)
}

func TestSortIsLocal(t *testing.T) {
	srv, client := setup(t)
	c := newCustomers(t, client)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	requests := srv.Requests()
	c.ToggleSort(view.SortByID)
	c.ToggleSort(view.SortByID)

	snap := c.Snapshot()
	assert.Equal(t, view.SortState{Key: view.SortByID, Direction: view.SortDesc}, snap.Sort)
	assert.Equal(t, 20, snap.Rows[0].ID)
	assert.Equal(t, 1, snap.Rows[19].ID)
	assert.Equal(t, requests, srv.Requests())

	c.ToggleSort(view.SortByID)
	assert.Equal(t, 1, c.Snapshot().Rows[0].ID)
}

func TestAddCustomer(t *testing.T) {
	srv, client := setup(t)
	c := newCustomers(t, client)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	assert.ErrorIs(t, c.AddCustomer(ctx, sakila.NewCustomer{}), view.ErrControlDisabled, "modal must be open")
	require.NoError(t, c.OpenAdd())

	err := c.AddCustomer(ctx, sakila.NewCustomer{FirstName: "Ada", LastName: "Byron", Email: "not-an-email"})
	var mutationErr *view.MutationError
	require.ErrorAs(t, err, &mutationErr)
	snap := c.Snapshot()
	require.NotNil(t, snap.Add, "the modal stays open on validation errors")
	assert.Contains(t, snap.Add.Error, "email must be a valid email address")
	assert.Equal(t, sakilatest.CustomerTotal, srv.CustomerCount())

	err = c.AddCustomer(ctx, sakila.NewCustomer{FirstName: " ", LastName: "Byron", Email: "ada@example.org"})
	require.Error(t, err)
	assert.Contains(t, c.Snapshot().Add.Error, "first name is required")

	require.NoError(t, c.AddCustomer(ctx, sakila.NewCustomer{FirstName: "Ada", LastName: "Byron", Email: "ada@example.org"}))
	snap = c.Snapshot()
	assert.Nil(t, snap.Add)
	assert.Equal(t, "Customer added successfully!", snap.Notice)
	assert.Equal(t, sakilatest.CustomerTotal+1, srv.CustomerCount())
	assert.Equal(t, sakilatest.CustomerTotal+1, snap.Total, "the browse page is fetched again")

	assert.Eventually(t, func() bool { return c.Snapshot().Notice == "" }, waitFor, tick)
}

func TestAddCustomerServerError(t *testing.T) {
	srv, client := setup(t)
	c := newCustomers(t, client)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.OpenAdd())

	srv.FailOnce("POST /api/customers")
	err := c.AddCustomer(ctx, sakila.NewCustomer{FirstName: "Ada", LastName: "Byron", Email: "ada@example.org"})
	require.Error(t, err)

	snap := c.Snapshot()
	require.NotNil(t, snap.Add)
	assert.False(t, snap.Add.Submitting)
	assert.Equal(t, "Failed to add customer. Please try again later.", snap.Add.Error)
	assert.Empty(t, snap.Banner, "mutation errors stay in the modal")

	c.CancelAdd()
	assert.Nil(t, c.Snapshot().Add)
}

func TestMutationsBlockedWhileLoading(t *testing.T) {
	srv, client := setup(t)
	c := newCustomers(t, client)
	ctx := context.Background()
	require.NoError(t, c.OpenAdd())

	srv.Delay(customersRoute, time.Second)
	done := make(chan error, 1)
	go func() { done <- c.Load(ctx) }()
	require.Eventually(t, c.Busy, waitFor, tick)

	err := c.AddCustomer(ctx, sakila.NewCustomer{FirstName: "Ada", LastName: "Byron", Email: "ada@example.org"})
	assert.ErrorIs(t, err, view.ErrBusy)
	assert.Equal(t, sakilatest.CustomerTotal, srv.CustomerCount())

	c.Close()
	assert.ErrorIs(t, <-done, view.ErrClosed)
}

func TestFilmsBrowseAndSearch(t *testing.T) {
	_, client := setup(t)
	f := view.NewFilms(client, testSettings(), zerolog.Nop())
	defer f.Close()
	ctx := context.Background()

	require.NoError(t, f.Load(ctx))
	snap := f.Snapshot()
	assert.Equal(t, 2, snap.TotalPages)
	assert.Equal(t, sakilatest.FilmTotal, snap.Total)
	assert.Len(t, snap.Rows, 20)

	require.NoError(t, f.Next(ctx))
	assert.Len(t, f.Snapshot().Rows, 10)

	require.NoError(t, f.Submit(ctx, sakila.FilmFilters{Title: "incep"}))
	snap = f.Snapshot()
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, sakilatest.InceptionID, snap.Rows[0].ID)

	require.NoError(t, f.Submit(ctx, sakila.FilmFilters{Genre: "drama"}))
	for _, film := range f.Snapshot().Rows {
		assert.Equal(t, "Drama", film.CategoryName)
	}

	require.NoError(t, f.ClearSearch())
	snap = f.Snapshot()
	assert.Equal(t, 2, snap.Page)
	assert.Len(t, snap.Rows, 10)
}

func TestCloseDropsInFlightPage(t *testing.T) {
	srv, client := setup(t)
	f := view.NewFilms(client, testSettings(), zerolog.Nop())

	srv.Delay("GET /api/films", time.Second)
	done := make(chan error, 1)
	go func() { done <- f.Load(context.Background()) }()
	require.Eventually(t, f.Busy, waitFor, tick)

	f.Close()
	assert.ErrorIs(t, <-done, view.ErrClosed)

	snap := f.Snapshot()
	assert.IsType(t, view.Loading{}, snap.Status, "no state update after teardown")
	assert.Empty(t, snap.Rows)
	assert.ErrorIs(t, f.Load(context.Background()), view.ErrClosed)
}
