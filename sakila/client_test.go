package sakila_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/filmdesk/sakila"
	"github.com/s0up4200/filmdesk/sakila/sakilatest"
)

func newClient(t *testing.T, baseURL string) *sakila.Client {
	t.Helper()
	client, err := sakila.NewClient(baseURL, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
		want    string
	}{
		{name: "valid", baseURL: "http://localhost:5001/api", want: "http://localhost:5001/api"},
		{name: "trailing slash", baseURL: "http://localhost:5001/api/", want: "http://localhost:5001/api"},
		{name: "empty", baseURL: "", wantErr: true},
		{name: "relative", baseURL: "/api", wantErr: true},
		{name: "bad scheme", baseURL: "ftp://localhost/api", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := sakila.NewClient(tt.baseURL, zerolog.Nop())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, sakila.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.BaseURL())
		})
	}
}

func TestSearchFilmsOmitsEmptyFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters sakila.FilmFilters
		want    string
	}{
		{
			name:    "only title",
			filters: sakila.FilmFilters{Title: "alien", ActorName: "", Genre: "   "},
			want:    "title=alien",
		},
		{
			name:    "all structured",
			filters: sakila.FilmFilters{Title: "a", ActorName: "Nick", Genre: "Drama"},
			want:    "actorName=Nick&genre=Drama&title=a",
		},
		{
			name:    "free text wins",
			filters: sakila.FilmFilters{Query: " inception ", Title: "x"},
			want:    "q=inception",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/films/search", r.URL.Path)
				gotQuery = r.URL.RawQuery
				json.NewEncoder(w).Encode([]sakila.Film{})
			}))
			defer server.Close()

			client := newClient(t, server.URL+"/api")
			_, err := client.SearchFilms(context.Background(), tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, gotQuery)
		})
	}
}

func TestRequestHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Len(t, r.Header.Get("X-Request-ID"), 36)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]int{"customer_id": 5, "store_id": 2}, body)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	ack, err := client.RentFilm(context.Background(), 7, sakila.RentRequest{CustomerID: 5, StoreID: 2})
	require.NoError(t, err)
	assert.Equal(t, "ok", ack.Message)
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Customer not found"}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	_, err := client.Customer(context.Background(), 999999)
	require.Error(t, err)
	assert.True(t, sakila.IsNotFound(err))

	var apiErr *sakila.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Customer not found", apiErr.Message)
	assert.Equal(t, "/customers/999999", apiErr.Path)
	assert.Contains(t, err.Error(), "status 404")
}

func TestServerErrorIsNotNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	_, err := client.Films(context.Background(), 1, 20)
	require.Error(t, err)
	assert.False(t, sakila.IsNotFound(err))
}

func TestInvalidIDsNeverHitTheNetwork(t *testing.T) {
	srv := sakilatest.NewServer()
	defer srv.Close()
	client := newClient(t, srv.APIURL())
	ctx := context.Background()

	_, err := client.Film(ctx, 0)
	assert.ErrorIs(t, err, sakila.ErrInvalidID)
	_, err = client.Customer(ctx, -4)
	assert.ErrorIs(t, err, sakila.ErrInvalidID)
	_, err = client.ReturnRental(ctx, 8, 0)
	assert.ErrorIs(t, err, sakila.ErrInvalidID)
	assert.Zero(t, srv.Requests())
}

func TestCustomerPagesAreDisjoint(t *testing.T) {
	srv := sakilatest.NewServer()
	defer srv.Close()
	client := newClient(t, srv.APIURL())
	ctx := context.Background()

	first, err := client.Customers(ctx, 1, 20, "")
	require.NoError(t, err)
	assert.Equal(t, 3, first.Pagination.TotalPages)
	assert.Equal(t, sakilatest.CustomerTotal, first.Pagination.Total())
	assert.False(t, first.Pagination.HasPrev)
	assert.True(t, first.Pagination.HasNext)

	seen := make(map[int]bool)
	last := 0
	for page := 1; page <= first.Pagination.TotalPages; page++ {
		resp, err := client.Customers(ctx, page, 20, "")
		require.NoError(t, err)
		for _, c := range resp.Customers {
			assert.False(t, seen[c.ID], "customer %d appears on two pages", c.ID)
			assert.Greater(t, c.ID, last)
			seen[c.ID] = true
			last = c.ID
		}
	}
	assert.Len(t, seen, sakilatest.CustomerTotal)
}

func TestCustomerRoundTrip(t *testing.T) {
	srv := sakilatest.NewServer()
	defer srv.Close()
	client := newClient(t, srv.APIURL())
	ctx := context.Background()

	created, err := client.CreateCustomer(ctx, sakila.NewCustomer{FirstName: "Ada", LastName: "Byron", Email: "ada@example.org"})
	require.NoError(t, err)
	assert.Equal(t, sakilatest.CustomerTotal+1, created.ID)
	assert.True(t, bool(created.Active))

	found, err := client.SearchCustomers(ctx, sakila.CustomerFilters{Name: "ada byr"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)

	_, err = client.UpdateCustomer(ctx, created.ID, sakila.CustomerUpdate{City: "London"})
	require.NoError(t, err)
	got, err := client.Customer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "London", got.City)
	assert.Equal(t, "Ada", got.FirstName)

	_, err = client.DeleteCustomer(ctx, created.ID)
	require.NoError(t, err)
	_, err = client.Customer(ctx, created.ID)
	assert.True(t, sakila.IsNotFound(err))
}

func TestRentAndReturn(t *testing.T) {
	srv := sakilatest.NewServer()
	defer srv.Close()
	client := newClient(t, srv.APIURL())
	ctx := context.Background()

	before := srv.AvailableCopies(sakilatest.InceptionID, 1)
	_, err := client.RentFilm(ctx, sakilatest.InceptionID, sakila.RentRequest{CustomerID: 5, StoreID: 1})
	require.NoError(t, err)
	assert.Equal(t, before-1, srv.AvailableCopies(sakilatest.InceptionID, 1))

	_, err = client.ReturnRental(ctx, sakilatest.ReturnCustomerID, sakilatest.ReturnRentalID)
	require.NoError(t, err)

	_, err = client.ReturnRental(ctx, sakilatest.ReturnCustomerID, sakilatest.ReturnRentalID)
	assert.True(t, sakila.IsNotFound(err), "returning twice must fail")
}

func TestActors(t *testing.T) {
	srv := sakilatest.NewServer()
	defer srv.Close()
	client := newClient(t, srv.APIURL())
	ctx := context.Background()

	top, err := client.TopActors(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(top), 5)

	actor, err := client.Actor(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Nick Wahlberg", actor.FullName())
	assert.NotEmpty(t, actor.Films)

	ranked, err := client.ActorTopRentedFilms(ctx, 2)
	require.NoError(t, err)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].RentalCount, ranked[i].RentalCount)
	}

	found, err := client.SearchActors(ctx, "wahl")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 2, found[0].ID)
}

func TestDecodeLooseTypes(t *testing.T) {
	var film sakila.Film
	require.NoError(t, json.Unmarshal([]byte(`{"film_id":1,"rental_rate":"4.99","replacement_cost":20.99,"special_features":"Trailers, Commentaries,,"}`), &film))
	assert.Equal(t, sakila.Decimal("4.99"), film.RentalRate)
	assert.InDelta(t, 20.99, film.ReplacementCost.Float(), 0.001)
	assert.Equal(t, []string{"Trailers", "Commentaries"}, film.Features())

	var c sakila.Customer
	require.NoError(t, json.Unmarshal([]byte(`{"customer_id":3,"active":1,"rental_history":[{"rental_id":1,"return_date":null,"status":"Returned"},{"rental_id":2,"return_date":"2005-06-01"}]}`), &c))
	assert.True(t, bool(c.Active))
	assert.Equal(t, sakila.StatusRented, c.RentalHistory[0].Status(), "status is derived, not trusted")
	assert.Equal(t, sakila.StatusReturned, c.RentalHistory[1].Status())

	out, err := json.Marshal(sakila.CustomerUpdate{City: "Oslo", Active: new(sakila.Flag)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"city":"Oslo","active":0}`, string(out))
}
