package sakila

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxID = 1<<31 - 1

// Client represents a sakila API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     zerolog.Logger
}

// NewClient creates a new sakila client
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q must be an absolute http(s) URL", ErrInvalidConfig, baseURL)
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		userAgent:  "filmdesk",
		logger:     logger.With().Str("component", "sakila").Logger(),
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// BaseURL returns the normalised base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs a JSON request and decodes the response body into out
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body, out any) error {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", reqURL).
		Str("request_id", requestID).
		Msg("Making API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       endpoint,
			Message:    errorMessage(data, resp.Status),
			Body:       string(data),
		}
		c.logger.Debug().
			Str("request_id", requestID).
			Int("status", resp.StatusCode).
			Msg("API request failed")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from a body
func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fallback
}

func idPath(prefix string, id int, suffix string) (string, error) {
	if id <= 0 || id > maxID {
		return "", fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return prefix + "/" + strconv.Itoa(id) + suffix, nil
}

// setIfPresent adds a query parameter unless the value is empty or whitespace
func setIfPresent(params url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		params.Set(key, value)
	}
}

func pageParams(page, limit int) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(max(page, 1)))
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}

// TopRentedFilms retrieves the ranked list of most rented films
func (c *Client) TopRentedFilms(ctx context.Context) ([]Film, error) {
	var films []Film
	if err := c.do(ctx, http.MethodGet, "/films/top-rented", nil, nil, &films); err != nil {
		return nil, fmt.Errorf("failed to get top rented films: %w", err)
	}
	return films, nil
}

// Film retrieves a film with its cast and inventory
func (c *Client) Film(ctx context.Context, id int) (*Film, error) {
	path, err := idPath("/films", id, "")
	if err != nil {
		return nil, err
	}
	var film Film
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &film); err != nil {
		return nil, fmt.Errorf("failed to get film %d: %w", id, err)
	}
	return &film, nil
}

// SearchFilms runs a filtered film search. Empty filter values are omitted.
func (c *Client) SearchFilms(ctx context.Context, filters FilmFilters) ([]Film, error) {
	params := url.Values{}
	if !blank(filters.Query) {
		setIfPresent(params, "q", filters.Query)
	} else {
		setIfPresent(params, "title", filters.Title)
		setIfPresent(params, "actorName", filters.ActorName)
		setIfPresent(params, "genre", filters.Genre)
	}

	var films []Film
	if err := c.do(ctx, http.MethodGet, "/films/search", params, nil, &films); err != nil {
		return nil, fmt.Errorf("failed to search films: %w", err)
	}
	return films, nil
}

// Films retrieves one page of the film listing
func (c *Client) Films(ctx context.Context, page, limit int) (*FilmPage, error) {
	var resp FilmPage
	if err := c.do(ctx, http.MethodGet, "/films", pageParams(page, limit), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get films page %d: %w", page, err)
	}

	c.logger.Debug().
		Int("page", resp.Pagination.CurrentPage).
		Int("count", len(resp.Films)).
		Int("total_pages", resp.Pagination.TotalPages).
		Msg("Retrieved films page")

	return &resp, nil
}

// RentFilm rents a copy of a film from a store to a customer
func (c *Client) RentFilm(ctx context.Context, filmID int, req RentRequest) (*Ack, error) {
	path, err := idPath("/films", filmID, "/rent")
	if err != nil {
		return nil, err
	}
	var ack Ack
	if err := c.do(ctx, http.MethodPost, path, nil, req, &ack); err != nil {
		return nil, fmt.Errorf("failed to rent film %d: %w", filmID, err)
	}

	c.logger.Info().
		Int("film_id", filmID).
		Int("customer_id", req.CustomerID).
		Int("store_id", req.StoreID).
		Msg("Rented film")
	return &ack, nil
}

// TopActors retrieves the ranked list of top actors
func (c *Client) TopActors(ctx context.Context) ([]Actor, error) {
	var actors []Actor
	if err := c.do(ctx, http.MethodGet, "/actors/top", nil, nil, &actors); err != nil {
		return nil, fmt.Errorf("failed to get top actors: %w", err)
	}
	return actors, nil
}

// Actor retrieves an actor with their filmography
func (c *Client) Actor(ctx context.Context, id int) (*Actor, error) {
	path, err := idPath("/actors", id, "")
	if err != nil {
		return nil, err
	}
	var actor Actor
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &actor); err != nil {
		return nil, fmt.Errorf("failed to get actor %d: %w", id, err)
	}
	return &actor, nil
}

// ActorTopRentedFilms retrieves an actor's most rented films
func (c *Client) ActorTopRentedFilms(ctx context.Context, id int) ([]RankedFilm, error) {
	path, err := idPath("/actors", id, "/top-rented-films")
	if err != nil {
		return nil, err
	}
	var films []RankedFilm
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &films); err != nil {
		return nil, fmt.Errorf("failed to get top rented films of actor %d: %w", id, err)
	}
	return films, nil
}

// SearchActors searches actors by name
func (c *Client) SearchActors(ctx context.Context, query string) ([]Actor, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty actor query", ErrInvalidConfig)
	}
	var actors []Actor
	if err := c.do(ctx, http.MethodGet, "/actors/search/"+url.PathEscape(query), nil, nil, &actors); err != nil {
		return nil, fmt.Errorf("failed to search actors: %w", err)
	}
	return actors, nil
}

// Customers retrieves one page of the customer listing. An empty search is
// omitted from the query string.
func (c *Client) Customers(ctx context.Context, page, limit int, search string) (*CustomerPage, error) {
	params := pageParams(page, limit)
	setIfPresent(params, "search", search)

	var resp CustomerPage
	if err := c.do(ctx, http.MethodGet, "/customers", params, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get customers page %d: %w", page, err)
	}

	c.logger.Debug().
		Int("page", resp.Pagination.CurrentPage).
		Int("count", len(resp.Customers)).
		Int("total_pages", resp.Pagination.TotalPages).
		Msg("Retrieved customers page")

	return &resp, nil
}

// SearchCustomers searches customers by id and/or name
func (c *Client) SearchCustomers(ctx context.Context, filters CustomerFilters) ([]Customer, error) {
	params := url.Values{}
	setIfPresent(params, "customerId", filters.CustomerID)
	setIfPresent(params, "name", filters.Name)

	var customers []Customer
	if err := c.do(ctx, http.MethodGet, "/customers/search", params, nil, &customers); err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	return customers, nil
}

// Customer retrieves a customer with their rental history
func (c *Client) Customer(ctx context.Context, id int) (*Customer, error) {
	path, err := idPath("/customers", id, "")
	if err != nil {
		return nil, err
	}
	var customer Customer
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &customer); err != nil {
		return nil, fmt.Errorf("failed to get customer %d: %w", id, err)
	}
	return &customer, nil
}

// CreateCustomer creates a customer
func (c *Client) CreateCustomer(ctx context.Context, nc NewCustomer) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, http.MethodPost, "/customers", nil, nc, &customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	c.logger.Info().Int("customer_id", customer.ID).Msg("Created customer")
	return &customer, nil
}

// UpdateCustomer updates a customer
func (c *Client) UpdateCustomer(ctx context.Context, id int, u CustomerUpdate) (*Customer, error) {
	path, err := idPath("/customers", id, "")
	if err != nil {
		return nil, err
	}
	var customer Customer
	if err := c.do(ctx, http.MethodPut, path, nil, u, &customer); err != nil {
		return nil, fmt.Errorf("failed to update customer %d: %w", id, err)
	}

	c.logger.Info().Int("customer_id", id).Msg("Updated customer")
	return &customer, nil
}

// DeleteCustomer deletes a customer
func (c *Client) DeleteCustomer(ctx context.Context, id int) (*Ack, error) {
	path, err := idPath("/customers", id, "")
	if err != nil {
		return nil, err
	}
	var ack Ack
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &ack); err != nil {
		return nil, fmt.Errorf("failed to delete customer %d: %w", id, err)
	}

	c.logger.Info().Int("customer_id", id).Msg("Deleted customer")
	return &ack, nil
}

// ReturnRental marks one of a customer's rentals as returned
func (c *Client) ReturnRental(ctx context.Context, customerID, rentalID int) (*Ack, error) {
	path, err := idPath("/customers", customerID, "/return-rental")
	if err != nil {
		return nil, err
	}
	if rentalID <= 0 || rentalID > maxID {
		return nil, fmt.Errorf("%w: rental %d", ErrInvalidID, rentalID)
	}
	var ack Ack
	if err := c.do(ctx, http.MethodPost, path, nil, returnRequest{RentalID: rentalID}, &ack); err != nil {
		return nil, fmt.Errorf("failed to return rental %d: %w", rentalID, err)
	}

	c.logger.Info().
		Int("customer_id", customerID).
		Int("rental_id", rentalID).
		Msg("Returned rental")
	return &ack, nil
}
