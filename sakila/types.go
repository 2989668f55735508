package sakila

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Decimal is a fixed-point amount as served by the backend. MySQL DECIMAL
// columns arrive as JSON strings ("4.99") or numbers depending on the driver.
type Decimal string

// UnmarshalJSON accepts both quoted and bare numeric values
func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decimal: %w", err)
	}
	*d = Decimal(n.String())
	return nil
}

// Float returns the amount as a float64, or 0 if it cannot be parsed
func (d Decimal) Float() float64 {
	f, err := strconv.ParseFloat(string(d), 64)
	if err != nil {
		return 0
	}
	return f
}

// Flag is a boolean stored as 0/1 by the backend.
type Flag bool

// UnmarshalJSON accepts 0/1, "0"/"1" and true/false
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(bytes.TrimSpace(data)), `"`) {
	case "1", "true":
		*f = true
	case "0", "false", "null", "":
		*f = false
	default:
		return fmt.Errorf("flag: unexpected value %s", data)
	}
	return nil
}

// MarshalJSON writes the flag as 0 or 1
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// Inventory is the per-store availability of a film
type Inventory struct {
	StoreID         int `json:"store_id"`
	AvailableCopies int `json:"available_copies"`
}

// Film represents a film record
type Film struct {
	ID              int         `json:"film_id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	ReleaseYear     int         `json:"release_year"`
	Rating          string      `json:"rating"`
	CategoryName    string      `json:"category_name"`
	Length          int         `json:"length"`
	RentalRate      Decimal     `json:"rental_rate"`
	ReplacementCost Decimal     `json:"replacement_cost"`
	RentalDuration  int         `json:"rental_duration"`
	SpecialFeatures string      `json:"special_features"`
	RentalCount     int         `json:"rental_count,omitempty"`
	Actors          []Actor     `json:"actors,omitempty"`
	Inventory       []Inventory `json:"inventory,omitempty"`
}

// Features splits the comma-delimited special features
func (f *Film) Features() []string {
	var out []string
	for _, part := range strings.Split(f.SpecialFeatures, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// AvailableCopies sums available copies across all stores
func (f *Film) AvailableCopies() int {
	var n int
	for _, inv := range f.Inventory {
		n += inv.AvailableCopies
	}
	return n
}

// StoreWithStock returns the first store holding an available copy
func (f *Film) StoreWithStock() (int, bool) {
	for _, inv := range f.Inventory {
		if inv.AvailableCopies > 0 {
			return inv.StoreID, true
		}
	}
	return 0, false
}

// RankedFilm is an entry of a rental-count ranking
type RankedFilm struct {
	FilmID       int    `json:"film_id"`
	Title        string `json:"title"`
	CategoryName string `json:"category_name"`
	RentalCount  int    `json:"rental_count"`
}

// Actor represents an actor record
type Actor struct {
	ID             int          `json:"actor_id"`
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	FilmCount      int          `json:"film_count,omitempty"`
	RentalCount    int          `json:"rental_count,omitempty"`
	Films          []Film       `json:"films,omitempty"`
	TopFilms       []RankedFilm `json:"top_films,omitempty"`
	TopRentedFilms []RankedFilm `json:"top_rented_films,omitempty"`
}

// FullName returns "First Last"
func (a *Actor) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// RentalStatus is derived from a rental's return date
type RentalStatus string

const (
	// StatusRented marks a rental that has not been returned
	StatusRented RentalStatus = "Rented"
	// StatusReturned marks a returned rental
	StatusReturned RentalStatus = "Returned"
)

// Rental is an entry of a customer's rental history
type Rental struct {
	ID           int     `json:"rental_id"`
	FilmID       int     `json:"film_id"`
	Title        string  `json:"title"`
	CategoryName string  `json:"category_name"`
	RentalDate   string  `json:"rental_date"`
	ReturnDate   *string `json:"return_date"`
}

// Status derives the rental status. The backend's own status field is ignored.
func (r *Rental) Status() RentalStatus {
	if r.ReturnDate == nil {
		return StatusRented
	}
	return StatusReturned
}

// Customer represents a customer record
type Customer struct {
	ID            int      `json:"customer_id"`
	StoreID       int      `json:"store_id"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	District      string   `json:"district"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	Phone         string   `json:"phone"`
	Active        Flag     `json:"active"`
	CreateDate    string   `json:"create_date"`
	RentalHistory []Rental `json:"rental_history,omitempty"`
}

// FullName returns "First Last"
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// NewCustomer is the body of a create request
type NewCustomer struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	StoreID   int    `json:"store_id,omitempty" validate:"omitempty,gt=0"`
}

// CustomerUpdate is the body of an update request. Zero-valued fields are
// left out of the payload.
type CustomerUpdate struct {
	FirstName string `json:"first_name,omitempty" validate:"required"`
	LastName  string `json:"last_name,omitempty" validate:"required"`
	Email     string `json:"email,omitempty" validate:"required,email"`
	Address   string `json:"address,omitempty" validate:"required"`
	District  string `json:"district,omitempty" validate:"required"`
	City      string `json:"city,omitempty" validate:"required"`
	Country   string `json:"country,omitempty" validate:"required"`
	Phone     string `json:"phone,omitempty" validate:"required"`
	Active    *Flag  `json:"active,omitempty"`
}

// UpdateFrom pre-populates an update form from a fetched customer
func UpdateFrom(c *Customer) CustomerUpdate {
	active := c.Active
	return CustomerUpdate{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Address:   c.Address,
		District:  c.District,
		City:      c.City,
		Country:   c.Country,
		Phone:     c.Phone,
		Active:    &active,
	}
}

// Pagination is the envelope that accompanies every list response
type Pagination struct {
	CurrentPage    int  `json:"currentPage"`
	TotalPages     int  `json:"totalPages"`
	TotalCustomers int  `json:"totalCustomers,omitempty"`
	TotalFilms     int  `json:"totalFilms,omitempty"`
	HasPrev        bool `json:"hasPrev"`
	HasNext        bool `json:"hasNext"`
}

// Total returns whichever total count the envelope carries
func (p Pagination) Total() int {
	if p.TotalCustomers > 0 {
		return p.TotalCustomers
	}
	return p.TotalFilms
}

// FilmPage is a page of the film listing
type FilmPage struct {
	Films      []Film     `json:"films"`
	Pagination Pagination `json:"pagination"`
}

// CustomerPage is a page of the customer listing
type CustomerPage struct {
	Customers  []Customer `json:"customers"`
	Pagination Pagination `json:"pagination"`
	Search     string     `json:"search,omitempty"`
}

// FilmFilters are the recognised film search keys. Query maps to the
// free-text q parameter and takes precedence over the structured fields.
type FilmFilters struct {
	Query     string
	Title     string
	ActorName string
	Genre     string
}

// IsEmpty reports whether every field is empty or whitespace
func (f FilmFilters) IsEmpty() bool {
	return blank(f.Query) && blank(f.Title) && blank(f.ActorName) && blank(f.Genre)
}

// CustomerFilters are the recognised customer search keys
type CustomerFilters struct {
	CustomerID string
	Name       string
}

// IsEmpty reports whether every field is empty or whitespace
func (f CustomerFilters) IsEmpty() bool {
	return blank(f.CustomerID) && blank(f.Name)
}

// Ack is the acknowledgement body of mutating calls
type Ack struct {
	Message string `json:"message,omitempty"`
}

// RentRequest is the body of a rent call
type RentRequest struct {
	CustomerID int `json:"customer_id"`
	StoreID    int `json:"store_id"`
}

type returnRequest struct {
	RentalID int `json:"rental_id"`
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
