package sakila

import (
	"context"
)

// FilmsAPI covers the /films resource group
type FilmsAPI interface {
	TopRentedFilms(ctx context.Context) ([]Film, error)
	Film(ctx context.Context, id int) (*Film, error)
	SearchFilms(ctx context.Context, filters FilmFilters) ([]Film, error)
	Films(ctx context.Context, page, limit int) (*FilmPage, error)
	RentFilm(ctx context.Context, filmID int, req RentRequest) (*Ack, error)
}

// ActorsAPI covers the /actors resource group
type ActorsAPI interface {
	TopActors(ctx context.Context) ([]Actor, error)
	Actor(ctx context.Context, id int) (*Actor, error)
	ActorTopRentedFilms(ctx context.Context, id int) ([]RankedFilm, error)
	SearchActors(ctx context.Context, query string) ([]Actor, error)
}

// CustomersAPI covers the /customers resource group
type CustomersAPI interface {
	Customers(ctx context.Context, page, limit int, search string) (*CustomerPage, error)
	SearchCustomers(ctx context.Context, filters CustomerFilters) ([]Customer, error)
	Customer(ctx context.Context, id int) (*Customer, error)
	CreateCustomer(ctx context.Context, c NewCustomer) (*Customer, error)
	UpdateCustomer(ctx context.Context, id int, u CustomerUpdate) (*Customer, error)
	DeleteCustomer(ctx context.Context, id int) (*Ack, error)
	ReturnRental(ctx context.Context, customerID, rentalID int) (*Ack, error)
}

// API is the full backend surface consumed by the view controllers
type API interface {
	FilmsAPI
	ActorsAPI
	CustomersAPI
}

var _ API = (*Client)(nil)
