package view

import (
	"fmt"
	"strconv"
	"strings"
)

// Routes of the client
const (
	RouteLanding   = "/"
	RouteFilms     = "/films"
	RouteCustomers = "/customers"
)

// Page identifies the controller a route is served by
type Page int

const (
	PageLanding Page = iota
	PageFilms
	PageFilm
	PageActor
	PageCustomers
	PageCustomer
)

// Route is a parsed client route
type Route struct {
	Page Page
	ID   int
}

// FilmRoute returns the detail route of a film
func FilmRoute(id int) string {
	return fmt.Sprintf("/films/%d", id)
}

// ActorRoute returns the detail route of an actor
func ActorRoute(id int) string {
	return fmt.Sprintf("/actors/%d", id)
}

// CustomerRoute returns the detail route of a customer
func CustomerRoute(id int) string {
	return fmt.Sprintf("/customers/%d", id)
}

// ParseRoute resolves a path to a page
func ParseRoute(path string) (Route, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return Route{Page: PageLanding}, nil
	}

	parts := strings.Split(trimmed, "/")
	switch {
	case len(parts) == 1 && parts[0] == "films":
		return Route{Page: PageFilms}, nil
	case len(parts) == 1 && parts[0] == "customers":
		return Route{Page: PageCustomers}, nil
	case len(parts) == 2:
		id, err := strconv.Atoi(parts[1])
		if err != nil || id <= 0 {
			return Route{}, fmt.Errorf("invalid id in route %q", path)
		}
		switch parts[0] {
		case "films":
			return Route{Page: PageFilm, ID: id}, nil
		case "actors":
			return Route{Page: PageActor, ID: id}, nil
		case "customers":
			return Route{Page: PageCustomer, ID: id}, nil
		}
	}
	return Route{}, fmt.Errorf("unknown route %q", path)
}
