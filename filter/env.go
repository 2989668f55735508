package filter

import (
	"slices"
	"strings"

	"github.com/s0up4200/filmdesk/sakila"
)

// FilmEnv exposes a film to filter expressions
func FilmEnv(f sakila.Film) Env {
	features := f.Features()
	lowerFeatures := make([]string, len(features))
	for i, feat := range features {
		lowerFeatures[i] = strings.ToLower(feat)
	}

	return Env{
		"ID":          f.ID,
		"Title":       f.Title,
		"Year":        f.ReleaseYear,
		"Rating":      f.Rating,
		"Genre":       f.CategoryName,
		"Length":      f.Length,
		"Rate":        f.RentalRate.Float(),
		"Cost":        f.ReplacementCost.Float(),
		"Duration":    f.RentalDuration,
		"Features":    features,
		"RentalCount": f.RentalCount,
		"Available":   f.AvailableCopies(),
		"hasFeature": func(feature string) bool {
			return slices.Contains(lowerFeatures, strings.ToLower(feature))
		},
	}
}

// CustomerEnv exposes a customer to filter expressions
func CustomerEnv(c sakila.Customer) Env {
	return Env{
		"ID":        c.ID,
		"Name":      c.FullName(),
		"FirstName": c.FirstName,
		"LastName":  c.LastName,
		"Email":     c.Email,
		"Active":    bool(c.Active),
		"Store":     c.StoreID,
		"City":      c.City,
		"Country":   c.Country,
		"Phone":     c.Phone,
	}
}

// ActorEnv exposes an actor to filter expressions
func ActorEnv(a sakila.Actor) Env {
	return Env{
		"ID":          a.ID,
		"Name":        a.FullName(),
		"FirstName":   a.FirstName,
		"LastName":    a.LastName,
		"FilmCount":   a.FilmCount,
		"RentalCount": a.RentalCount,
	}
}
