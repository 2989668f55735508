package sakilatest

import (
	"fmt"

	"github.com/s0up4200/filmdesk/sakila"
)

// Dataset facts tests can rely on
const (
	// CustomerTotal is the number of seeded customers (20 per page gives 3 pages)
	CustomerTotal = 45
	// FilmTotal is the number of seeded films
	FilmTotal = 30
	// InceptionID is the id of the film titled "Inception"
	InceptionID = 7
	// ReturnCustomerID owns rental ReturnRentalID which is still out
	ReturnCustomerID = 8
	// ReturnRentalID is an active rental of ReturnCustomerID
	ReturnRentalID = 302
	// HistoryCustomerID has more returned rentals than the display cap
	HistoryCustomerID = 3
	// HistoryReturned is the number of returned rentals of HistoryCustomerID
	HistoryReturned = 14
)

var firstNames = []string{
	"Mary", "Patricia", "Linda", "Barbara", "Elizabeth", "Jennifer", "Maria", "Susan", "Margaret",
	"Dorothy", "Lisa", "Nancy", "Karen", "Betty", "Helen",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Jones", "Brown", "Davis", "Miller", "Wilson", "Moore",
	"Taylor", "Anderson", "Thomas", "Jackson", "White", "Harris", "Martin",
}

var filmTitles = []string{
	"Academy Dinosaur", "Ace Goldfinger", "Adaptation Holes", "Affair Prejudice", "African Egg",
	"Agent Truman", "Inception", "Airport Pollock", "Alabama Devil", "Aladdin Calendar",
	"Alamo Videotape", "Alaska Phantom", "Ali Forever", "Alice Fantasia", "Alien Center",
	"Alley Evolution", "Alone Trip", "Alter Victory", "Amadeus Holy", "Amelie Hellfighters",
	"American Circus", "Amistad Midsummer", "Analyze Hoosiers", "Anonymous Human", "Anthem Luke",
	"Antitrust Tomatoes", "Anything Savannah", "Apache Divine", "Apocalypse Flamingos", "Apollo Teen",
}

var categories = []string{"Action", "Animation", "Comedy", "Documentary", "Drama", "Horror", "Sci-Fi"}

var ratings = []string{"G", "PG", "PG-13", "R", "NC-17"}

var actorNames = [][2]string{
	{"Penelope", "Guiness"}, {"Nick", "Wahlberg"}, {"Ed", "Chase"}, {"Jennifer", "Davis"},
	{"Johnny", "Lollobrigida"}, {"Bette", "Nicholson"}, {"Grace", "Mostel"}, {"Matthew", "Johansson"},
	{"Joe", "Swank"}, {"Christian", "Gable"},
}

func (s *Server) seed() {
	s.films = make(map[int]*sakila.Film, FilmTotal)
	s.actors = make(map[int]*sakila.Actor, len(actorNames))
	s.filmActors = make(map[int][]int, FilmTotal)
	s.customers = make(map[int]*sakila.Customer, CustomerTotal)

	for i, name := range actorNames {
		id := i + 1
		s.actors[id] = &sakila.Actor{ID: id, FirstName: name[0], LastName: name[1]}
	}

	for i, title := range filmTitles {
		id := i + 1
		s.films[id] = &sakila.Film{
			ID:              id,
			Title:           title,
			Description:     fmt.Sprintf("A gripping tale of %s", title),
			ReleaseYear:     2006,
			Rating:          ratings[i%len(ratings)],
			CategoryName:    categories[i%len(categories)],
			Length:          80 + (i*7)%100,
			RentalRate:      sakila.Decimal([]string{"0.99", "2.99", "4.99"}[i%3]),
			ReplacementCost: sakila.Decimal(fmt.Sprintf("%d.99", 10+i%20)),
			RentalDuration:  3 + i%5,
			SpecialFeatures: "Trailers,Deleted Scenes",
			RentalCount:     (id * 37) % 41,
			Inventory: []sakila.Inventory{
				{StoreID: 1, AvailableCopies: 2 + i%3},
				{StoreID: 2, AvailableCopies: i % 2},
			},
		}
		s.filmActors[id] = []int{i%len(actorNames) + 1, (i+3)%len(actorNames) + 1}
	}

	rentalID := 1000
	for i := range CustomerTotal {
		id := i + 1
		first := firstNames[i%len(firstNames)]
		last := lastNames[i%len(lastNames)]
		c := &sakila.Customer{
			ID:         id,
			StoreID:    1 + i%2,
			FirstName:  first,
			LastName:   last,
			Email:      fmt.Sprintf("%s.%s@sakilacustomer.org", first, last),
			Address:    fmt.Sprintf("%d Main Street", 100+id),
			District:   "Alberta",
			City:       "Lethbridge",
			Country:    "Canada",
			Phone:      fmt.Sprintf("555-%04d", id),
			Active:     sakila.Flag(id%7 != 0),
			CreateDate: "2006-02-14 22:04:36",
		}

		returned := 2
		if id == HistoryCustomerID {
			returned = HistoryReturned
		}
		for k := range returned {
			film := s.films[(id+k)%FilmTotal+1]
			ret := fmt.Sprintf("2005-06-%02d 10:00:00", k%28+1)
			c.RentalHistory = append(c.RentalHistory, sakila.Rental{
				ID:           rentalID,
				FilmID:       film.ID,
				Title:        film.Title,
				CategoryName: film.CategoryName,
				RentalDate:   fmt.Sprintf("2005-05-%02d 10:00:00", k%28+1),
				ReturnDate:   &ret,
			})
			rentalID++
		}
		s.customers[id] = c
	}

	film := s.films[InceptionID]
	s.customers[ReturnCustomerID].RentalHistory = append([]sakila.Rental{{
		ID:           ReturnRentalID,
		FilmID:       film.ID,
		Title:        film.Title,
		CategoryName: film.CategoryName,
		RentalDate:   "2005-07-30 09:00:00",
	}}, s.customers[ReturnCustomerID].RentalHistory...)

	s.nextCustomer = CustomerTotal + 1
	s.nextRental = rentalID
}

func (s *Server) filmWithRelations(id int) sakila.Film {
	f := *s.films[id]
	f.Actors = nil
	for _, aid := range s.filmActors[id] {
		a := *s.actors[aid]
		f.Actors = append(f.Actors, sakila.Actor{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName})
	}
	f.Inventory = append([]sakila.Inventory(nil), f.Inventory...)
	return f
}

func (s *Server) filmSummary(id int) sakila.Film {
	f := *s.films[id]
	f.Actors = nil
	f.Inventory = nil
	return f
}

func (s *Server) actorFilms(actorID int) []int {
	var ids []int
	for _, fid := range sortedKeys(s.filmActors) {
		for _, aid := range s.filmActors[fid] {
			if aid == actorID {
				ids = append(ids, fid)
				break
			}
		}
	}
	return ids
}

func (s *Server) rank(ids []int, limit int) []sakila.RankedFilm {
	out := make([]sakila.RankedFilm, 0, len(ids))
	for _, id := range ids {
		f := s.films[id]
		out = append(out, sakila.RankedFilm{
			FilmID:       f.ID,
			Title:        f.Title,
			CategoryName: f.CategoryName,
			RentalCount:  f.RentalCount,
		})
	}
	sortRanked(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func copyCustomer(c *sakila.Customer, withHistory bool) sakila.Customer {
	out := *c
	out.RentalHistory = nil
	if withHistory {
		out.RentalHistory = make([]sakila.Rental, len(c.RentalHistory))
		copy(out.RentalHistory, c.RentalHistory)
	}
	return out
}
