package sakilatest

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/s0up4200/filmdesk/sakila"
)

const topN = 5

func sortRanked(films []sakila.RankedFilm) {
	sort.SliceStable(films, func(i, j int) bool {
		if films[i].RentalCount == films[j].RentalCount {
			return films[i].FilmID < films[j].FilmID
		}
		return films[i].RentalCount > films[j].RentalCount
	})
}

func (s *Server) listFilms(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, limit := paging(r)
	ids := sortedKeys(s.films)
	p, start, end := paginate(len(ids), page, limit)
	p.TotalFilms = len(ids)

	films := make([]sakila.Film, 0, end-start)
	for _, id := range ids[start:end] {
		films = append(films, s.filmSummary(id))
	}
	writeJSON(w, http.StatusOK, sakila.FilmPage{Films: films, Pagination: p})
}

func (s *Server) topRentedFilms(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ranked := s.rank(sortedKeys(s.films), topN)
	films := make([]sakila.Film, 0, len(ranked))
	for _, rf := range ranked {
		films = append(films, s.filmSummary(rf.FilmID))
	}
	writeJSON(w, http.StatusOK, films)
}

func (s *Server) searchFilms(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	query, title, actor, genre := q.Get("q"), q.Get("title"), q.Get("actorName"), q.Get("genre")

	films := make([]sakila.Film, 0)
	for _, id := range sortedKeys(s.films) {
		f := s.films[id]
		var actorNames []string
		for _, aid := range s.filmActors[id] {
			actorNames = append(actorNames, s.actors[aid].FullName())
		}
		names := strings.Join(actorNames, "|")

		match := true
		if query != "" {
			match = contains(f.Title, query) || contains(names, query) || contains(f.CategoryName, query)
		} else {
			if title != "" && !contains(f.Title, title) {
				match = false
			}
			if actor != "" && !contains(names, actor) {
				match = false
			}
			if genre != "" && !strings.EqualFold(f.CategoryName, strings.TrimSpace(genre)) {
				match = false
			}
		}
		if match {
			films = append(films, s.filmSummary(id))
		}
	}
	writeJSON(w, http.StatusOK, films)
}

func (s *Server) getFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid film id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.films[id]; !exists {
		writeError(w, http.StatusNotFound, "Film not found")
		return
	}
	writeJSON(w, http.StatusOK, s.filmWithRelations(id))
}

func (s *Server) rentFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid film id")
		return
	}
	var req sakila.RentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	film, exists := s.films[id]
	if !exists {
		writeError(w, http.StatusNotFound, "Film not found")
		return
	}
	customer, exists := s.customers[req.CustomerID]
	if !exists {
		writeError(w, http.StatusNotFound, "Customer not found")
		return
	}

	for i := range film.Inventory {
		inv := &film.Inventory[i]
		if inv.StoreID != req.StoreID {
			continue
		}
		if inv.AvailableCopies <= 0 {
			break
		}
		inv.AvailableCopies--
		film.RentalCount++
		customer.RentalHistory = append([]sakila.Rental{{
			ID:           s.nextRental,
			FilmID:       film.ID,
			Title:        film.Title,
			CategoryName: film.CategoryName,
			RentalDate:   s.now().Format("2006-01-02 15:04:05"),
		}}, customer.RentalHistory...)
		s.nextRental++
		writeJSON(w, http.StatusCreated, sakila.Ack{Message: "Film rented successfully"})
		return
	}
	writeError(w, http.StatusBadRequest, "No copies available at this store")
}

func (s *Server) topActors(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	actors := make([]sakila.Actor, 0, len(s.actors))
	for _, id := range sortedKeys(s.actors) {
		a := *s.actors[id]
		films := s.actorFilms(id)
		a.FilmCount = len(films)
		for _, fid := range films {
			a.RentalCount += s.films[fid].RentalCount
		}
		actors = append(actors, a)
	}
	sort.SliceStable(actors, func(i, j int) bool {
		return actors[i].RentalCount > actors[j].RentalCount
	})
	writeJSON(w, http.StatusOK, actors[:min(topN, len(actors))])
}

func (s *Server) getActor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid actor id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	actor, exists := s.actors[id]
	if !exists {
		writeError(w, http.StatusNotFound, "Actor not found")
		return
	}
	out := *actor
	films := s.actorFilms(id)
	for _, fid := range films {
		out.Films = append(out.Films, s.filmSummary(fid))
	}
	out.FilmCount = len(films)
	out.TopFilms = s.rank(films, topN)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) actorTopRentedFilms(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid actor id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.actors[id]; !exists {
		writeError(w, http.StatusNotFound, "Actor not found")
		return
	}
	writeJSON(w, http.StatusOK, s.rank(s.actorFilms(id), topN))
}

func (s *Server) searchActors(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")

	s.mu.Lock()
	defer s.mu.Unlock()

	actors := make([]sakila.Actor, 0)
	for _, id := range sortedKeys(s.actors) {
		if a := s.actors[id]; contains(a.FullName(), query) {
			actors = append(actors, *a)
		}
	}
	writeJSON(w, http.StatusOK, actors)
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, limit := paging(r)
	search := r.URL.Query().Get("search")

	var ids []int
	for _, id := range sortedKeys(s.customers) {
		c := s.customers[id]
		if search == "" || strconv.Itoa(id) == strings.TrimSpace(search) || contains(c.FullName(), search) {
			ids = append(ids, id)
		}
	}
	p, start, end := paginate(len(ids), page, limit)
	p.TotalCustomers = len(ids)

	customers := make([]sakila.Customer, 0, end-start)
	for _, id := range ids[start:end] {
		customers = append(customers, copyCustomer(s.customers[id], false))
	}
	writeJSON(w, http.StatusOK, sakila.CustomerPage{Customers: customers, Pagination: p, Search: search})
}

func (s *Server) searchCustomers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	customerID, name := strings.TrimSpace(q.Get("customerId")), q.Get("name")

	customers := make([]sakila.Customer, 0)
	for _, id := range sortedKeys(s.customers) {
		c := s.customers[id]
		if customerID != "" && strconv.Itoa(id) != customerID {
			continue
		}
		if name != "" && !contains(c.FullName(), name) {
			continue
		}
		customers = append(customers, copyCustomer(c, false))
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.customers[id]
	if !exists {
		writeError(w, http.StatusNotFound, "Customer not found")
		return
	}
	writeJSON(w, http.StatusOK, copyCustomer(c, true))
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req sakila.NewCustomer
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "first_name, last_name and email are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store := req.StoreID
	if store == 0 {
		store = 1
	}
	c := &sakila.Customer{
		ID:         s.nextCustomer,
		StoreID:    store,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Active:     true,
		CreateDate: s.now().Format("2006-01-02 15:04:05"),
	}
	s.customers[c.ID] = c
	s.nextCustomer++
	writeJSON(w, http.StatusCreated, copyCustomer(c, false))
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	var req sakila.CustomerUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.customers[id]
	if !exists {
		writeError(w, http.StatusNotFound, "Customer not found")
		return
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.FirstName, req.FirstName)
	set(&c.LastName, req.LastName)
	set(&c.Email, req.Email)
	set(&c.Address, req.Address)
	set(&c.District, req.District)
	set(&c.City, req.City)
	set(&c.Country, req.Country)
	set(&c.Phone, req.Phone)
	if req.Active != nil {
		c.Active = *req.Active
	}
	writeJSON(w, http.StatusOK, copyCustomer(c, false))
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[id]; !exists {
		writeError(w, http.StatusNotFound, "Customer not found")
		return
	}
	delete(s.customers, id)
	writeJSON(w, http.StatusOK, sakila.Ack{Message: "Customer deleted successfully"})
}

func (s *Server) returnRental(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	var req struct {
		RentalID int `json:"rental_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.customers[id]
	if !exists {
		writeError(w, http.StatusNotFound, "Customer not found")
		return
	}
	for i := range c.RentalHistory {
		rental := &c.RentalHistory[i]
		if rental.ID != req.RentalID || rental.ReturnDate != nil {
			continue
		}
		ret := s.now().Format("2006-01-02 15:04:05")
		rental.ReturnDate = &ret
		if film, ok := s.films[rental.FilmID]; ok && len(film.Inventory) > 0 {
			film.Inventory[0].AvailableCopies++
		}
		writeJSON(w, http.StatusOK, sakila.Ack{Message: "Rental returned successfully"})
		return
	}
	writeError(w, http.StatusNotFound, "Active rental not found")
}
