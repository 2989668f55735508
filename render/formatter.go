package render

import (
	"fmt"
	"strings"

	"github.com/s0up4200/filmdesk/sakila"
	"github.com/s0up4200/filmdesk/view"
)

// FormatOptions contains options for formatting output
type FormatOptions struct {
	ShowDetails bool
}

// ConsoleFormatter provides console output formatting for view snapshots
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// branch returns the tree prefix and continuation indent of a list item
func branch(isLast bool) (prefix, indent string) {
	if isLast {
		return "╰── ", "    "
	}
	return "├── ", "│   "
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// status renders the non-ready states shared by every page. It returns
// false when the page content should be rendered.
func status(sb *strings.Builder, s view.Status, noun string) bool {
	switch st := s.(type) {
	case view.Idle:
		return true
	case view.Loading:
		fmt.Fprintf(sb, "Loading %s...\n", noun)
		return true
	case view.Failed:
		fmt.Fprintf(sb, "Error: %v\n", st.Err)
		return true
	case view.Missing:
		fmt.Fprintf(sb, "%s not found.\n", capitalize(st.Err.Resource))
		return true
	default:
		return false
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func messages(sb *strings.Builder, notice, banner string) {
	if notice != "" {
		fmt.Fprintf(sb, "✔ %s\n", notice)
	}
	if banner != "" {
		fmt.Fprintf(sb, "✖ %s\n", banner)
	}
}

// FormatLanding formats the landing page
func (f *ConsoleFormatter) FormatLanding(snap view.LandingSnapshot) string {
	var sb strings.Builder
	if status(&sb, snap.Status, "rankings") {
		return sb.String()
	}

	fmt.Fprintf(&sb, "\nTop rented films (%d):\n\n", len(snap.Films))
	for i, film := range snap.Films {
		prefix, _ := branch(i == len(snap.Films)-1)
		fmt.Fprintf(&sb, "%s%s [%s] - %d %s\n", prefix, film.Title, film.CategoryName, film.RentalCount, plural(film.RentalCount, "rental"))
	}

	fmt.Fprintf(&sb, "\nTop actors (%d):\n\n", len(snap.Actors))
	for i, actor := range snap.Actors {
		prefix, _ := branch(i == len(snap.Actors)-1)
		fmt.Fprintf(&sb, "%s%s - %d %s\n", prefix, actor.FullName(), actor.RentalCount, plural(actor.RentalCount, "rental"))
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatFilmList formats the film list
func (f *ConsoleFormatter) FormatFilmList(snap view.FilmsSnapshot, options FormatOptions) string {
	var sb strings.Builder
	if status(&sb, snap.Status, "films") && len(snap.Rows) == 0 {
		return sb.String()
	}
	messages(&sb, snap.Notice, snap.Banner)

	if len(snap.Rows) == 0 {
		sb.WriteString("No films found\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "\n%s (%d):\n\n", plural(len(snap.Rows), "Film"), len(snap.Rows))
	for i, film := range snap.Rows {
		isLast := i == len(snap.Rows)-1
		prefix, indent := branch(isLast)
		fmt.Fprintf(&sb, "%s#%d %s (%d)\n", prefix, film.ID, film.Title, film.ReleaseYear)
		if options.ShowDetails {
			fmt.Fprintf(&sb, "%s%s | %s | %d min | $%s\n", indent, film.CategoryName, film.Rating, film.Length, film.RentalRate)
		}
		if !isLast && options.ShowDetails {
			sb.WriteString("│\n")
		}
	}

	f.footer(&sb, snap.Mode, snap.Page, snap.TotalPages, snap.InputError)
	return sb.String()
}

func (f *ConsoleFormatter) footer(sb *strings.Builder, mode view.Mode, page, totalPages int, inputErr string) {
	sb.WriteString("\n")
	if mode == view.ModeBrowse && totalPages > 0 {
		fmt.Fprintf(sb, "Page %d of %d\n", page, totalPages)
	}
	if mode == view.ModeSearch {
		sb.WriteString("Showing search results\n")
	}
	if inputErr != "" {
		fmt.Fprintf(sb, "✖ %s\n", inputErr)
	}
}

// FormatFilm formats the film page and the rent overlay when open
func (f *ConsoleFormatter) FormatFilm(snap view.FilmDetailSnapshot) string {
	var sb strings.Builder
	if snap.Film == nil {
		status(&sb, snap.Status, "film")
		return sb.String()
	}
	messages(&sb, snap.Notice, snap.Banner)

	film := snap.Film
	fmt.Fprintf(&sb, "\n%s (%d)\n", film.Title, film.ReleaseYear)
	fmt.Fprintf(&sb, "%s\n\n", film.Description)
	fmt.Fprintf(&sb, "├── Genre: %s | Rating: %s | Length: %d min\n", film.CategoryName, film.Rating, film.Length)
	fmt.Fprintf(&sb, "├── Rental: $%s for %d days | Replacement: $%s\n", film.RentalRate, film.RentalDuration, film.ReplacementCost)
	if features := film.Features(); len(features) > 0 {
		fmt.Fprintf(&sb, "├── Features: %s\n", strings.Join(features, ", "))
	}

	names := make([]string, 0, len(film.Actors))
	for i := range film.Actors {
		names = append(names, fmt.Sprintf("%s (#%d)", film.Actors[i].FullName(), film.Actors[i].ID))
	}
	if len(names) > 0 {
		fmt.Fprintf(&sb, "├── Cast: %s\n", strings.Join(names, ", "))
	}

	fmt.Fprintf(&sb, "╰── Available copies: %d\n", film.AvailableCopies())
	for i, inv := range film.Inventory {
		prefix, _ := branch(i == len(film.Inventory)-1)
		fmt.Fprintf(&sb, "    %sStore %d: %d available\n", prefix, inv.StoreID, inv.AvailableCopies)
	}

	if snap.Rental != nil {
		f.formatRental(&sb, *snap.Rental)
	}
	sb.WriteString("\n")
	return sb.String()
}

func (f *ConsoleFormatter) formatRental(sb *strings.Builder, form view.RentalForm) {
	fmt.Fprintf(sb, "\nRent this film from store %d\n", form.StoreID)
	switch {
	case form.LookingUp:
		sb.WriteString("Looking up customer...\n")
	case form.Preview != nil:
		fmt.Fprintf(sb, "Customer: %s (%s)\n", form.Preview.FullName(), form.Preview.Email)
	case strings.TrimSpace(form.CustomerInput) != "":
		fmt.Fprintf(sb, "No customer with ID %q\n", form.CustomerInput)
	}
	if form.Error != "" {
		fmt.Fprintf(sb, "✖ %s\n", form.Error)
	}
}

// FormatActor formats the actor page
func (f *ConsoleFormatter) FormatActor(snap view.ActorDetailSnapshot) string {
	var sb strings.Builder
	if snap.Actor == nil {
		status(&sb, snap.Status, "actor")
		return sb.String()
	}

	actor := snap.Actor
	fmt.Fprintf(&sb, "\n%s\n\n", actor.FullName())

	fmt.Fprintf(&sb, "Most rented (%d):\n", len(snap.TopFilms))
	for i, film := range snap.TopFilms {
		prefix, _ := branch(i == len(snap.TopFilms)-1)
		fmt.Fprintf(&sb, "%s%s - %d %s\n", prefix, film.Title, film.RentalCount, plural(film.RentalCount, "rental"))
	}

	fmt.Fprintf(&sb, "\nFilmography (%d):\n", len(actor.Films))
	for i, film := range actor.Films {
		prefix, _ := branch(i == len(actor.Films)-1)
		fmt.Fprintf(&sb, "%s#%d %s (%d) [%s]\n", prefix, film.ID, film.Title, film.ReleaseYear, film.CategoryName)
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatActorResults formats actor search results
func (f *ConsoleFormatter) FormatActorResults(snap view.ActorSearchSnapshot, actors []sakila.Actor) string {
	var sb strings.Builder
	if status(&sb, snap.Status, "actors") {
		return sb.String()
	}
	if len(actors) == 0 {
		return fmt.Sprintf("No actors matching %q\n", snap.Query)
	}

	fmt.Fprintf(&sb, "\n%s (%d):\n\n", plural(len(actors), "Actor"), len(actors))
	for i, actor := range actors {
		prefix, _ := branch(i == len(actors)-1)
		fmt.Fprintf(&sb, "%s#%d %s\n", prefix, actor.ID, actor.FullName())
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatCustomerList formats the customer list and the add modal when open
func (f *ConsoleFormatter) FormatCustomerList(snap view.CustomersSnapshot, options FormatOptions) string {
	var sb strings.Builder
	if status(&sb, snap.Status, "customers") && len(snap.Rows) == 0 {
		return sb.String()
	}
	messages(&sb, snap.Notice, snap.Banner)

	if len(snap.Rows) == 0 {
		sb.WriteString("No customers found\n")
	} else {
		fmt.Fprintf(&sb, "\n%s (%d)", plural(len(snap.Rows), "Customer"), len(snap.Rows))
		if snap.Sort.Direction != view.SortNone {
			fmt.Fprintf(&sb, " sorted by %s %s", snap.Sort.Key, snap.Sort.Direction)
		}
		sb.WriteString(":\n\n")

		for i, c := range snap.Rows {
			prefix, indent := branch(i == len(snap.Rows)-1)
			state := "Active"
			if !c.Active {
				state = "Inactive"
			}
			fmt.Fprintf(&sb, "%s#%d %s <%s> [%s]\n", prefix, c.ID, c.FullName(), c.Email, state)
			if options.ShowDetails {
				fmt.Fprintf(&sb, "%sStore %d | %s, %s | %s\n", indent, c.StoreID, c.City, c.Country, c.Phone)
			}
		}
	}

	f.footer(&sb, snap.Mode, snap.Page, snap.TotalPages, snap.InputError)

	if snap.Add != nil {
		sb.WriteString("\nAdd customer\n")
		if snap.Add.Submitting {
			sb.WriteString("Saving...\n")
		}
		if snap.Add.Error != "" {
			fmt.Fprintf(&sb, "✖ %s\n", snap.Add.Error)
		}
	}
	return sb.String()
}

// FormatCustomer formats the customer page
func (f *ConsoleFormatter) FormatCustomer(snap view.CustomerDetailSnapshot) string {
	var sb strings.Builder
	if snap.Customer == nil {
		status(&sb, snap.Status, "customer")
		messages(&sb, snap.Notice, snap.Banner)
		return sb.String()
	}
	messages(&sb, snap.Notice, snap.Banner)
	if snap.Deleted {
		return sb.String()
	}

	c := snap.Customer
	state := "Active"
	if !c.Active {
		state = "Inactive"
	}
	fmt.Fprintf(&sb, "\n%s (#%d) [%s]\n\n", c.FullName(), c.ID, state)
	fmt.Fprintf(&sb, "├── Email: %s\n", c.Email)
	fmt.Fprintf(&sb, "├── Phone: %s\n", c.Phone)
	fmt.Fprintf(&sb, "├── Address: %s, %s, %s, %s\n", c.Address, c.District, c.City, c.Country)
	fmt.Fprintf(&sb, "╰── Store %d, member since %s\n", c.StoreID, c.CreateDate)

	fmt.Fprintf(&sb, "\nActive rentals (%d):\n", len(snap.Active))
	for i, r := range snap.Active {
		prefix, _ := branch(i == len(snap.Active)-1)
		fmt.Fprintf(&sb, "%s#%d %s [%s] rented %s\n", prefix, r.ID, r.Title, r.CategoryName, r.RentalDate)
	}

	fmt.Fprintf(&sb, "\nRental history (showing %d of %d):\n", len(snap.History), snap.HistoryTotal)
	for i, r := range snap.History {
		prefix, _ := branch(i == len(snap.History)-1)
		fmt.Fprintf(&sb, "%s%s [%s] %s - %s\n", prefix, r.Title, r.CategoryName, r.RentalDate, *r.ReturnDate)
	}

	if snap.Edit != nil && snap.Edit.Error != "" {
		fmt.Fprintf(&sb, "\n✖ %s\n", snap.Edit.Error)
	}
	sb.WriteString("\n")
	return sb.String()
}
