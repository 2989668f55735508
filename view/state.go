package view

// Status is the load state of a view. It is a closed set of variants, so a
// view is never loading and failed at the same time.
type Status interface {
	status()
}

// Idle is the state before the first load
type Idle struct{}

// Loading means a fetch is in flight. Previously fetched data, if any, is
// still displayed.
type Loading struct{}

// Ready means the last fetch succeeded, or a refresh failed and the previous
// data is retained alongside a banner.
type Ready struct{}

// Failed means the initial fetch failed and there is nothing to display
type Failed struct {
	Err error
}

// Missing means the requested entity does not exist
type Missing struct {
	Err *NotFoundError
}

func (Idle) status()    {}
func (Loading) status() {}
func (Ready) status()   {}
func (Failed) status()  {}
func (Missing) status() {}

// Mode selects which row set a list view displays
type Mode int

const (
	// ModeBrowse shows the paginated, unfiltered listing
	ModeBrowse Mode = iota
	// ModeSearch shows filtered search results
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "browse"
}

// Confirmer asks the user a blocking yes/no question
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// Navigator moves the client to another route
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(route string)

// Navigate implements Navigator
func (f NavigatorFunc) Navigate(route string) {
	f(route)
}
