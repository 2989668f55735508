package view

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/s0up4200/filmdesk/sakila"
)

// Filters is implemented by the search forms of list views
type Filters interface {
	comparable
	IsEmpty() bool
}

// ListSnapshot is the immutable render state of a paginated, searchable list
type ListSnapshot[F Filters, T any] struct {
	Status Status
	Mode   Mode
	// Rows are the rows of the displayed mode only
	Rows []T
	// Filters holds the current search form fields
	Filters F
	// Page and TotalPages describe the browse cursor. They are retained
	// while search results are displayed.
	Page       int
	TotalPages int
	Total      int
	// Banner is the error banner of the page, empty when there is none
	Banner string
	// InputError is the transient page-jump error
	InputError string
	// Notice is the transient success message
	Notice string
}

// HasPrev reports whether the Previous control is enabled
func (s ListSnapshot[F, T]) HasPrev() bool {
	return s.Mode == ModeBrowse && s.Page > 1
}

// HasNext reports whether the Next control is enabled
func (s ListSnapshot[F, T]) HasNext() bool {
	return s.Mode == ModeBrowse && s.Page < s.TotalPages
}

type pageFunc[T any] func(ctx context.Context, page, limit int) ([]T, sakila.Pagination, error)

type searchFunc[F, T any] func(ctx context.Context, filters F) ([]T, error)

// list holds the browse/search state machine shared by the film and
// customer lists. Browse rows and the page cursor survive a search so that
// clearing it restores the page without a refetch.
type list[F Filters, T any] struct {
	lifecycle

	logger   zerolog.Logger
	settings Settings
	noun     string
	fetch    pageFunc[T]
	search   searchFunc[F, T]

	loads      Slot
	searching  bool
	status     Status
	mode       Mode
	loaded     bool
	page       int
	pagination sakila.Pagination
	browseRows []T
	searchRows []T
	filters    F
	banner     string
	inputErr   *Transient
	notice     *Transient
}

func newList[F Filters, T any](noun string, settings Settings, logger zerolog.Logger, fetch pageFunc[T], search searchFunc[F, T]) *list[F, T] {
	l := &list[F, T]{
		logger:   logger,
		settings: settings,
		noun:     noun,
		fetch:    fetch,
		search:   search,
		status:   Idle{},
		page:     1,
		inputErr: NewTransient(settings.MessageTTL),
		notice:   NewTransient(settings.MessageTTL),
	}
	l.init(l.inputErr, l.notice)
	return l
}

// Load fetches the current browse page
func (l *list[F, T]) Load(ctx context.Context) error {
	l.mu.Lock()
	page := l.page
	l.mu.Unlock()
	return l.goTo(ctx, page)
}

// Next fetches the following page
func (l *list[F, T]) Next(ctx context.Context) error {
	page, err := l.step(1)
	if err != nil {
		return err
	}
	return l.goTo(ctx, page)
}

// Prev fetches the preceding page
func (l *list[F, T]) Prev(ctx context.Context) error {
	page, err := l.step(-1)
	if err != nil {
		return err
	}
	return l.goTo(ctx, page)
}

func (l *list[F, T]) step(delta int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, ErrClosed
	}
	if l.mode == ModeSearch {
		return 0, ErrSearchActive
	}
	target := l.page + delta
	if target < 1 || target > l.pagination.TotalPages {
		return 0, ErrControlDisabled
	}
	return target, nil
}

// JumpTo fetches the page typed by the user. Input outside 1..TotalPages
// shows a transient error and leaves the list untouched.
func (l *list[F, T]) JumpTo(ctx context.Context, input string) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if l.mode == ModeSearch {
		l.mu.Unlock()
		return ErrSearchActive
	}
	page, err := ParsePage(input, l.pagination.TotalPages)
	if err != nil {
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			l.inputErr.Show(inputErr.Reason)
		}
		l.mu.Unlock()
		return err
	}
	l.mu.Unlock()
	return l.goTo(ctx, page)
}

func (l *list[F, T]) goTo(ctx context.Context, page int) error {
	l.mu.Lock()
	rctx, done, err := l.enter(ctx, false)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	rctx, ticket := l.loads.Begin(rctx)
	l.searching = false
	l.status = Loading{}
	l.banner = ""
	l.mu.Unlock()

	rows, pagination, err := l.fetch(rctx, page, l.settings.PageSize)

	l.mu.Lock()
	defer l.mu.Unlock()
	done()

	if l.closed {
		return ErrClosed
	}
	if !l.loads.Finish(ticket) {
		return ErrSuperseded
	}

	if err != nil {
		l.logger.Error().Err(err).Int("page", page).Msgf("Failed to load %s", l.noun)
		ferr := &FetchError{Resource: l.noun, Err: err}
		l.fail(ferr, fmt.Sprintf("Failed to load %s. Please try again later.", l.noun))
		return ferr
	}

	if pagination.CurrentPage < 1 {
		pagination.CurrentPage = page
	}
	l.browseRows = rows
	l.pagination = pagination
	l.page = pagination.CurrentPage
	l.loaded = true
	l.status = Ready{}
	return nil
}

// fail records a failed request. Previously loaded rows stay on screen under
// a banner; with nothing loaded yet the whole page fails.
func (l *list[F, T]) fail(err error, banner string) {
	if !l.loaded {
		l.status = Failed{Err: err}
		return
	}
	l.status = Ready{}
	l.banner = banner
}

// Submit applies the search form. Empty filters revert to the browse page
// without a request.
func (l *list[F, T]) Submit(ctx context.Context, filters F) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.filters = filters
	if filters.IsEmpty() {
		if l.mode == ModeSearch || l.searching {
			l.abandonSearch()
		}
		l.mu.Unlock()
		return nil
	}

	rctx, done, err := l.enter(ctx, false)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	rctx, ticket := l.loads.Begin(rctx)
	l.searching = true
	l.status = Loading{}
	l.banner = ""
	l.mu.Unlock()

	rows, err := l.search(rctx, filters)

	l.mu.Lock()
	defer l.mu.Unlock()
	done()

	if l.closed {
		return ErrClosed
	}
	if !l.loads.Finish(ticket) {
		return ErrSuperseded
	}
	l.searching = false

	if err != nil {
		l.logger.Error().Err(err).Msgf("Failed to search %s", l.noun)
		ferr := &FetchError{Resource: l.noun, Err: err}
		l.fail(ferr, fmt.Sprintf("Failed to search %s. Please try again later.", l.noun))
		return ferr
	}

	l.searchRows = rows
	l.mode = ModeSearch
	l.loaded = true
	l.status = Ready{}
	return nil
}

// ClearSearch resets the form and shows the retained browse page again
func (l *list[F, T]) ClearSearch() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	var zero F
	l.filters = zero
	l.abandonSearch()
	return nil
}

// abandonSearch reverts to browse mode and drops a pending search, leaving
// any browse fetch in flight alone. l.mu must be held.
func (l *list[F, T]) abandonSearch() {
	l.mode = ModeBrowse
	l.searchRows = nil
	l.banner = ""
	if !l.searching {
		return
	}
	l.loads.Cancel()
	l.searching = false
	if l.loaded {
		l.status = Ready{}
	} else {
		l.status = Idle{}
	}
}

// snapshot must be called with l.mu held
func (l *list[F, T]) snapshot() ListSnapshot[F, T] {
	rows := l.browseRows
	if l.mode == ModeSearch {
		rows = l.searchRows
	}
	return ListSnapshot[F, T]{
		Status:     l.status,
		Mode:       l.mode,
		Rows:       slices.Clone(rows),
		Filters:    l.filters,
		Page:       l.page,
		TotalPages: l.pagination.TotalPages,
		Total:      l.pagination.Total(),
		Banner:     l.banner,
		InputError: l.inputErr.Value(),
		Notice:     l.notice.Value(),
	}
}
