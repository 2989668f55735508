package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/filmdesk/filter"
	"github.com/s0up4200/filmdesk/sakila"
	"github.com/s0up4200/filmdesk/view"
)

const browseHelp = `Commands:
  n, next            next page
  p, prev            previous page
  g, goto <page>     jump to a page
  s, search <text>   search
  c, clear           leave search results
  o, open <id>       show one row in detail
  h, help            this help
  q, quit            exit`

// pager is the navigation surface shared by the list views
type pager interface {
	Load(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	JumpTo(ctx context.Context, input string) error
	ClearSearch() error
}

// browseSession drives a list view from a line-oriented prompt
type browseSession struct {
	list   pager
	render func() (string, error)
	search func(ctx context.Context, text string) error
	open   func(ctx context.Context, id int) error
	// extra handles list specific commands; it reports whether it knew cmd
	extra func(ctx context.Context, cmd, arg string) (bool, error)
	help  string

	in  *bufio.Scanner
	out io.Writer
}

var filmsBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Page through and search films interactively",
	Args:  cobra.NoArgs,
	RunE:  runFilmsBrowse,
}

var customersBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Page through, search and sort customers interactively",
	Args:  cobra.NoArgs,
	RunE:  runCustomersBrowse,
}

func init() {
	filmsCmd.AddCommand(filmsBrowseCmd)
	customersCmd.AddCommand(customersBrowseCmd)
	addFilterFlags(filmsBrowseCmd)
	addFilterFlags(customersBrowseCmd)
}

func runFilmsBrowse(cmd *cobra.Command, args []string) error {
	f, err := rowFilter()
	if err != nil {
		return err
	}

	films := view.NewFilms(client, viewSettings(), logger)
	defer films.Close()

	s := newBrowseSession(films)
	s.render = func() (string, error) {
		snap := films.Snapshot()
		rows, err := filter.Apply(f, snap.Rows, filter.FilmEnv)
		if err != nil {
			return "", err
		}
		snap.Rows = rows
		return formatter.FormatFilmList(snap, formatOptions()), nil
	}
	s.search = func(ctx context.Context, text string) error {
		return films.Submit(ctx, sakila.FilmFilters{Query: text})
	}
	s.open = func(ctx context.Context, id int) error {
		return open(ctx, view.FilmRoute(id))
	}

	return s.run(cmd.Context())
}

func runCustomersBrowse(cmd *cobra.Command, args []string) error {
	f, err := rowFilter()
	if err != nil {
		return err
	}

	customers := view.NewCustomers(client, viewSettings(), logger)
	defer customers.Close()

	s := newBrowseSession(customers)
	s.render = func() (string, error) {
		snap := customers.Snapshot()
		rows, err := filter.Apply(f, snap.Rows, filter.CustomerEnv)
		if err != nil {
			return "", err
		}
		snap.Rows = rows
		return formatter.FormatCustomerList(snap, formatOptions()), nil
	}
	s.search = func(ctx context.Context, text string) error {
		return customers.Submit(ctx, sakila.CustomerFilters{Name: text})
	}
	s.open = func(ctx context.Context, id int) error {
		return open(ctx, view.CustomerRoute(id))
	}
	s.help = `  id <customer-id>   find a customer by id
  sort <column>      cycle sorting of id, name, email or status`
	s.extra = func(ctx context.Context, cmd, arg string) (bool, error) {
		switch cmd {
		case "id":
			return true, customers.Submit(ctx, sakila.CustomerFilters{CustomerID: arg})
		case "sort":
			key, err := view.ParseSortKey(arg)
			if err != nil {
				return true, err
			}
			customers.ToggleSort(key)
			return true, nil
		}
		return false, nil
	}

	return s.run(cmd.Context())
}

func newBrowseSession(list pager) *browseSession {
	return &browseSession{
		list: list,
		in:   bufio.NewScanner(os.Stdin),
		out:  os.Stdout,
	}
}

// run loads the first page and reads commands until quit, EOF or interrupt
func (s *browseSession) run(ctx context.Context) error {
	if err := s.list.Load(ctx); err != nil {
		logger.Debug().Err(err).Msg("Initial load failed")
	}
	if err := s.print(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		for s.in.Scan() {
			select {
			case lines <- s.in.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(s.out, "> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				return s.in.Err()
			}
			line = l
		}

		name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)
		if name == "" {
			continue
		}
		if name == "q" || name == "quit" {
			return nil
		}

		err := s.dispatch(ctx, strings.ToLower(name), arg)
		switch {
		case errors.Is(err, view.ErrClosed):
			return nil
		case errors.Is(err, errUnknownCommand):
			fmt.Fprintf(s.out, "Unknown command %q, type h for help\n", name)
			continue
		case errors.Is(err, view.ErrControlDisabled):
			fmt.Fprintln(s.out, "There is no page in that direction.")
			continue
		case errors.Is(err, view.ErrSearchActive):
			fmt.Fprintln(s.out, "Clear the search (c) to page through the list.")
			continue
		case errors.Is(err, errShown):
			continue
		case err != nil:
			// the snapshot carries the banner or input error
			logger.Debug().Err(err).Str("command", name).Msg("Command failed")
		}

		if err := s.print(); err != nil {
			return err
		}
	}
}

var (
	errUnknownCommand = errors.New("unknown command")
	errShown          = errors.New("output already shown")
)

func (s *browseSession) dispatch(ctx context.Context, name, arg string) error {
	switch name {
	case "n", "next":
		return s.list.Next(ctx)
	case "p", "prev":
		return s.list.Prev(ctx)
	case "g", "goto":
		return s.list.JumpTo(ctx, arg)
	case "s", "search":
		return s.search(ctx, arg)
	case "c", "clear":
		return s.list.ClearSearch()
	case "o", "open":
		id, err := parseID("row", arg)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return errShown
		}
		if err := s.open(ctx, id); err != nil {
			logger.Debug().Err(err).Int("id", id).Msg("Open failed")
		}
		return errShown
	case "h", "help":
		fmt.Fprintln(s.out, browseHelp)
		if s.help != "" {
			fmt.Fprintln(s.out, s.help)
		}
		return errShown
	}

	if s.extra != nil {
		handled, err := s.extra(ctx, name, arg)
		if handled {
			if err != nil && !isViewError(err) {
				fmt.Fprintln(s.out, err)
				return errShown
			}
			return err
		}
	}
	return errUnknownCommand
}

func (s *browseSession) print() error {
	out, err := s.render()
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, out)
	return nil
}

// isViewError reports whether err is already reflected in a view snapshot
func isViewError(err error) bool {
	var (
		fetchErr *view.FetchError
		inputErr *view.InputError
	)
	return errors.As(err, &fetchErr) || errors.As(err, &inputErr) ||
		errors.Is(err, view.ErrControlDisabled) || errors.Is(err, view.ErrClosed)
}
