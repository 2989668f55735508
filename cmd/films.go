package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/filmdesk/filter"
	"github.com/s0up4200/filmdesk/sakila"
	"github.com/s0up4200/filmdesk/view"
)

var (
	pageInput   string
	filmFilters sakila.FilmFilters
	rentTo      string
	rentStore   int
)

// topCmd represents the landing page
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the top rented films and top actors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showLanding(cmd.Context())
	},
}

// filmsCmd groups the film list commands
var filmsCmd = &cobra.Command{
	Use:   "films",
	Short: "Browse and search the film catalog",
}

var filmsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of films",
	Args:  cobra.NoArgs,
	RunE:  runFilmsList,
}

var filmsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search films by title, actor or genre",
	Long: `Search films. A positional query searches titles, actor names and genres at
once; the --title, --actor and --genre flags narrow the search field by field.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFilmsSearch,
}

// filmCmd groups the single-film commands
var filmCmd = &cobra.Command{
	Use:   "film",
	Short: "Show or rent a film",
}

var filmShowCmd = &cobra.Command{
	Use:   "show <film-id>",
	Short: "Show a film with its cast and availability",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("film", args[0])
		if err != nil {
			return err
		}
		return showFilm(cmd.Context(), id)
	},
}

var filmRentCmd = &cobra.Command{
	Use:   "rent <film-id>",
	Short: "Rent a film to a customer",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilmRent,
}

func init() {
	rootCmd.AddCommand(topCmd, filmsCmd, filmCmd)
	filmsCmd.AddCommand(filmsListCmd, filmsSearchCmd)
	filmCmd.AddCommand(filmShowCmd, filmRentCmd)

	filmsListCmd.Flags().StringVarP(&pageInput, "page", "p", "1", "page to show")
	addFilterFlags(filmsListCmd)

	filmsSearchCmd.Flags().StringVar(&filmFilters.Title, "title", "", "title contains")
	filmsSearchCmd.Flags().StringVar(&filmFilters.ActorName, "actor", "", "actor name contains")
	filmsSearchCmd.Flags().StringVar(&filmFilters.Genre, "genre", "", "genre (category) name")
	addFilterFlags(filmsSearchCmd)

	filmRentCmd.Flags().StringVarP(&rentTo, "customer", "c", "", "id of the renting customer (required)")
	filmRentCmd.Flags().IntVarP(&rentStore, "store", "s", 0, "store to rent from (default: first store with stock)")
	_ = filmRentCmd.MarkFlagRequired("customer")
}

func parseID(kind, s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id: %q", kind, s)
	}
	return id, nil
}

func showLanding(ctx context.Context) error {
	landing := view.NewLanding(client, logger)
	defer landing.Close()

	err := landing.Load(ctx)
	fmt.Print(formatter.FormatLanding(landing.Snapshot()))
	return err
}

func runFilmsList(cmd *cobra.Command, args []string) error {
	f, err := rowFilter()
	if err != nil {
		return err
	}

	films := view.NewFilms(client, viewSettings(), logger)
	defer films.Close()

	ctx := cmd.Context()
	if err := films.Load(ctx); err != nil {
		fmt.Print(formatter.FormatFilmList(films.Snapshot(), formatOptions()))
		return err
	}
	if strings.TrimSpace(pageInput) != "1" {
		if err := films.JumpTo(ctx, pageInput); err != nil {
			return err
		}
	}

	return printFilms(films.Snapshot(), f)
}

func runFilmsSearch(cmd *cobra.Command, args []string) error {
	f, err := rowFilter()
	if err != nil {
		return err
	}

	filters := filmFilters
	if len(args) == 1 {
		filters.Query = args[0]
	}
	if filters.IsEmpty() {
		return fmt.Errorf("give a query or at least one of --title, --actor, --genre")
	}

	films := view.NewFilms(client, viewSettings(), logger)
	defer films.Close()

	if err := films.Submit(cmd.Context(), filters); err != nil {
		fmt.Print(formatter.FormatFilmList(films.Snapshot(), formatOptions()))
		return err
	}
	return printFilms(films.Snapshot(), f)
}

func printFilms(snap view.FilmsSnapshot, f *filter.Filter) error {
	rows, err := filter.Apply(f, snap.Rows, filter.FilmEnv)
	if err != nil {
		return err
	}
	snap.Rows = rows
	fmt.Print(formatter.FormatFilmList(snap, formatOptions()))
	return nil
}

func showFilm(ctx context.Context, id int) error {
	detail := view.NewFilmDetail(client, id, viewSettings(), logger)
	defer detail.Close()

	err := detail.Load(ctx)
	fmt.Print(formatter.FormatFilm(detail.Snapshot()))
	return err
}

func runFilmRent(cmd *cobra.Command, args []string) error {
	id, err := parseID("film", args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	detail := view.NewFilmDetail(client, id, viewSettings(), logger)
	defer detail.Close()

	if err := detail.Load(ctx); err != nil {
		fmt.Print(formatter.FormatFilm(detail.Snapshot()))
		return err
	}
	if err := detail.OpenRental(); err != nil {
		return err
	}
	if rentStore > 0 {
		if err := detail.SetStore(rentStore); err != nil {
			return err
		}
	}
	if err := detail.SetCustomerID(ctx, rentTo); err != nil {
		return err
	}

	snap := detail.Snapshot()
	if snap.Rental == nil || !snap.Rental.Confirmed() {
		fmt.Print(formatter.FormatFilm(snap))
		return fmt.Errorf("no customer with id %q", rentTo)
	}

	err = detail.ConfirmRental(ctx)
	fmt.Print(formatter.FormatFilm(detail.Snapshot()))
	return err
}
