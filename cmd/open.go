package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/filmdesk/view"
)

var openCmd = &cobra.Command{
	Use:   "open <route>",
	Short: "Open a page by its route",
	Long: `Open a page by its route, for example /, /films, /films/7, /actors/2,
/customers or /customers/8.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return open(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}

// open renders the first page of the route
func open(ctx context.Context, path string) error {
	route, err := view.ParseRoute(path)
	if err != nil {
		return err
	}

	logger.Debug().Str("route", path).Msg("Opening page")

	switch route.Page {
	case view.PageLanding:
		return showLanding(ctx)
	case view.PageFilm:
		return showFilm(ctx, route.ID)
	case view.PageActor:
		return showActor(ctx, route.ID)
	case view.PageCustomer:
		return showCustomer(ctx, route.ID)
	case view.PageFilms:
		films := view.NewFilms(client, viewSettings(), logger)
		defer films.Close()
		err := films.Load(ctx)
		fmt.Print(formatter.FormatFilmList(films.Snapshot(), formatOptions()))
		return err
	case view.PageCustomers:
		customers := view.NewCustomers(client, viewSettings(), logger)
		defer customers.Close()
		err := customers.Load(ctx)
		fmt.Print(formatter.FormatCustomerList(customers.Snapshot(), formatOptions()))
		return err
	default:
		return fmt.Errorf("unknown route %q", path)
	}
}
