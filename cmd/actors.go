package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/filmdesk/filter"
	"github.com/s0up4200/filmdesk/view"
)

// actorCmd groups the single-actor commands
var actorCmd = &cobra.Command{
	Use:   "actor",
	Short: "Show an actor",
}

var actorShowCmd = &cobra.Command{
	Use:   "show <actor-id>",
	Short: "Show an actor's filmography and most rented films",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("actor", args[0])
		if err != nil {
			return err
		}
		return showActor(cmd.Context(), id)
	},
}

// actorsCmd groups the actor list commands
var actorsCmd = &cobra.Command{
	Use:   "actors",
	Short: "Search actors",
}

var actorsSearchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search actors by name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runActorsSearch,
}

func init() {
	rootCmd.AddCommand(actorCmd, actorsCmd)
	actorCmd.AddCommand(actorShowCmd)
	actorsCmd.AddCommand(actorsSearchCmd)
	addFilterFlags(actorsSearchCmd)
}

func showActor(ctx context.Context, id int) error {
	detail := view.NewActorDetail(client, id, logger)
	defer detail.Close()

	err := detail.Load(ctx)
	fmt.Print(formatter.FormatActor(detail.Snapshot()))
	return err
}

func runActorsSearch(cmd *cobra.Command, args []string) error {
	f, err := rowFilter()
	if err != nil {
		return err
	}

	search := view.NewActorSearch(client, logger)
	defer search.Close()

	if err := search.Submit(cmd.Context(), strings.Join(args, " ")); err != nil {
		fmt.Print(formatter.FormatActorResults(search.Snapshot(), nil))
		return err
	}

	snap := search.Snapshot()
	actors, err := filter.Apply(f, snap.Results, filter.ActorEnv)
	if err != nil {
		return err
	}
	fmt.Print(formatter.FormatActorResults(snap, actors))
	return nil
}
