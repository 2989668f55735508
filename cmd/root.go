package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/filmdesk/config"
	"github.com/s0up4200/filmdesk/filter"
	"github.com/s0up4200/filmdesk/render"
	"github.com/s0up4200/filmdesk/sakila"
	"github.com/s0up4200/filmdesk/view"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	client    *sakila.Client
	formatter = render.NewConsoleFormatter()

	// Command flags
	apiURL      string
	assumeYes   bool
	showDetails bool
	whereExpr   string
	preset      string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "filmdesk",
	Short: "A terminal client for the Sakila film rental service",
	Long: `filmdesk is a CLI for a film rental store. It browses and searches films,
actors and customers, rents films, returns rentals and manages customer
records through the store's REST API.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Interrupting cancels in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "override api.url from the config")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to confirmation prompts")
	rootCmd.PersistentFlags().BoolVar(&showDetails, "details", false, "show extra columns in lists")
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	if cmd.Flags().Changed("api-url") {
		cfg.API.URL = apiURL
	}
	if cmd.Flags().Changed("details") {
		cfg.UI.ShowDetails = showDetails
	}

	client, err = sakila.NewClient(cfg.API.URL, logger, sakila.WithUserAgent("filmdesk/"+appVersion))
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	logger.Debug().Str("url", client.BaseURL()).Msg("API client ready")
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, colored only on a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// viewSettings maps the configuration onto the view tunables
func viewSettings() view.Settings {
	return view.Settings{
		PageSize:      cfg.API.PageSize,
		MessageTTL:    cfg.UI.MessageTTL,
		RedirectDelay: cfg.UI.RedirectDelay,
		HistoryLimit:  cfg.UI.HistoryLimit,
		DefaultStore:  cfg.Rental.DefaultStore,
	}
}

func formatOptions() render.FormatOptions {
	return render.FormatOptions{ShowDetails: cfg.UI.ShowDetails}
}

// addFilterFlags registers --where and --filter on a listing command
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&whereExpr, "where", "w", "", "filter expression applied to the fetched rows")
	cmd.Flags().StringVarP(&preset, "filter", "f", "", "use a named filter from config")
}

// rowFilter compiles the filter requested on the command line, if any.
// --where takes precedence over --filter.
func rowFilter() (*filter.Filter, error) {
	expression := whereExpr
	if expression == "" && preset != "" {
		named, ok := cfg.Filter[preset]
		if !ok {
			return nil, fmt.Errorf("filter '%s' not found in config", preset)
		}
		expression = named
	}
	if expression == "" {
		return nil, nil
	}

	f, err := filter.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	logger.Debug().Str("filter", f.Expression()).Msg("Filtering rows")
	return f, nil
}
