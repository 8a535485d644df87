package commands

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/balkashynov/tick/internal/config"
	"github.com/balkashynov/tick/internal/logging"
	"github.com/balkashynov/tick/internal/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what every command needs: flag values, the merged config,
// the logger and the clock.
type app struct {
	configFile string
	dataFile   string
	logLevel   string

	cfg    *config.Config
	logger *log.Logger
	now    func() time.Time
}

// NewRootCmd builds the tick command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tick",
		Short: "A personal task list for the terminal",
		Long: `tick keeps a personal task list in a JSON file.
Add, edit, search, filter and sort tasks, and let recurring tasks come back
on their own once they are done.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.dataFile, "file", "", "Task data file (default ~/.tick/tasks.json)")
	flags.StringVar(&a.configFile, "config", "", "Config file (default ~/.tick/config.toml)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newRecurCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newShowCmd(a))
	rootCmd.AddCommand(newEditCmd(a))
	rootCmd.AddCommand(newDeleteCmd(a))
	rootCmd.AddCommand(newDoneCmd(a))
	rootCmd.AddCommand(newUndoneCmd(a))
	rootCmd.AddCommand(newToggleCmd(a))
	rootCmd.AddCommand(newSearchCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newStatsCmd(a))
	rootCmd.AddCommand(newRollCmd(a))
	rootCmd.AddCommand(newUICmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.SetHelpCommand(newHelpCmd())
	return rootCmd
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command and reports any error on stderr
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(config.Overrides{
		ConfigFile: a.configFile,
		DataFile:   a.dataFile,
		LogLevel:   a.logLevel,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.NewFromConfig(cfg.Log.Level, cfg.Log.Format)
	if cfg.Source != "" {
		a.logger.Debug("loaded config", "path", cfg.Source)
	}
	return nil
}

// openStore builds the store on the configured backend
func (a *app) openStore() (*store.Store, error) {
	opts := []store.Option{
		store.WithClock(a.now),
		store.WithLogger(a.logger),
		store.WithStrictDaily(!a.cfg.Recurrence.LegacyDaily),
	}

	if a.cfg.Storage == config.StorageSQLite {
		backend, err := store.OpenSQLite(a.cfg.DBFile, a.logger)
		if err != nil {
			return nil, err
		}
		return store.Open(backend, opts...), nil
	}
	return store.OpenFile(a.cfg.DataFile, opts...), nil
}

// withStore wraps a command function to open the store first and roll
// recurring tasks when check_on_start is set
func (a *app) withStore(fn func(*cobra.Command, []string, *store.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if a.cfg.Recurrence.CheckOnStart {
			created, err := s.CheckAndRollRecurring()
			if err != nil {
				return err
			}
			if created > 0 {
				a.logger.Info("created recurring tasks", "count", created)
			}
		}
		return fn(cmd, args, s)
	}
}

// parseTaskID parses a positive task id argument
func parseTaskID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task ID '%s'", arg)
	}
	return id, nil
}

func taskNotFound(id int) error {
	return fmt.Errorf("task #%d not found", id)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No config needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tick %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
