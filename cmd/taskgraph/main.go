package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yukikurage/taskgraph/internal/config"
	"github.com/yukikurage/taskgraph/internal/database"
	"github.com/yukikurage/taskgraph/internal/repository"
	"github.com/yukikurage/taskgraph/internal/services"
	"gorm.io/gorm"
)

// app carries the state of one invocation: the parsed global flags and the
// store opened from them.
type app struct {
	dbPath     string
	configFile string
	jsonOutput bool
	verbose    bool

	cfg    *config.Config
	db     *gorm.DB
	engine *services.Engine
}

// Commands annotated with skipStore run without opening the database.
const annotationSkipStore = "skipStore"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{jsonOutput: jsonRequested(args)}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	a.close()
	if err != nil {
		a.renderError(stdout, stderr, err)
		return 1
	}
	return 0
}

// jsonRequested looks for --json ahead of cobra. pflag stops at the first bad
// flag, and its error must still be reported as JSON when --json comes later.
func jsonRequested(args []string) bool {
	flags := pflag.NewFlagSet("taskgraph", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.SetOutput(io.Discard)
	flags.BoolP("help", "h", false, "")
	jsonOutput := flags.Bool("json", false, "")

	_ = flags.Parse(args)
	return *jsonOutput
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskgraph",
		Short: "taskgraph - tasks with parents, blockers, tags and metadata",
		Long: `taskgraph keeps tasks in a local database together with their
relationships: a parent/child hierarchy, a "blocks" graph, tags and
key/value metadata.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationSkipStore] == "true" {
				return nil
			}
			return a.open()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "Database path (forces the sqlite driver)")
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to taskgraph.yaml")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log SQL statements")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &services.ValidationError{Field: "flags", Message: err.Error()}
	})

	rootCmd.AddCommand(
		newInitCmd(a),
		newCreateCmd(a),
		newShowCmd(a),
		newListCmd(a),
		newChildrenCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newParentCmd(a),
		newBlockCmd(a),
		newTagCmd(a),
		newMetaCmd(a),
		newStatsCmd(a),
	)

	return rootCmd
}

// loadConfig applies the global flags on top of the file and environment
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return nil, err
	}
	if a.dbPath != "" {
		cfg.DBDriver = config.DriverSQLite
		cfg.DBPath = a.dbPath
	}
	if a.verbose {
		cfg.LogSQL = true
	}
	return cfg, nil
}

// open connects to the configured database and migrates it
func (a *app) open() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	a.db = db

	if err := database.MigrateDatabase(db); err != nil {
		return err
	}

	a.cfg = cfg
	a.engine = services.NewEngine(repository.NewStore(db))
	return nil
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	a.db = nil
}

// requireArgs wraps cobra.ExactArgs so arity mistakes surface as validation errors
func requireArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &services.ValidationError{Field: "args", Message: fmt.Sprintf("%s: %v", cmd.CommandPath(), err)}
		}
		return nil
	}
}
