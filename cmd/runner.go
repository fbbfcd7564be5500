package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/language"

	"github.com/desertthunder/audiolib/internal/repositories"
	"github.com/desertthunder/audiolib/internal/services"
	"github.com/desertthunder/audiolib/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	lib        *services.Library
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Library    *services.Library // Preopened session; otherwise opened on first use from Config
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		lib:        opts.Library,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, addCommand, editCommand, removeCommand, listCommand, valuesCommand, searchCommand, suggestCommand,
		importCommand, exportCommand, playlistCommand, statsCommand, sampleCommand, exportsCommand,
		tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure loads the config file named by --config and applies the log level.
//
// A missing file leaves the defaults in place; an unreadable or invalid one is an error.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	r.configPath = path

	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else if !errors.Is(err, os.ErrNotExist) {
		return ctx, fmt.Errorf("%w: %v", shared.ErrMissingConfig, err)
	}

	level := shared.ParseLogLevel(r.config.Logging.Level)
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	r.logger.SetLevel(level)
	return ctx, nil
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the database handle if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// library opens the catalog session on first use, backed by the configured storage.
func (r *Runner) library(ctx context.Context) (*services.Library, error) {
	if r.lib != nil {
		return r.lib, nil
	}

	opts := services.LibraryOpts{Logger: r.logger, Locale: r.locale()}
	switch r.config.Library.Storage {
	case shared.StorageFile:
		opts.Storage = repositories.NewFileStore(r.config.Library.File)
	default:
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		r.db = db
		opts.Storage = repositories.NewSnapshotRepository(db, r.config.Database.KeepSnapshots)
		opts.ExportLog = repositories.NewExportLogRepository(db)
	}

	lib, err := services.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	r.lib = lib
	return lib, nil
}

func (r *Runner) locale() language.Tag {
	tag, err := language.Parse(r.config.Library.Locale)
	if err != nil {
		r.logger.Warn("invalid locale, using English collation", "locale", r.config.Library.Locale)
		return language.English
	}
	return tag
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
