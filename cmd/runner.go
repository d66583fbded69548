package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/repositories"
	"github.com/desertthunder/photoyarn/internal/services"
	"github.com/desertthunder/photoyarn/internal/shared"
	"github.com/desertthunder/photoyarn/internal/tasks"
	"github.com/desertthunder/photoyarn/internal/upload"
	"github.com/urfave/cli/v3"
)

const defaultSessionID = "default"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	uploader   services.Uploader
	injected   bool // uploader supplied by the caller, kept across Configure
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	engine     *tasks.ExportEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Uploader   services.Uploader
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
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
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		uploader:   opts.Uploader,
		injected:   opts.Uploader != nil,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		engine:     tasks.NewExportEngine(opts.Logger),
	}
	r.applyConfig()
	return r
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "session",
			Usage: "Session id scoping the stored slides",
		},
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, uploadCommand, slideshowCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure loads the config file named by --config when it exists and rebuilds dependent services.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path == "" {
		return ctx, nil
	}
	r.configPath = path

	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return ctx, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	if err := config.Validate(); err != nil {
		return ctx, err
	}

	r.config = config
	r.applyConfig()
	r.logger.Debug("config loaded", "path", path, "backend", config.Backend.BaseURL)
	return ctx, nil
}

func (r *Runner) applyConfig() {
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(r.config.Log.Level))
	if !r.injected {
		r.uploader = services.NewUploadService(
			r.config.Backend.BaseURL,
			r.config.Backend.UploadPath,
			r.httpClient,
			services.FieldNamesFromConfig(r.config.Upload.Fields),
		)
	}
}

// SetLogger replaces the runner's logger, used while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.engine = tasks.NewExportEngine(l)
}

// sessionID resolves the session from --session, then the config, then the default.
func (r *Runner) sessionID(cmd *cli.Command) string {
	if id := cmd.String("session"); id != "" {
		return id
	}
	if r.config.Session.ID != "" {
		return r.config.Session.ID
	}
	return defaultSessionID
}

func (r *Runner) storageKey() string {
	if r.config.Session.StorageKey != "" {
		return r.config.Session.StorageKey
	}
	return upload.DefaultStorageKey
}

// openStorage opens the sqlite session store scoped to sessionID. The returned func closes the database.
func (r *Runner) openStorage(sessionID string) (models.Storage, func() error, error) {
	db, err := shared.OpenSessionDatabase(r.config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session database: %w", err)
	}

	storage, err := repositories.NewSessionStorage(db, sessionID, r.config.Session.TTL())
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return storage, db.Close, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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
