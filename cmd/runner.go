package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genresense/internal/locale"
	"github.com/desertthunder/genresense/internal/repositories"
	"github.com/desertthunder/genresense/internal/services"
	"github.com/desertthunder/genresense/internal/shared"
	"github.com/desertthunder/genresense/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database and the analysis session are opened on first use, so commands
// such as setup work before a database exists.
type Runner struct {
	config     *shared.Config
	configPath string
	classifier services.Classifier
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	getenv     func(string) string

	db       *sql.DB
	ownsDB   bool
	session  *tasks.Session
	settings *repositories.SettingsStore
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Classifier services.Classifier
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB
	Getenv     func(string) string
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		classifier: opts.Classifier,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		getenv:     opts.Getenv,
		db:         opts.DB,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, analyzeCommand, historyCommand, quotaCommand, communityCommand,
		settingsCommand, serveCommand, tuiCommand, loginCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and everything it opens afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// open returns the analysis session, opening the database and wiring the
// stores on first use.
func (r *Runner) open(ctx context.Context) (*tasks.Session, error) {
	if r.session != nil {
		return r.session, nil
	}

	if r.db == nil {
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
		r.db = db
		r.ownsDB = true
	}

	store := repositories.NewStore(r.db, r.logger)
	r.settings = repositories.NewSettingsStore(store, r.logger)
	settings, err := r.settings.Load(ctx, locale.Detect(r.getenv("LANG")))
	if err != nil {
		return nil, err
	}

	if r.classifier == nil {
		r.classifier = services.NewClassifier(r.config.Gemini, r.httpClient, r.logger)
	}

	session, err := tasks.NewSession(ctx, tasks.SessionOpts{
		Classifier: r.classifier,
		Store:      store,
		History:    repositories.NewHistoryStore(store, r.config.History.Limit, r.logger),
		Quota:      repositories.NewQuotaManager(store, r.config.Quota.MaxPerDay, r.logger),
		Board:      repositories.NewCommunityBoard(repositories.DefaultCommunityEntries()),
		Settings:   settings,
		Limits:     tasks.LimitsFromConfig(r.config.Upload),
		Logger:     r.logger,
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("session opened", "db", r.config.Database.Path, "provider", r.classifier.Name())
	r.session = session
	return session, nil
}

// Close tears down the session and the database the runner opened.
func (r *Runner) Close() error {
	if r.session != nil {
		r.session.Close()
		r.session = nil
	}
	if r.db != nil && r.ownsDB {
		err := r.db.Close()
		r.db = nil
		return err
	}
	return nil
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
