package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmigrate/internal/progress"
	"github.com/desertthunder/ytmigrate/internal/services"
	"github.com/desertthunder/ytmigrate/internal/shared"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// ConnectFunc builds the [services.Service] for one account.
type ConnectFunc func(ctx context.Context, account services.Account) (services.Service, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	source  services.Service
	target  services.Service
	connect ConnectFunc
	db      *sql.DB
	logger  *log.Logger
	output  io.Writer
	now     func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Source and Target take precedence over Connect; DB over the configured database path.
type RunnerOpts struct {
	Config  *shared.Config
	Source  services.Service
	Target  services.Service
	Connect ConnectFunc
	DB      *sql.DB
	Logger  *log.Logger
	Output  io.Writer
	Now     func() time.Time
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
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Runner{
		config:  opts.Config,
		source:  opts.Source,
		target:  opts.Target,
		connect: opts.Connect,
		db:      opts.DB,
		logger:  opts.Logger,
		output:  opts.Output,
		now:     opts.Now,
	}
}

// YouTubeConnector authorizes each account with its stored OAuth token and talks to the YouTube Data API.
func YouTubeConnector(config *shared.Config) ConnectFunc {
	return func(ctx context.Context, account services.Account) (services.Service, error) {
		auth, err := services.NewAuthenticator(
			config.Credentials.ClientSecrets, config.Credentials.TokenDir, config.Credentials.RedirectPort,
		)
		if err != nil {
			return nil, err
		}

		client, err := auth.Client(ctx, account)
		if err != nil {
			return nil, err
		}
		return services.NewYouTubeService(ctx, string(account), option.WithHTTPClient(client))
	}
}

// SetLogger replaces the logger, used when the TUI takes over the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the history database if the runner opened it.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistsCommand, migrateCommand, progressCommand, issuesCommand, itemCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// service returns the service for account, connecting on first use.
func (r *Runner) service(ctx context.Context, account services.Account) (services.Service, error) {
	slot := &r.source
	if account == services.AccountTarget {
		slot = &r.target
	}
	if *slot != nil {
		return *slot, nil
	}

	if r.connect == nil {
		return nil, fmt.Errorf("%w: no connection for %s account", shared.ErrServiceUnavailable, account)
	}

	svc, err := r.connect(ctx, account)
	if err != nil {
		return nil, err
	}
	*slot = svc
	return svc, nil
}

// history returns the run/issue database, opening and migrating it on first use.
func (r *Runner) history() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	r.db = db
	return db, nil
}

// loadStore loads the configured progress file.
func (r *Runner) loadStore() (*progress.Store, error) {
	return progress.Load(r.config.Migration.ProgressFile,
		progress.WithLogger(shared.WithLogger(r.logger, "component", "progress")),
		progress.WithClock(r.now),
	)
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

func (r *Runner) writeBytes(b []byte) error {
	if _, err := r.output.Write(b); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
