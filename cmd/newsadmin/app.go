package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"news-site/internal/common/pagination"
	pgRepo "news-site/internal/infra/adapter/persistence/postgres"
	sqliteRepo "news-site/internal/infra/adapter/persistence/sqlite"
	"news-site/internal/infra/db"
	"news-site/internal/infra/storage"
	"news-site/internal/observability/logging"
	"news-site/internal/repository"
	artUC "news-site/internal/usecase/article"
	pkgconfig "news-site/pkg/config"
)

const appName = "newsadmin"

// app carries the state shared by every subcommand.
type app struct {
	out      io.Writer
	logLevel string
	output   string

	logger *slog.Logger
	db     *sql.DB
	driver db.Driver
	images *storage.LocalStorage
	svc    *artUC.Service
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Manage news site articles",
		Long: `newsadmin manages the articles of the news site from a terminal.

The database is selected with DB_DRIVER (postgres or sqlite) and DATABASE_URL.
Uploaded images are stored under MEDIA_ROOT.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.logger = logging.New(os.Stderr, "text", logging.ParseLevel(a.logLevel))
			slog.SetDefault(a.logger)
			switch a.output {
			case "text", "json":
				return nil
			default:
				return fmt.Errorf("unsupported output format %q (want text or json)", a.output)
			}
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", pkgconfig.GetEnvString("LOG_LEVEL", "warn"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", "text", "Output format: text or json")

	cmd.AddCommand(
		a.createCmd(),
		a.listCmd(),
		a.getCmd(),
		a.updateCmd(),
		a.deleteCmd(),
		a.slugifyCmd(),
		a.migrateCmd(),
	)
	return cmd
}

// openDB connects to the configured database. Schema creation is left to migrate.
func (a *app) openDB(ctx context.Context) error {
	if a.db != nil {
		return nil
	}
	cfg, err := db.ConfigFromEnv()
	if err != nil {
		return err
	}
	database, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	a.db = database
	a.driver = cfg.Driver
	return nil
}

// service wires the article service on top of the database and media storage.
func (a *app) service(ctx context.Context) (*artUC.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	if err := a.openDB(ctx); err != nil {
		return nil, err
	}

	images, err := storage.NewLocalStorage(
		pkgconfig.GetEnvString("MEDIA_ROOT", "./media"),
		pkgconfig.GetEnvString("MEDIA_URL", "/media/"),
	)
	if err != nil {
		return nil, fmt.Errorf("init media storage: %w", err)
	}
	a.images = images

	var repo repository.ArticleRepository
	if a.driver == db.DriverSQLite {
		repo = sqliteRepo.NewArticleRepo(a.db)
	} else {
		repo = pgRepo.NewArticleRepo(a.db)
	}
	a.svc = &artUC.Service{
		Repo:       repo,
		Assets:     images,
		Pagination: pagination.LoadFromEnv(),
	}
	return a.svc, nil
}

// saveImage copies a local file into media storage and returns its stored path.
func (a *app) saveImage(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return a.images.Save(ctx, f, path)
}

func (a *app) discardImage(ctx context.Context, stored string) {
	if stored == "" {
		return
	}
	if err := a.images.Remove(ctx, stored); err != nil {
		a.logger.Warn("failed to remove image", slog.String("path", stored), slog.Any("error", err))
	}
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) jsonOutput() bool {
	return a.output == "json"
}
