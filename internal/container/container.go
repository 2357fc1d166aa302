// Package container wires application dependencies from configuration.
package container

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"aceintel/adapters/postgres"
	"aceintel/adapters/tabular"
	"aceintel/app"
	"aceintel/domain/record"
	"aceintel/internal"
	"aceintel/internal/config"
	"aceintel/internal/normalize"
	"aceintel/internal/reconcile"
	"aceintel/internal/report"
	"aceintel/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure; DB is nil when DATABASE_URL is unset
	DB   *sqlx.DB
	Runs ports.RunRepository

	// Pipeline components
	Loader   *tabular.DirectoryLoader
	Pipeline *app.PipelineService
}

// New creates a dependency injection container from loaded configuration
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewDefaultLogger(),
	}

	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		runs, err := postgres.NewRunRepository(db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize run repository: %w", err)
		}
		c.DB = db
		c.Runs = runs
		c.Logger.Info("run persistence enabled")
	}

	c.Loader = tabular.NewDirectoryLoader(
		cfg.Pipeline.DataDir,
		loaderPatterns(cfg.Pipeline),
		cfg.Pipeline.LoaderParallelism,
		c.Logger,
	)

	mappings := normalize.DefaultMappings()
	mappings[record.SourceBusSpeed] = mappings[record.SourceBusSpeed].
		WithTimestampCandidates(cfg.Pipeline.SpeedDateColumns)
	mappings[record.SourceEnforcement] = mappings[record.SourceEnforcement].
		WithTimestampCandidates(cfg.Pipeline.EnforcementDateColumns)

	engine := reconcile.NewEngine(
		reconcile.NewResolver(cfg.Pipeline.Bucket),
		cfg.Pipeline.SpeedAgg,
	)

	c.Pipeline = app.NewPipelineService(
		c.Loader,
		normalize.New(mappings),
		engine,
		report.NewReporter(c.Logger),
		c.Runs,
		c.Logger,
		fingerprintSettings(cfg.Pipeline),
	)

	return c, nil
}

// Shutdown releases held resources
func (c *Container) Shutdown() {
	if c.DB != nil {
		c.DB.Close()
	}
}

func loaderPatterns(cfg config.PipelineConfig) map[record.SourceKind]string {
	patterns := tabular.DefaultPatterns()
	if cfg.SpeedGlob != "" {
		patterns[record.SourceBusSpeed] = cfg.SpeedGlob
	}
	if cfg.EnforcementGlob != "" {
		patterns[record.SourceEnforcement] = cfg.EnforcementGlob
	}
	return patterns
}

// fingerprintSettings lists the configuration values that change run
// output; they feed the run fingerprint with the input file set.
func fingerprintSettings(cfg config.PipelineConfig) map[string]string {
	return map[string]string{
		"data_dir":         cfg.DataDir,
		"speed_glob":       cfg.SpeedGlob,
		"enforcement_glob": cfg.EnforcementGlob,
		"bucket":           cfg.Bucket.String(),
		"speed_agg":        string(cfg.SpeedAgg),
	}
}
