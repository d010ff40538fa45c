package cli

import (
	"context"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/provlog/pkg/adapter"
	"github.com/m-mizutani/provlog/pkg/repository"
	"github.com/m-mizutani/provlog/pkg/service/ledger"
	"github.com/m-mizutani/provlog/pkg/usecase/audit"
	"github.com/m-mizutani/provlog/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Storage
	dir string

	// External tools
	provconvert     string
	provman         string
	initializer     string
	templateLibrary string
	planConfig      string
	profile         string
	toolTimeout     time.Duration

	logLevel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dir",
			Aliases:     []string{"d"},
			Usage:       "Storage root for binding record files",
			Value:       "provenance",
			Sources:     cli.EnvVars("PROVLOG_DIR"),
			Destination: &cfg.dir,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("PROVLOG_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// toolFlags returns flags for the external collaborator tools with destination config
func toolFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "provconvert",
			Usage:       "Path to the provconvert executable",
			Value:       "provconvert",
			Sources:     cli.EnvVars("PROVLOG_PROVCONVERT"),
			Destination: &cfg.provconvert,
		},
		&cli.StringFlag{
			Name:        "provman",
			Usage:       "Path to the provmanagement executable",
			Value:       "provmanagement",
			Sources:     cli.EnvVars("PROVLOG_PROVMAN"),
			Destination: &cfg.provman,
		},
		&cli.StringFlag{
			Name:        "initializer",
			Usage:       "log2prov initializer class for expansion",
			Value:       adapter.DefaultInitializer,
			Sources:     cli.EnvVars("PROVLOG_INITIALIZER"),
			Destination: &cfg.initializer,
		},
		&cli.StringFlag{
			Name:        "template-library",
			Aliases:     []string{"l"},
			Usage:       "Path to the narrative template library",
			Sources:     cli.EnvVars("PROVLOG_TEMPLATE_LIBRARY"),
			Destination: &cfg.templateLibrary,
		},
		&cli.StringFlag{
			Name:        "plans",
			Usage:       "Path to the explanation-plan YAML config",
			Sources:     cli.EnvVars("PROVLOG_PLANS"),
			Destination: &cfg.planConfig,
		},
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "Narrative-style profile (overrides the plan config)",
			Sources:     cli.EnvVars("PROVLOG_PROFILE"),
			Destination: &cfg.profile,
		},
		&cli.DurationFlag{
			Name:        "tool-timeout",
			Usage:       "Timeout for each external tool invocation",
			Value:       60 * time.Second,
			Sources:     cli.EnvVars("PROVLOG_TOOL_TIMEOUT"),
			Destination: &cfg.toolTimeout,
		},
	}
}

// loggerContext attaches a logger configured from the flags
func (cfg *config) loggerContext(ctx context.Context) context.Context {
	return logging.With(ctx, logging.New(cfg.logLevel, os.Stderr))
}

// newLedger creates the binding ledger over the partitioned file store
func (cfg *config) newLedger() *ledger.Ledger {
	return ledger.New(repository.NewFileStore(cfg.dir))
}

// newAudit creates the audit usecase with the exec-based tool adapters
func (cfg *config) newAudit(l *ledger.Ledger) (*audit.UseCase, error) {
	if cfg.templateLibrary == "" {
		return nil, goerr.New("template-library is required")
	}
	if cfg.planConfig == "" {
		return nil, goerr.New("plans config is required")
	}

	plans, err := audit.LoadPlans(cfg.planConfig)
	if err != nil {
		return nil, err
	}

	profile := plans.Profile
	if cfg.profile != "" {
		profile = cfg.profile
	}

	return audit.New(audit.NewInput{
		Ledger:   l,
		Expander: adapter.NewProvConvert(cfg.provconvert, cfg.initializer, cfg.toolTimeout),
		Narrator: adapter.NewProvMan(cfg.provman, cfg.templateLibrary, cfg.toolTimeout),
		Plans:    plans.Plans,
		Profile:  profile,
	}), nil
}
