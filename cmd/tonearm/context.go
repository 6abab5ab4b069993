package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tonearm/internal/config"
	"tonearm/internal/delivery"
	"tonearm/internal/distributor"
	"tonearm/internal/ern"
	"tonearm/internal/ledger"
	"tonearm/internal/logging"
	"tonearm/internal/packaging"
	"tonearm/internal/transport"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			LogDir: cfg.Paths.LogDir,
		})
	})
	return c.logger, c.loggerErr
}

// credentialsDir is where saved partner credentials live, next to the config
// file.
func (c *commandContext) credentialsDir() string {
	return filepath.Join(filepath.Dir(c.configPath), "credentials")
}

func (c *commandContext) credentialStore() *distributor.FileCredentialStore {
	return distributor.NewFileCredentialStore(c.credentialsDir())
}

func (c *commandContext) documentService() (*ern.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	sender := ern.Party{PartyID: cfg.Sender.PartyID, PartyName: cfg.Sender.PartyName}
	return ern.NewService(sender, cfg.Sender.TestMode, logger), nil
}

// withLedger runs fn against an open ledger store and closes it afterwards.
func (c *commandContext) withLedger(fn func(*ledger.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := ledger.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// pipeline bundles the collaborators a delivery command drives.
type pipeline struct {
	registry     *distributor.Registry
	orchestrator *delivery.Orchestrator
	ledger       *ledger.Store
}

// withPipeline assembles the full delivery pipeline from configuration and
// runs fn against it. dropDir, when non-empty, attaches a local drop-folder
// transport that receives the document package after submission.
func (c *commandContext) withPipeline(dropDir string, fn func(*pipeline) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	documents, err := c.documentService()
	if err != nil {
		return err
	}
	store, err := ledger.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := distributor.DefaultRegistry(distributor.Deps{
		Documents: documents,
		Packages:  packaging.NewBuilder(cfg.Paths.PackageDir, logger),
		Ledger:    store,
		Logger:    logger,
	})

	opts := delivery.Options{
		Documents:         documents,
		Registry:          registry,
		StagingDir:        cfg.Paths.StagingDir,
		ManifestTolerance: cfg.Validation.ManifestTolerance,
		Logger:            logger,
	}
	if strings.TrimSpace(dropDir) != "" {
		expanded, err := config.ExpandPath(dropDir)
		if err != nil {
			return err
		}
		opts.Transport = transport.NewLocal(expanded)
	}

	return fn(&pipeline{
		registry:     registry,
		orchestrator: delivery.New(opts),
		ledger:       store,
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
