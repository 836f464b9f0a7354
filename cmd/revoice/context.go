package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"revoice/internal/artifacts"
	"revoice/internal/config"
	"revoice/internal/logging"
	"revoice/internal/media"
	"revoice/internal/pipeline"
	"revoice/internal/redact"
	"revoice/internal/services/asr"
	"revoice/internal/services/tts"
	"revoice/internal/store"
	"revoice/internal/timeline"
	"revoice/internal/verify"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
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
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// services bundles everything a domain command needs, wired once per
// invocation and torn down when the command returns.
type services struct {
	cfg         *config.Config
	store       *store.Store
	layout      artifacts.Layout
	logger      *slog.Logger
	ledger      *verify.Ledger
	coordinator *redact.Coordinator
	pipeline    *pipeline.Pipeline
	assembler   *timeline.Assembler
}

// withServices opens the store, wires the collaborator services, runs fn,
// and closes the store afterwards.
func (c *commandContext) withServices(fn func(*services) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	layout := artifacts.NewLayout(cfg.Paths.DataDir)
	transcriber := asr.NewService(asr.FromConfig(cfg))
	synthesizer := tts.NewService(tts.FromConfig(cfg))
	tool := media.NewTool(cfg.Media.FFmpegBinary)

	ledger := verify.NewLedger(st, transcriber, logger)
	coordinator := redact.NewCoordinator(st, ledger, transcriber, nil, layout, logger)

	return fn(&services{
		cfg:         cfg,
		store:       st,
		layout:      layout,
		logger:      logger,
		ledger:      ledger,
		coordinator: coordinator,
		pipeline:    pipeline.New(st, layout, synthesizer, ledger, coordinator, logger),
		assembler:   timeline.NewAssembler(st, layout, tool, cfg.Media.FFprobeBinary, cfg.Media.LeadInSeconds, logger),
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
