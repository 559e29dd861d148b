package main

import (
	"context"
	"fmt"
	"io"

	"phonics-audio/config"
	"phonics-audio/internal/service"
	"phonics-audio/internal/storage"
	"phonics-audio/internal/types"
	"phonics-audio/log"
	"phonics-audio/pkg/tts"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath  string
	outputDir   string
	concurrency int
	noLedger    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "assetgen",
		Short:         "Generate per-accent phonics audio assets",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return loadConfig(opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config.toml (default: user config dir)")
	flags.StringVar(&opts.outputDir, "output-dir", "", "Override app.output_dir")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "Override app.concurrency")
	flags.BoolVar(&opts.noLedger, "no-ledger", false, "Do not record results in the sqlite ledger")

	cmd.AddCommand(
		newLettersCommand(),
		newPhonemesCommand(),
		newWordsCommand(),
		newStoryCommand(),
		newAllCommand(),
		newVoicesCommand(),
		newServeCommand(),
		newDiagnoseCommand(),
		newVersionCommand(),
	)
	return cmd
}

func loadConfig(opts *rootOptions) error {
	config.SetConfigPath(opts.configPath)
	created, err := config.LoadOrCreateConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if created {
		log.GetLogger().Info("Wrote default config; edit it and re-run")
	}
	if err = config.ApplyEnv(); err != nil {
		return err
	}
	applyFlags(&config.Conf, opts)
	if err = config.CheckConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyFlags(conf *config.Config, opts *rootOptions) {
	if opts.outputDir != "" {
		conf.App.OutputDir = opts.outputDir
	}
	if opts.concurrency > 0 {
		conf.App.Concurrency = opts.concurrency
	}
	if opts.noLedger {
		conf.App.DisableLedger = true
	}
}

// app holds what a command needs; close releases it.
type app struct {
	svc    *service.Service
	ledger *storage.Ledger
	synth  *tts.CompositeSynthesizer
}

func openLedger() *storage.Ledger {
	if config.Conf.App.DisableLedger {
		return nil
	}
	ledger, err := storage.OpenDefault()
	if err != nil {
		log.GetLogger().Warn("Ledger unavailable, continuing without it", zap.Error(err))
		return nil
	}
	return ledger
}

func newApp(ctx context.Context) (*app, error) {
	synth, err := tts.NewCompositeSynthesizer(ctx)
	if err != nil {
		return nil, err
	}
	ledger := openLedger()
	return &app{
		svc:    service.NewService(synth, ledger, config.Conf),
		ledger: ledger,
		synth:  synth,
	}, nil
}

func (a *app) close() {
	if a.synth != nil {
		if err := a.synth.Close(); err != nil {
			log.GetLogger().Warn("Close provider failed", zap.Error(err))
		}
	}
	if a.ledger != nil {
		if err := a.ledger.Close(); err != nil {
			log.GetLogger().Warn("Close ledger failed", zap.Error(err))
		}
	}
}

func printReport(w io.Writer, report *service.Report) {
	fmt.Fprintf(w, "%s: %s (run %s)\n", report.Job, report.Summary, report.RunID)
	for _, r := range report.Results {
		if r.Status == types.AssetStatusFailed || r.Status == types.AssetStatusUnmapped {
			fmt.Fprintf(w, "  %s\n", r)
		}
	}
	if report.ManifestOut != "" {
		fmt.Fprintf(w, "  manifest: %s\n", report.ManifestOut)
	}
	for _, f := range report.TimingFiles {
		fmt.Fprintf(w, "  timings: %s\n", f)
	}
}
