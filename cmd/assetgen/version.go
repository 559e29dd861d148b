package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"phonics-audio/config"
	"phonics-audio/internal/appdirs"
	"phonics-audio/internal/service"
	"phonics-audio/internal/types"
	"phonics-audio/log"
	"phonics-audio/pkg/tts"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func newDiagnoseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Print runtime diagnostics and check the configured jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var synth types.Synthesizer
			composite, err := tts.NewCompositeSynthesizer(cmd.Context())
			if err != nil {
				log.GetLogger().Warn("Provider unavailable", zap.Error(err))
			} else {
				defer composite.Close()
				synth = composite
			}

			w := cmd.OutOrStdout()
			printDiagnose(w)
			for _, c := range service.NewService(synth, nil, config.Conf).Diagnose() {
				state := "ok"
				if !c.OK {
					state = "FAIL"
				}
				fmt.Fprintf(w, "check.%s: %s (%s)\n", c.Name, state, c.Detail)
			}
			return nil
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "version: %s\ncommit: %s\ndate: %s\n", version, commit, date)
}

func printDiagnose(w io.Writer) {
	fmt.Fprintf(w, "runtime: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "version: %s\n", version)

	if wd, err := os.Getwd(); err == nil {
		fmt.Fprintf(w, "working_dir: %s\n", wd)
	} else {
		fmt.Fprintf(w, "working_dir: <error: %v>\n", err)
	}

	dirs, err := appdirs.Resolve()
	if err != nil {
		fmt.Fprintf(w, "paths: <error: %v>\n", err)
		return
	}
	printPath(w, "config", dirs.ConfigFile)
	printPath(w, "log", dirs.LogDir)
	printPath(w, "output", config.Conf.App.OutputDir)
	printPath(w, "ledger", appdirs.DBPathFor(dirs))
	fmt.Fprintf(w, "tts.provider: %s\n", config.Conf.Tts.Provider)
}

func printPath(w io.Writer, name, value string) {
	absPath, err := filepath.Abs(value)
	if err != nil {
		fmt.Fprintf(w, "path.%s: %s (abs_error=%v)\n", name, value, err)
		return
	}

	if _, err = os.Stat(absPath); err == nil {
		fmt.Fprintf(w, "path.%s: %s (exists)\n", name, absPath)
		return
	}
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "path.%s: %s (missing)\n", name, absPath)
		return
	}

	fmt.Fprintf(w, "path.%s: %s (error=%v)\n", name, absPath, err)
}
