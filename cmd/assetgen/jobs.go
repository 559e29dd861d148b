package main

import (
	"context"

	"phonics-audio/internal/content"
	"phonics-audio/internal/service"

	"github.com/spf13/cobra"
)

type jobFunc func(ctx context.Context, svc *service.Service) (*service.Report, error)

// runJob builds the app, runs one job and prints its summary. Per-pair
// failures are reported but do not make the command fail.
func runJob(cmd *cobra.Command, job jobFunc) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	report, err := job(cmd.Context(), a.svc)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func newLettersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "letters",
		Short: "Generate letter name audio A-Z",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJob(cmd, func(ctx context.Context, svc *service.Service) (*service.Report, error) {
				return svc.GenerateLetters(ctx)
			})
		},
	}
}

func newPhonemesCommand() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "phonemes",
		Short: "Generate phoneme audio and attach it to the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJob(cmd, func(ctx context.Context, svc *service.Service) (*service.Report, error) {
				return svc.GeneratePhonemes(ctx, mode)
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "Text mode: "+content.PhonemeModeSSML+" or "+content.PhonemeModeSpoken+" (default from config)")
	return cmd
}

func newWordsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "words",
		Short: "Generate audio for every phoneme example word",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJob(cmd, func(ctx context.Context, svc *service.Service) (*service.Report, error) {
				return svc.GeneratePhonemeWords(ctx)
			})
		},
	}
}

func newStoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "story",
		Short: "Render the read-along story with word timings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJob(cmd, func(ctx context.Context, svc *service.Service) (*service.Report, error) {
				return svc.RenderStory(ctx)
			})
		},
	}
}

func newAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every enabled job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			reports, err := a.svc.RunAll(cmd.Context())
			for _, r := range reports {
				printReport(cmd.OutOrStdout(), r)
			}
			return err
		},
	}
}
