package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newVoicesCommand() *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List the voices the provider offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			voices, err := a.svc.ListVoices(cmd.Context(), language)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, v := range voices {
				fmt.Fprintf(w, "%-32s %-16s %s\n", v.Name, strings.Join(v.LanguageCodes, ","), v.Gender)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "Filter by language code, e.g. en-GB")
	return cmd
}
