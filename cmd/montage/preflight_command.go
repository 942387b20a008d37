package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"montage/internal/config"
	"montage/internal/preflight"
)

func newPreflightCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check engine binaries, workspace access, and disk space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return err
			}

			results := preflight.RunAll(cfg)
			rows := make([][]string, 0, len(results))
			failed := 0
			for _, result := range results {
				status := "pass"
				if !result.Passed {
					status = "fail"
					failed++
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "Status", "Detail"}, rows))

			if failed > 0 {
				return errors.New("preflight failed")
			}
			return nil
		},
	}
}
