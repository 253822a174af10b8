package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"visareq/app"
	"visareq/domain/core"
	"visareq/internal/config"
	"visareq/internal/container"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "visareq",
		Short: "Convert immigration policy documents into structured requirements",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newShowCmd(),
		newExportCmd(),
		newStatsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func wire() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(cfg)
}

func newRunCmd() *cobra.Command {
	var hint string
	var exportPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run [policy-file]",
		Short: "Run the full pipeline over a policy document",
		Long: `Run the five-stage pipeline over a plain-text policy document and print
the run summary.

Example: visareq run parent_visa_policy.txt --hint "Parent Resident Visa" --export run.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read policy file: %w", err)
			}

			c, err := wire()
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			r, runErr := c.Pipeline.Run(cmd.Context(), string(text), hint)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(r); err != nil {
					return err
				}
			} else {
				fmt.Print(app.SummarizeRun(r))
			}

			if exportPath != "" && r.Requirements != nil {
				if err := c.Exporter.Export(r, exportPath); err != nil {
					return err
				}
				fmt.Printf("Exported workbook to %s\n", exportPath)
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&hint, "hint", "", "Visa type hint passed to the analyzer")
	cmd.Flags().StringVar(&exportPath, "export", "", "Write an .xlsx workbook of the run outputs")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full run record as JSON")

	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run-id]",
		Short: "Print a stored run record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseRunID(args[0])
			if err != nil {
				return err
			}

			c, err := wire()
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			r, err := c.Repo.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		},
	}
}

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "Export a stored run to an .xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseRunID(args[0])
			if err != nil {
				return err
			}

			c, err := wire()
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			r, err := c.Repo.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := c.Exporter.Export(r, out); err != nil {
				return err
			}
			fmt.Printf("Exported workbook to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "run.xlsx", "Output workbook path")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate timing and fallback statistics over stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := wire()
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			runs, err := c.Repo.List(cmd.Context(), 0)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(app.ComputeRunStats(runs))
		},
	}
}
