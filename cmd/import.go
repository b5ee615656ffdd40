package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"kudosimport/internal/bootstrap"
	"kudosimport/internal/bootstrap/logging"
	"kudosimport/internal/errs"
	"kudosimport/internal/usecase/importer"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Run one project import from a JSON payload file",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *importer.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		file, _ := cmd.Flags().GetString("file")
		payload, err := os.ReadFile(file)
		if err != nil {
			return errs.Wrapf(err, "read payload file %q", file)
		}

		input, err := decodeImportRequest(payload)
		if err != nil {
			return errs.Wrap(err, "decode payload")
		}

		result, err := svc.ImportProject(ctx, input)
		if err != nil {
			return errs.Wrap(err, "import project")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Total issues imported: %d\n", result.TotalIssuesImported); err != nil {
			return errs.Wrap(err, "write import output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("file", "", "Path to the import request JSON payload")
	_ = importCmd.MarkFlagRequired("file")
}
