package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	internalErrors "github.com/gcbaptista/go-meddra-lookup/internal/errors"
	"github.com/gcbaptista/go-meddra-lookup/internal/export"
)

type exportFlags struct {
	lookupFlags
	output string
	format string
}

func newExportCmd(global *globalFlags) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export <query>",
		Short: "Write lookup results to an XLSX or JSON file",
		Long: "Runs the same lookup as 'meddra lookup' and writes the results to a file.\n" +
			"The format defaults to the output file extension, then to xlsx.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(args[0])
			if query == "" {
				return internalErrors.NewValidationError("query", "cannot be empty")
			}
			format, err := exportFormat(flags.format, flags.output)
			if err != nil {
				return err
			}

			settings, err := global.settings()
			if err != nil {
				return err
			}
			logger, err := commandLogger(settings)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			_, searcher, err := openSearch(settings, logger)
			if err != nil {
				return err
			}
			flags.applyDefaultLimit(settings.DefaultLimit)
			results, err := runLookup(searcher, query, flags.lookupFlags)
			if err != nil {
				return err
			}

			var data []byte
			if format == "json" {
				data, err = export.JSON(query, results, time.Now())
			} else {
				data, err = export.XLSX(results)
			}
			if err != nil {
				return fmt.Errorf("failed to export results: %w", err)
			}

			output := flags.output
			if output == "" {
				output = "meddra-export." + format
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d건을 %s에 저장했습니다.\n", len(results), output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&flags.limit, "limit", "n", 10, "최대 결과 수")
	cmd.Flags().BoolVar(&flags.includeInactive, "include-inactive", false, "비활성화된 LLT 용어도 결과에 포함")
	cmd.Flags().BoolVar(&flags.approximate, "approximate", true, "fall back to approximate matching when nothing matches exactly")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default \"meddra-export.<format>\")")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "xlsx or json")
	return cmd
}

// exportFormat picks the explicit format, else the output extension, else xlsx.
func exportFormat(explicit, output string) (string, error) {
	format := strings.ToLower(explicit)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	switch format {
	case "", "xlsx":
		return "xlsx", nil
	case "json":
		return "json", nil
	default:
		return "", internalErrors.NewValidationError("format", fmt.Sprintf("unsupported export format '%s' (must be 'xlsx' or 'json')", format))
	}
}
