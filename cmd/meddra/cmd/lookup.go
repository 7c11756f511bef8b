package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-meddra-lookup/model"
	"github.com/gcbaptista/go-meddra-lookup/services"
)

type lookupFlags struct {
	limit           int
	includeInactive bool
	approximate     bool
}

func newLookupCmd(global *globalFlags) *cobra.Command {
	flags := &lookupFlags{}

	cmd := &cobra.Command{
		Use:   "lookup [query]",
		Short: "검색할 증상 또는 용어 조각으로 LLT를 조회합니다",
		Long: "Print matching lowest level terms with their PT and primary hierarchy.\n" +
			"Without a query, reads queries interactively until an empty line.\n" +
			"Exits with status 1 when a one-shot lookup finds nothing.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			out := cmd.OutOrStdout()
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return interactiveLoop(cmd.InOrStdin(), out, searcher, *flags)
			}

			results, err := runLookup(searcher, strings.TrimSpace(args[0]), *flags)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "검색 결과가 없습니다.")
				return exitError{code: 1}
			}
			printResults(out, results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&flags.limit, "limit", "n", 10, "표시할 최대 결과 수")
	cmd.Flags().BoolVar(&flags.includeInactive, "include-inactive", false, "비활성화된 LLT 용어도 결과에 포함")
	cmd.Flags().BoolVar(&flags.approximate, "approximate", false, "fall back to approximate matching when nothing matches exactly")
	return cmd
}

// applyDefaultLimit replaces a non-positive limit with the configured default,
// as the HTTP boundary does.
func (f *lookupFlags) applyDefaultLimit(defaultLimit int) {
	if f.limit < 1 {
		f.limit = defaultLimit
	}
}

// runLookup runs exact search and, when enabled, the approximate fallback.
func runLookup(searcher services.Searcher, query string, flags lookupFlags) ([]model.SearchResult, error) {
	results, err := searcher.Search(query, flags.limit, flags.includeInactive)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 && flags.approximate {
		return searcher.SearchApproximate(query, flags.limit, flags.includeInactive)
	}
	return results, nil
}

func interactiveLoop(in io.Reader, out io.Writer, searcher services.Searcher, flags lookupFlags) error {
	fmt.Fprintln(out, "MedDRA 증상 검색을 시작합니다. 종료하려면 Ctrl+C 또는 빈 줄 입력.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "검색어> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			return nil
		}
		results, err := runLookup(searcher, query, flags)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintln(out, "  결과가 없습니다.")
			continue
		}
		printResults(out, results)
	}
}

func printResults(out io.Writer, results []model.SearchResult) {
	for i, result := range results {
		fmt.Fprintf(out, "[%d]\n%s\n", i+1, formatResult(result))
	}
}

// formatResult renders one result as indented text lines.
func formatResult(r model.SearchResult) string {
	lines := []string{
		fmt.Sprintf("LLT %s: %s (활성=%s)", r.LLTCode, r.LLTName, r.Active),
		fmt.Sprintf("  PT  %s: %s", r.PTCode, r.PTName),
	}

	var hierarchy []string
	if r.SOCName != "" {
		hierarchy = append(hierarchy, fmt.Sprintf("SOC %s: %s", r.SOCCode, r.SOCName))
	}
	if r.HLGTName != "" {
		hierarchy = append(hierarchy, "HLGT: "+r.HLGTName)
	}
	if r.HLTName != "" {
		hierarchy = append(hierarchy, "HLT: "+r.HLTName)
	}
	if len(hierarchy) > 0 {
		lines = append(lines, "  "+strings.Join(hierarchy, " | "))
	}
	if r.SOCAbbrev != "" {
		lines = append(lines, "  SOC 약어: "+r.SOCAbbrev)
	}
	if r.PrimarySOC != "" {
		lines = append(lines, "  Primary SOC 지정: "+r.PrimarySOC)
	}
	return strings.Join(lines, "\n")
}
