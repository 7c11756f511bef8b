package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-meddra-lookup/config"
	"github.com/gcbaptista/go-meddra-lookup/internal/logging"
	"github.com/gcbaptista/go-meddra-lookup/internal/search"
	"github.com/gcbaptista/go-meddra-lookup/internal/typoutil"
	"github.com/gcbaptista/go-meddra-lookup/store"
)

const serviceName = "go-meddra-lookup"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	envFile    string
	dataRoot   string
	datasetDir string
	similarity string
	logLevel   string
	logFormat  string
}

// newRootCmd builds a fresh command tree.
func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "meddra",
		Short:         "MedDRA 28.1 한국어판 LLT/PT 계층 검색 도구",
		Long:          "Look up Korean MedDRA lowest level terms with their preferred term and primary SOC hierarchy.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "KEY=VALUE file loaded before reading the environment")
	pf.StringVar(&flags.dataRoot, "data-root", "", "MedDRA 데이터가 위치한 루트 디렉터리 (ascii-281 하위 포함)")
	pf.StringVar(&flags.datasetDir, "dataset-dir", "", "dataset subdirectory under the data root (default \"ascii-281\")")
	pf.StringVar(&flags.similarity, "similarity", "", "approximate similarity measure: ratcliff or levenshtein")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: console or json")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newLookupCmd(flags))
	root.AddCommand(newExportCmd(flags))
	return root
}

// Execute runs the root command.
func Execute() error {
	root := newRootCmd()
	err := root.Execute()
	if err != nil && ExitCode(err) < 0 {
		root.PrintErrln("error:", err)
	}
	return err
}

// settings resolves configuration in order: defaults, env file, environment,
// then explicit flags.
func (f *globalFlags) settings() (config.Settings, error) {
	if err := config.LoadEnvFile(f.envFile); err != nil {
		return config.Settings{}, err
	}
	s := config.Default()
	s.ApplyEnv()

	if f.dataRoot != "" {
		s.DataRoot = f.dataRoot
	}
	if f.datasetDir != "" {
		s.DatasetDir = f.datasetDir
	}
	if f.similarity != "" {
		s.Similarity = f.similarity
	}
	if f.logLevel != "" {
		s.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		s.Log.Format = f.logFormat
	}

	if problems := s.Validate(); len(problems) > 0 {
		return s, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return s, nil
}

// openSearch opens the dataset and builds the search service over it.
func openSearch(settings config.Settings, logger *zap.Logger) (*store.Dataset, *search.Service, error) {
	dataset, err := store.Open(settings.DataRoot,
		store.WithDatasetDir(settings.DatasetDir),
		store.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}

	measure, err := typoutil.ByName(settings.Similarity)
	if err != nil {
		return nil, nil, err
	}

	service := search.NewService(dataset,
		search.WithSimilarity(measure),
		search.WithLogger(logger),
	)
	return dataset, service, nil
}

// commandLogger builds the logger for one-shot commands. It only reports
// warnings and errors unless debug logging was asked for.
func commandLogger(settings config.Settings) (*zap.Logger, error) {
	level := settings.Log.Level
	if level == "info" {
		level = "warn"
	}
	return logging.NewLogger(level, settings.Log.Format, serviceName)
}

// resolveUIPath interprets a relative UI path against the data root.
func resolveUIPath(explicit string, settings config.Settings) string {
	if explicit != "" {
		return explicit
	}
	if filepath.IsAbs(settings.UIPath) {
		return settings.UIPath
	}
	return filepath.Join(settings.DataRoot, settings.UIPath)
}
