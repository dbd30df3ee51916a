package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nick-lortz/steelbuild-pro-sub006/internal/config"
	"github.com/nick-lortz/steelbuild-pro-sub006/internal/report"
	"github.com/nick-lortz/steelbuild-pro-sub006/internal/store"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/constants"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/ledger"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/output"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to engine configuration file")
	snapshotLocation := flag.String("snapshot", "", "path to YAML ledger snapshot file")
	dbLocation := flag.String("db", "", "path to SQLite ledger database (alternative to -snapshot)")
	projectID := flag.String("project", "", "project ID to load when reading from -db")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	switch outputFormat {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
	default:
		logger.Fatal(fmt.Sprintf("invalid output format: %s", outputFormat),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	snapshot, err := loadSnapshot(*snapshotLocation, *dbLocation, *projectID)
	if err != nil {
		logger.Fatal("failed to load ledger snapshot",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if validationErrs := ledger.Validate(snapshot); len(validationErrs) > 0 {
		for _, vErr := range validationErrs {
			logger.Error("Snapshot validation: "+vErr.Error(),
				zap.String("op", "main"),
			)
		}
		logger.Fatal(fmt.Sprintf("snapshot failed validation with %d problems", len(validationErrs)),
			zap.String("op", "main"),
		)
	}

	result := report.GetReport(logger, snapshot, conf)

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, result)
	case constants.OutputFormatCSV:
		output.CsvFormat(os.Stdout, result)
	case constants.OutputFormatJSON:
		if err := output.JSONFormat(os.Stdout, result); err != nil {
			logger.Fatal("failed to encode report",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}

// loadSnapshot reads the ledger snapshot from either a YAML file or a
// SQLite database, whichever was requested.
func loadSnapshot(snapshotPath, dbPath, projectID string) (ledger.Snapshot, error) {
	switch {
	case snapshotPath != "" && dbPath != "":
		return ledger.Snapshot{}, fmt.Errorf("-snapshot and -db are mutually exclusive")
	case snapshotPath != "":
		return ledger.LoadSnapshotFile(snapshotPath)
	case dbPath != "":
		if projectID == "" {
			return ledger.Snapshot{}, fmt.Errorf("-project is required with -db")
		}
		db, err := store.Open(dbPath)
		if err != nil {
			return ledger.Snapshot{}, err
		}
		defer db.Close()
		return store.NewSnapshotRepository(db).Load(context.Background(), projectID)
	default:
		return ledger.Snapshot{}, fmt.Errorf("one of -snapshot or -db is required")
	}
}
