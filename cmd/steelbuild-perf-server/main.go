package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/nick-lortz/steelbuild-pro-sub006/internal/config"
	"github.com/nick-lortz/steelbuild-pro-sub006/internal/server"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/constants"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	engineConfigLocation := flag.String("config", "", "path to engine configuration file (defaults apply when omitted)")
	address := flag.String("address", "", "listen address override")
	flag.Parse()

	serverConf, err := server.LoadConfig(*serverConfigLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	if *address != "" {
		serverConf.Address = *address
	}

	engineConf := config.Default()
	if *engineConfigLocation != "" {
		engineConf, err = config.LoadConfiguration(*engineConfigLocation)
		if err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load engine configuration\", \"error\": \"%v\"}\n", err)
			os.Exit(1)
		}
	}

	logger, err := buildLogger(serverConf.Logging)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	for _, warning := range engineConf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	handler := server.NewHandler(logger, engineConf, serverConf.UploadSizeBytes(), version)

	logger.Info("starting server",
		zap.String("op", "main"),
		zap.String("address", serverConf.Address),
		zap.String("version", version),
	)
	if err := http.ListenAndServe(serverConf.Address, handler); err != nil {
		logger.Fatal("server exited",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func buildLogger(loggingConfig config.LoggingConfig) (*zap.Logger, error) {
	if loggingConfig.Format == "console" {
		return zap.NewDevelopment()
	}
	zapConfig := zap.NewProductionConfig()
	if loggingConfig.Level != "" {
		level, err := zap.ParseAtomicLevel(loggingConfig.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %s", loggingConfig.Level)
		}
		zapConfig.Level = level
	}
	return zapConfig.Build()
}
