package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	. "building-access-control/internal"
	"building-access-control/internal/access"
	"building-access-control/internal/alert"
	"building-access-control/internal/config"
	"building-access-control/internal/rbac"
	"building-access-control/internal/storage"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the building access control server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		fmt.Println("Starting building access control server...")
		ServerMain(ctx, provider)
	},
}

// Initialize logger
func initLogger(cfg *config.Config) *slog.Logger {
	// Determine level from config and set it on the handler options.
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		println("Invalid log level in config, defaulting to INFO")
	}
	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	slog.Debug("Logger initialized", "level", level.String())
	return logger
}

func LoadOperatorRBAC(cfg *config.Config) *rbac.RBAC {
	authz := rbac.New()
	if err := authz.LoadPolicy(cfg.RBAC.PolicyFile); err != nil {
		slog.Error("Failed to load RBAC policy", "error", err, "file", cfg.RBAC.PolicyFile)
		os.Exit(1)
	}

	// Config-listed admins get the admin role on top of the policy file
	for _, email := range cfg.RBAC.Admins {
		authz.AssignRole(email, "admin")
	}
	return authz
}

func ServerMain(ctx context.Context, storageProvider storage.Provider) {

	if config.Cfg == nil {
		panic("Config not initialized.")
	}

	initLogger(config.Cfg)

	// Use the provider passed from cobra command (already initialized)
	if storageProvider == nil {
		slog.Error("Storage provider is nil")
		os.Exit(1)
	}

	// Assemble the verification engine
	var opts []access.Option
	if config.Cfg.Alerts.Enabled {
		opts = append(opts, access.WithNotifier(alert.NewMailer(&config.Cfg.Alerts)))
	}
	engine := access.NewEngine(storageProvider, storageProvider, opts...)

	authz := LoadOperatorRBAC(config.Cfg)

	server := HTTPServer()
	RegisterRoutes(server, engine, storageProvider, authz)

	if err := server.Run(config.Cfg.ListenAddr); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
