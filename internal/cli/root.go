package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
	adminPass  string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	if envPort == "" {
		envPort = "8080"
	}
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}
	envPass := os.Getenv("ADMIN_PASS")

	cmd := &cobra.Command{
		Use:   "live-quiz-service",
		Short: "Admin-paced live quiz server over WebSocket",
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&adminPass, "admin-pass", envPass, "admin shared secret (overrides config)")
	cmd.AddCommand(NewServeCmd(&configPath, &port, &adminPass))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	return cmd
}
