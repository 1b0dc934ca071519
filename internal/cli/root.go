package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/VncsRaniery/habitask-sub001/internal/config"
	"github.com/VncsRaniery/habitask-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "habitask",
		Short: "HabiTask - study planner and pomodoro backend",
		Long: `HabiTask serves the study planner API: professors, subjects, tasks and
pomodoro sessions scoped to the signed-in user.

Running without a subcommand starts the server.`,
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.yaml if present)")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// loadConfig reads .env, then the config file and environment, and fills
// in what must exist at runtime.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: read .env: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if cfg.JWT.Secret == "" {
		secret, err := util.RandomString(32)
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.JWT.Secret = secret
		log.Println("warning: jwt.secret not set, using a random secret; tokens will not survive a restart")
	}
	if cfg.Log.Level == "debug" {
		cfg.Server.Mode = gin.DebugMode
	}
	if cfg.Security.EncryptionKey == "" {
		log.Println("warning: security.encryption_key not set, audit log entries are stored in plain text")
	}
	return cfg, nil
}

// setupLogging tees the access log and process log into cfg.File when set.
// The returned close func must be called on exit.
func setupLogging(cfg config.LogConfig) (func(), error) {
	if cfg.File == "" {
		return func() {}, nil
	}
	if err := ensureDir(filepath.Dir(cfg.File)); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	gin.DefaultWriter = io.MultiWriter(os.Stdout, f)
	gin.DefaultErrorWriter = io.MultiWriter(os.Stderr, f)
	log.SetOutput(gin.DefaultErrorWriter)

	return func() { f.Close() }, nil
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
