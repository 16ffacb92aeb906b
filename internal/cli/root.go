package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spark-quiz/internal/api"
	"spark-quiz/internal/config"
	"spark-quiz/internal/logger"
	"spark-quiz/internal/session"
)

var (
	configPath string
	apiURL     string
	debug      bool
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "spark-quiz",
		Short: "Multi-technology quiz for Spark, Git and Docker",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides config and SPARK_QUIZ_API_URL)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newTechnologiesCmd())
	cmd.AddCommand(newPlayCmd())
	cmd.AddCommand(newDashboardCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	return cmd
}

// clientEnv bundles what every client command needs.
type clientEnv struct {
	cfg     config.Config
	log     *zap.Logger
	client  *api.Client
	store   session.TokenStore
	control *session.Controller
}

func newClientEnv() *clientEnv {
	cfg := config.LoadOrDefault(configPath)
	log := logger.New(debug)

	baseURL := apiURL
	if baseURL == "" {
		baseURL = cfg.BaseURL()
	}
	client := api.New(baseURL)

	tokenDir := cfg.Client.TokenDir
	if tokenDir == "" {
		tokenDir = session.DefaultTokenDir()
	}
	store := session.NewFileTokenStore(tokenDir)

	return &clientEnv{
		cfg:     cfg,
		log:     log,
		client:  client,
		store:   store,
		control: session.NewController(client, store, log),
	}
}

func (e *clientEnv) close() {
	e.control.Close()
	_ = e.log.Sync()
}
