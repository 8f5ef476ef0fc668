package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/betzbotz1/betzbotz-bot1/internal/app"
	"github.com/betzbotz1/betzbotz-bot1/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the trading bot",
	Long: `Starts the trading bot, which will:
1. Scan the Gamma API for newly listed markets
2. Filter for liquid markets with cheap outcome tokens
3. Open a fixed-dollar position in each qualifying token
4. Sweep open positions and take profit at tiered price multiples

Configuration comes from the environment; see .env.example.`,
	RunE: runBot,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	// Load .env; a real environment takes precedence
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
