package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/internal/gateway"
	"github.com/betzbotz1/betzbotz-bot1/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Check your wallet's USDC balance",
	Long: `Display the USDC balance of the wallet derived from
POLYMARKET_PRIVATE_KEY, read from the Polygon RPC endpoint.`,
	RunE: runBalanceCmd,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalanceCmd(cmd *cobra.Command, args []string) error {
	client, err := gatewayFromEnv()
	if err != nil {
		return err
	}

	if client.GetAddress() == "" {
		return fmt.Errorf("POLYMARKET_PRIVATE_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	balance, err := client.GetBalance(ctx)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}

	fmt.Printf("Wallet:  %s\n", client.GetAddress())
	fmt.Printf("USDC:    $%.2f\n", balance)

	return nil
}

// gatewayFromEnv builds a gateway client for the utility commands.
func gatewayFromEnv() (*gateway.Client, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	client, err := gateway.NewClient(&gateway.Config{
		GammaURL:   cfg.GammaAPIURL,
		ClobURL:    cfg.ClobAPIURL,
		DataURL:    cfg.DataAPIURL,
		PolygonRPC: cfg.PolygonRPC,
		PrivateKey: cfg.PolymarketPrivateKey,
		APIKey:     cfg.PolymarketAPIKey,
		Secret:     cfg.PolymarketSecret,
		Passphrase: cfg.PolymarketPassphrase,
		Logger:     zap.NewNop(),
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway: %w", err)
	}

	return client, nil
}
