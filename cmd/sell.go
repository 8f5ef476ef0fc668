package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	sellPercent float64

	sellCmd = &cobra.Command{
		Use:   "sell <token-id>",
		Short: "Sell a held position at the best bid",
		Long: `Sell a percentage of the position held in the given outcome
token, priced at the current best bid. The position is looked up on the
venue directly; the running bot's ledger is not consulted. To sell
through the bot use POST /api/sell instead.`,
		Args: cobra.ExactArgs(1),
		RunE: runSellCmd,
	}
)

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(sellCmd)
	sellCmd.Flags().Float64VarP(&sellPercent, "percent", "p", 100, "Percentage of the holding to sell")
}

func runSellCmd(cmd *cobra.Command, args []string) error {
	if sellPercent < 1 || sellPercent > 100 {
		return fmt.Errorf("percent must be between 1 and 100")
	}

	client, err := gatewayFromEnv()
	if err != nil {
		return err
	}

	if client.GetAddress() == "" {
		return fmt.Errorf("POLYMARKET_PRIVATE_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	tokenID := args[0]

	result, err := client.SellPosition(ctx, tokenID, sellPercent)
	if err != nil {
		return fmt.Errorf("sell position: %w", err)
	}

	fmt.Printf("Status:   %s\n", result.Status)
	fmt.Printf("Order:    %s\n", result.OrderID)
	fmt.Printf("Size:     %.2f shares (%.0f%%)\n", result.Size, sellPercent)

	return nil
}
