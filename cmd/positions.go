package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List positions held on the venue",
	Long: `List the outcome tokens the wallet currently holds, as reported
by the Polymarket Data API. This is the venue's view, not the bot's
ledger; dust below 0.01 shares is filtered out.`,
	RunE: runPositionsCmd,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(positionsCmd)
}

func runPositionsCmd(cmd *cobra.Command, args []string) error {
	client, err := gatewayFromEnv()
	if err != nil {
		return err
	}

	if client.GetAddress() == "" {
		return fmt.Errorf("POLYMARKET_PRIVATE_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	positions, err := client.GetPositions(ctx)
	if err != nil {
		return fmt.Errorf("get positions: %w", err)
	}

	if len(positions) == 0 {
		fmt.Println("No positions held.")
		return nil
	}

	fmt.Printf("%-12s %-40s %10s %10s %12s\n", "OUTCOME", "MARKET", "SIZE", "AVG", "PNL")
	for _, p := range positions {
		title := p.Title
		if runes := []rune(title); len(runes) > 40 {
			title = string(runes[:37]) + "..."
		}
		fmt.Printf("%-12s %-40s %10.2f %10.4f %12.2f\n",
			p.Outcome, title, p.Size, p.AvgPrice, p.CashPnL)
	}

	return nil
}
