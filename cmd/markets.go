package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	marketsLimit int

	marketsCmd = &cobra.Command{
		Use:   "markets",
		Short: "List recently created markets",
		Long: `Fetch the newest active markets from the Gamma API, the same
page the scan loop works from. Useful for eyeballing what the bot is
about to consider.`,
		RunE: runMarketsCmd,
	}
)

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(marketsCmd)
	marketsCmd.Flags().IntVarP(&marketsLimit, "limit", "l", 20, "Number of markets to fetch")
}

func runMarketsCmd(cmd *cobra.Command, args []string) error {
	client, err := gatewayFromEnv()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	markets, err := client.GetMarkets(ctx, marketsLimit, true)
	if err != nil {
		return fmt.Errorf("get markets: %w", err)
	}

	fmt.Printf("%-10s %-50s %12s %-20s\n", "ID", "QUESTION", "VOLUME", "ENDS")
	for _, m := range markets {
		question := m.Question
		if runes := []rune(question); len(runes) > 50 {
			question = string(runes[:47]) + "..."
		}
		fmt.Printf("%-10s %-50s %12.0f %-20s\n", m.ID, question, m.Volume, m.EndDate)
	}

	return nil
}
