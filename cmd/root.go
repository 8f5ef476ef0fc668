package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "betzbotz",
	Short: "Polymarket long-shot trading bot",
	Long: `Polymarket long-shot trading bot that scans newly listed markets for
cheap outcome tokens, opens small fixed-dollar positions, and exits them
through tiered take-profit levels as the price multiplies.

The bot polls the Polymarket Gamma API for fresh markets, checks CLOB
orderbooks for entry prices, and serves a small JSON API for monitoring
and manual exits.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
