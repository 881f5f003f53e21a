package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Checkout is a three-step payment flow engine",
	Long: `Checkout drives a payment form through personal details, card details and
confirmation. It can be hosted as an HTTP API, an MCP server or run in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return viper.BindPFlags(cmd.Flags())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// A missing .env is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix("CHECKOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("config", "checkout.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("store", "", "Session store backend (memory, file, redis)")
	rootCmd.PersistentFlags().String("dir", "", "Directory for the file store")
	rootCmd.PersistentFlags().String("endpoint", "", "Submission endpoint URL")
}
