package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/checkout/pkg/card"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// cardReport is the result of an offline card check.
type cardReport struct {
	Formatted string      `json:"formatted"`
	Network   string      `json:"network,omitempty"`
	Checks    []cardCheck `json:"checks"`
}

type cardCheck struct {
	Field   string `json:"field"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func (r cardReport) valid() bool {
	for _, c := range r.Checks {
		if !c.Valid {
			return false
		}
	}
	return true
}

func checkCard(number, expiry, cvv string, now time.Time) cardReport {
	formatted := card.FormatNumber(number)
	report := cardReport{Formatted: formatted}

	n, err := card.ValidateNumber(formatted)
	report.Checks = append(report.Checks, checkOf("number", err))
	if err == nil {
		report.Network = n.Rule.Name
	}

	if expiry != "" {
		_, err := card.ValidateExpiry(card.FormatExpiry(expiry), now)
		report.Checks = append(report.Checks, checkOf("expiry", err))
	}
	if cvv != "" {
		report.Checks = append(report.Checks, checkOf("cvv", card.ValidateCVV(card.FormatCVV(cvv), formatted)))
	}
	return report
}

func checkOf(field string, err error) cardCheck {
	if err != nil {
		return cardCheck{Field: field, Message: err.Error()}
	}
	return cardCheck{Field: field, Valid: true}
}

var cardCmd = &cobra.Command{
	Use:   "card <number>",
	Short: "Validate a card number offline",
	Long: `Checks a card number with the same rules the checkout applies: length,
network detection and the Luhn checksum. --expiry and --cvv are checked too
when given. Nothing is submitted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expiry, _ := cmd.Flags().GetString("expiry")
		cvv, _ := cmd.Flags().GetString("cvv")
		output, _ := cmd.Flags().GetString("output")

		report := checkCard(args[0], expiry, cvv, time.Now())

		switch output {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		case "", "text":
			printCardReport(termenv.NewOutput(cmd.OutOrStdout()), report)
		default:
			return fmt.Errorf("unknown output format %q", output)
		}

		if !report.valid() {
			os.Exit(2)
		}
		return nil
	},
}

func printCardReport(out *termenv.Output, r cardReport) {
	fmt.Fprintf(out, "%s\n", out.String(r.Formatted).Bold())
	if r.Network != "" {
		fmt.Fprintf(out, "  network  %s\n", r.Network)
	}
	for _, c := range r.Checks {
		if c.Valid {
			fmt.Fprintf(out, "  %s %s\n", out.String("✓").Foreground(out.Color("2")), c.Field)
			continue
		}
		fmt.Fprintf(out, "  %s %s: %s\n", out.String("✗").Foreground(out.Color("1")), c.Field, c.Message)
	}
}

func init() {
	rootCmd.AddCommand(cardCmd)
	cardCmd.Flags().String("expiry", "", "Expiry date as MM/YY or MMYY")
	cardCmd.Flags().String("cvv", "", "Security code")
	cardCmd.Flags().StringP("output", "o", "text", "Output format (text, json)")
}
