package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/checkout/pkg/domain"
)

// SummaryMarkdown renders the confirmation screen as markdown.
func SummaryMarkdown(view domain.View) string {
	var b strings.Builder
	b.WriteString("# Payment confirmed\n\n")
	if view.Summary == nil {
		return b.String()
	}
	sum := view.Summary

	b.WriteString("| | |\n|---|---|\n")
	row := func(k, v string) {
		if strings.TrimSpace(v) != "" {
			fmt.Fprintf(&b, "| %s | %s |\n", k, escapeCell(v))
		}
	}
	row("Name", strings.TrimSpace(sum.FirstName+" "+sum.LastName))
	row("Email", sum.Email)
	row("Phone", sum.Phone)
	row("Address", joinNonEmpty(", ", sum.Address, sum.City, sum.Province, sum.Postal, sum.Country))
	row("Card", fmt.Sprintf("%s ending in %s", sum.CardType, sum.LastFour))
	if sum.ExpiryMonth > 0 {
		row("Expires", fmt.Sprintf("%02d/%d", sum.ExpiryMonth, sum.ExpiryYear))
	}

	if ack := strings.TrimSpace(view.Acknowledgment); ack != "" {
		b.WriteString("\n> ")
		b.WriteString(strings.ReplaceAll(ack, "\n", "\n> "))
		b.WriteString("\n")
	}
	return b.String()
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
