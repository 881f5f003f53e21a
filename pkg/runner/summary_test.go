package runner

import (
	"testing"

	"github.com/aretw0/checkout/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestSummaryMarkdown(t *testing.T) {
	view := domain.View{
		Terminal: true,
		Summary: &domain.Submission{
			FirstName:   "Ada",
			LastName:    "Lovelace",
			Email:       "ada@example.com",
			City:        "London",
			Country:     "UK",
			CardType:    "Visa",
			LastFour:    "1111",
			ExpiryMonth: 3,
			ExpiryYear:  2027,
		},
		Acknowledgment: "Thanks | see you",
	}

	md := SummaryMarkdown(view)
	assert.Contains(t, md, "| Name | Ada Lovelace |")
	assert.Contains(t, md, "| Address | London, UK |")
	assert.Contains(t, md, "| Card | Visa ending in 1111 |")
	assert.Contains(t, md, "| Expires | 03/2027 |")
	assert.NotContains(t, md, "| Phone |")
	assert.Contains(t, md, "> Thanks | see you")
}

func TestParseCommand(t *testing.T) {
	assert.Equal(t, cmdBack, parseCommand(" :BACK "))
	assert.Equal(t, cmdQuit, parseCommand(":q"))
	assert.Equal(t, cmdReset, parseCommand(":reset"))
	assert.Equal(t, cmdNone, parseCommand("back"))
}
