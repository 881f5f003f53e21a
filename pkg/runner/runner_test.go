package runner_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/checkout"
	"github.com/aretw0/checkout/pkg/adapters/memory"
	"github.com/aretw0/checkout/pkg/domain"
	"github.com/aretw0/checkout/pkg/ports"
	"github.com/aretw0/checkout/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)
}

func newEngine(t *testing.T, sub ports.Submitter) *checkout.Engine {
	t.Helper()
	eng, err := checkout.New(checkout.WithSubmitter(sub), checkout.WithClock(fixedClock))
	require.NoError(t, err)
	return eng
}

var personalLines = []string{
	"Ada", "Lovelace", "ada@example.com", "555-0100", "12 St James Sq",
	"London", "Greater London", "SW1Y 4JH", "UK",
}

var cardLines = []string{"4111111111111111", "Ada Lovelace", "1227", "123"}

func script(lines ...[]string) io.Reader {
	var all []string
	for _, l := range lines {
		all = append(all, l...)
	}
	return strings.NewReader(strings.Join(all, "\n") + "\n")
}

func TestRunner_CompletesCheckout(t *testing.T) {
	sub := memory.NewSubmitter("Thanks for entering!")
	var out bytes.Buffer

	r := runner.NewRunner(
		runner.WithEngine(newEngine(t, sub)),
		runner.WithInputHandler(runner.NewTextHandler(script(personalLines, cardLines), &out)),
	)

	final, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StepConfirmation, final.CurrentStep)
	assert.Equal(t, runner.DefaultSessionID, final.ID)

	records := sub.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Ada", records[0].FirstName)
	assert.Equal(t, "1111", records[0].LastFour)

	output := out.String()
	assert.Contains(t, output, "Payment confirmed")
	assert.Contains(t, output, "Visa ending in 1111")
	assert.Contains(t, output, "Thanks for entering!")
}

func TestRunner_ReasksOnlyInvalidFields(t *testing.T) {
	var out bytes.Buffer
	personal := append([]string{""}, personalLines[1:]...)

	r := runner.NewRunner(
		runner.WithEngine(newEngine(t, memory.NewSubmitter("ok"))),
		runner.WithInputHandler(runner.NewTextHandler(script(personal, []string{"Ada"}, cardLines), &out)),
	)

	final, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StepConfirmation, final.CurrentStep)
	assert.Equal(t, "Ada", final.Personal[domain.FieldFirstName])
	assert.Contains(t, out.String(), "First name: Please fill out this field.")
}

func TestRunner_BlurReportsCardErrors(t *testing.T) {
	var out bytes.Buffer
	card := []string{"4111111111111112", "Ada Lovelace", "1227", "123"}

	r := runner.NewRunner(
		runner.WithEngine(newEngine(t, memory.NewSubmitter("ok"))),
		runner.WithInputHandler(runner.NewTextHandler(script(personalLines, card, []string{"4111111111111111"}), &out)),
	)

	final, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StepConfirmation, final.CurrentStep)
	assert.Contains(t, out.String(), "[System] Card number: Invalid card number")
	assert.Contains(t, out.String(), "Please correct the errors in the payment form")
}

func TestRunner_BackKeepsValues(t *testing.T) {
	var out bytes.Buffer
	keep := make([]string, len(personalLines))

	r := runner.NewRunner(
		runner.WithEngine(newEngine(t, memory.NewSubmitter("ok"))),
		runner.WithInputHandler(runner.NewTextHandler(script(personalLines, []string{":back"}, keep, cardLines), &out)),
	)

	final, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StepConfirmation, final.CurrentStep)
	assert.Equal(t, "London", final.Personal[domain.FieldCity])
	assert.Contains(t, out.String(), "City [London]: ")
}

func TestRunner_RetriesFailedSubmission(t *testing.T) {
	attempts := 0
	sub := ports.SubmitterFunc(func(ctx context.Context, record domain.Submission) (string, error) {
		attempts++
		if attempts == 1 {
			return "", errors.New("endpoint unavailable")
		}
		return "ok", nil
	})
	var out bytes.Buffer

	r := runner.NewRunner(
		runner.WithEngine(newEngine(t, sub)),
		runner.WithInputHandler(runner.NewTextHandler(script(personalLines, cardLines, []string{""}), &out)),
	)

	final, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, domain.StepConfirmation, final.CurrentStep)
	assert.Contains(t, out.String(), "Payment failed. Please try again.")
	assert.NotContains(t, out.String(), "endpoint unavailable")
}

func TestRunner_QuitAndResume(t *testing.T) {
	store := memory.NewStore()
	eng := newEngine(t, memory.NewSubmitter("ok"))

	first := runner.NewRunner(
		runner.WithEngine(eng),
		runner.WithStore(store),
		runner.WithSessionID("resume-me"),
		runner.WithInputHandler(runner.NewTextHandler(script(personalLines, []string{":quit"}), io.Discard)),
	)
	s, err := first.Run(context.Background())
	require.ErrorIs(t, err, runner.ErrQuit)
	assert.Equal(t, domain.StepCard, s.CurrentStep)

	saved, err := store.Load(context.Background(), "resume-me")
	require.NoError(t, err)
	assert.Equal(t, domain.StepCard, saved.CurrentStep)

	second := runner.NewRunner(
		runner.WithEngine(eng),
		runner.WithStore(store),
		runner.WithSessionID("resume-me"),
		runner.WithInputHandler(runner.NewTextHandler(script(cardLines), io.Discard)),
	)
	final, err := second.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StepConfirmation, final.CurrentStep)
	assert.Equal(t, "Ada", final.Personal[domain.FieldFirstName])
}

func TestRunner_EOF(t *testing.T) {
	r := runner.NewRunner(
		runner.WithEngine(newEngine(t, memory.NewSubmitter("ok"))),
		runner.WithInputHandler(runner.NewTextHandler(script(personalLines[:3]), io.Discard)),
	)

	s, err := r.Run(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	require.NotNil(t, s)
	assert.Equal(t, "ada@example.com", s.Personal[domain.FieldEmail])
}

func TestRunner_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.NewRunner(
		runner.WithEngine(newEngine(t, memory.NewSubmitter("ok"))),
		runner.WithInputHandler(runner.NewTextHandler(script(personalLines), io.Discard)),
	)
	_, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_SecretPrompt(t *testing.T) {
	var out bytes.Buffer
	secretCalls := 0
	h := runner.NewTextHandler(script(personalLines, cardLines[:3]), &out,
		runner.WithSecretReader(func() (string, error) {
			secretCalls++
			return "123", nil
		}),
	)

	r := runner.NewRunner(runner.WithEngine(newEngine(t, memory.NewSubmitter("ok"))), runner.WithInputHandler(h))
	final, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, secretCalls)
	assert.Equal(t, domain.StepConfirmation, final.CurrentStep)
}

func TestRunner_NoEngine(t *testing.T) {
	_, err := runner.NewRunner(runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader(""), io.Discard))).Run(context.Background())
	assert.Error(t, err)
}
