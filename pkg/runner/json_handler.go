package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/checkout/pkg/domain"
)

// JSONMessage is one line emitted by the JSONHandler.
type JSONMessage struct {
	Type    string       `json:"type"`
	View    *domain.View `json:"view,omitempty"`
	Prompt  *Prompt      `json:"prompt,omitempty"`
	Message string       `json:"message,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, view domain.View) error {
	return h.Encoder.Encode(JSONMessage{Type: "view", View: &view})
}

// Input emits the prompt and reads one line. The line may be a JSON
// string or plain text.
func (h *JSONHandler) Input(ctx context.Context, p Prompt) (string, error) {
	if err := h.Encoder.Encode(JSONMessage{Type: "prompt", Prompt: &p}); err != nil {
		return "", err
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return val, nil
	}
	return text, nil
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(JSONMessage{Type: "system", Message: msg})
}
