package memory

import (
	"context"
	"sync"

	"github.com/aretw0/checkout/pkg/domain"
)

// Submitter implements ports.Submitter by recording every record it receives.
// It is meant for demos, tests and dry runs of the terminal flow.
type Submitter struct {
	mu      sync.Mutex
	ack     string
	err     error
	records []domain.Submission
}

// NewSubmitter creates a submitter that acknowledges with ack.
func NewSubmitter(ack string) *Submitter {
	return &Submitter{ack: ack}
}

// FailWith makes subsequent submissions fail with err. Pass nil to recover.
func (s *Submitter) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Submit records the submission attempt.
func (s *Submitter) Submit(ctx context.Context, record domain.Submission) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	if s.err != nil {
		return "", s.err
	}
	return s.ack, nil
}

// Records returns a copy of every attempt, failed ones included.
func (s *Submitter) Records() []domain.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Submission(nil), s.records...)
}
