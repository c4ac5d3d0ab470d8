package match

import (
	"context"
	"errors"
	"time"

	"github.com/GoFutureTeam/gofomentos/internal/models"
)

// ErrMatchTimeout marks a match request that exceeded its wall-clock
// bound. Callers must surface it distinctly from an empty result list:
// "timed out, retry" and "no compatible notices" are different answers.
var ErrMatchTimeout = errors.New("match request timed out")

// DefaultMatchTimeout bounds a whole match request, including any
// latency in assembling the notice collection. The scoring itself is
// fast enough that it is not cancellable mid-computation.
const DefaultMatchTimeout = 10 * time.Second

// Matcher wraps the ranking computation with cancellation and timeout
// handling for the request path.
type Matcher struct {
	Timeout time.Duration
}

func NewMatcher(timeout time.Duration) *Matcher {
	if timeout <= 0 {
		timeout = DefaultMatchTimeout
	}
	return &Matcher{Timeout: timeout}
}

// FindMatches races the ranking against the matcher timeout and the
// caller's context. On timeout the work is abandoned and ErrMatchTimeout
// returned; a partial result is never surfaced.
func (m *Matcher) FindMatches(ctx context.Context, p *models.Projeto, editais []models.Edital) ([]models.MatchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrMatchTimeout
		}
		return nil, err
	}

	done := make(chan []models.MatchResult, 1)
	go func() {
		done <- Rank(p, editais)
	}()

	select {
	case results := <-done:
		return results, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrMatchTimeout
		}
		return nil, ctx.Err()
	}
}
