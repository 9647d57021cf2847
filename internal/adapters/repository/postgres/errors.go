package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

const (
	uniqueViolation     = "unique_violation"
	foreignKeyViolation = "foreign_key_violation"
	queryCanceled       = "query_canceled"
)

func errorCodeName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name()
	}
	return ""
}

// unavailable wraps a store failure. lib/pq reports a statement interrupted
// by context cancellation as query_canceled rather than the context error, so
// that case is tagged as a deadline: whether it committed is unknown.
func unavailable(op string, err error) error {
	if errorCodeName(err) == queryCanceled {
		return fmt.Errorf("%w: %s: %w: %w", domain.ErrUnavailable, op, context.DeadlineExceeded, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrUnavailable, op, err)
}
