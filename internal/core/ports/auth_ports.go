package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

// IdentityService resolves the credential presented with a request into a
// voter identity. Sign-up and login live outside this service; Issue exists
// for operators and tests.
type IdentityService interface {
	Resolve(ctx context.Context, token string) (domain.Voter, error)
	Issue(voter domain.Voter, ttl time.Duration) (string, error)
}
