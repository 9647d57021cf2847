package domain

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleVoter Role = "voter"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleVoter
}

// CanVote reports whether the role may cast ballots. Administrators manage
// the catalog and are excluded from voting.
func (r Role) CanVote() bool {
	return r == RoleVoter
}

// Voter is an identity already resolved by the authentication layer.
type Voter struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}
