package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type voterClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type identityService struct {
	secret []byte
}

func NewIdentityService(secret []byte) ports.IdentityService {
	return &identityService{secret: secret}
}

func (s *identityService) Resolve(_ context.Context, token string) (domain.Voter, error) {
	if token == "" {
		return domain.Voter{}, domain.ErrUnauthenticated
	}

	claims := &voterClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return domain.Voter{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Voter{}, fmt.Errorf("%w: invalid subject", domain.ErrUnauthenticated)
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Voter{}, fmt.Errorf("%w: unknown role %q", domain.ErrUnauthenticated, claims.Role)
	}

	return domain.Voter{ID: id, Role: role}, nil
}

func (s *identityService) Issue(voter domain.Voter, ttl time.Duration) (string, error) {
	if voter.ID == uuid.Nil || !voter.Role.Valid() {
		return "", errors.New("voter id and a valid role are required")
	}

	now := time.Now()
	claims := voterClaims{
		Role: string(voter.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   voter.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
