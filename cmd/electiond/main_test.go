package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/election/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/services"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTallyCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "election.db")

	_, err := run(t, "migrate", "--db-driver=sqlite", "--database-url="+path)
	require.NoError(t, err)

	db, err := sqlite.Open(context.Background(), path, 0)
	require.NoError(t, err)
	err = sqlite.NewCatalogRepository(db).SavePosition(context.Background(), &domain.Position{ID: uuid.New(), Name: "President", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := run(t, "tally", "--db-driver=sqlite", "--database-url="+path)
	require.NoError(t, err)

	var tally domain.Tally
	require.NoError(t, json.Unmarshal([]byte(out), &tally))
	require.Len(t, tally, 1)
	assert.Equal(t, "President", tally[0].PositionName)
	assert.Empty(t, tally[0].Candidates)

	_, err = run(t, "migrate", "down", "--db-driver=sqlite", "--database-url="+path)
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("ELECTION_JWT_SECRET", "cli-secret")

	out, err := run(t, "token", "--voter-id=22222222-2222-2222-2222-222222222222", "--role=admin")
	require.NoError(t, err)

	voter, err := services.NewIdentityService([]byte("cli-secret")).Resolve(context.Background(), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, voter.Role)
	assert.Equal(t, "22222222-2222-2222-2222-222222222222", voter.ID.String())

	_, err = run(t, "token", "--role=guest")
	assert.Error(t, err)
}

func TestServeRequiresSecret(t *testing.T) {
	t.Setenv("ELECTION_JWT_SECRET", "")

	_, err := run(t, "serve", "--db-driver=sqlite", "--database-url="+filepath.Join(t.TempDir(), "x.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret is required")
}
