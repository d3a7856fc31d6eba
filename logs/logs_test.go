package logs

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(repo.Close)
	return repo
}

func TestRepository(t *testing.T) {
	repo := openTemp(t)
	now := time.Now().UTC().Truncate(time.Second)

	g := &Game{
		Timestamp: now, Rows: 5, Cols: 5,
		PlayerA: "hybrid", PlayerB: "random",
		Winner: "A", Moves: 9, Record: "a1 e5 b1 d5 c1 c5 d1 b5 e1",
	}
	require.NoError(t, repo.InsertGame(g))
	assert.NotZero(t, g.ID)

	require.NoError(t, repo.InsertGames([]*Game{
		{Timestamp: now, Rows: 5, Cols: 5, PlayerA: "random", PlayerB: "hybrid", Winner: "B", Moves: 12},
		{Timestamp: now, Rows: 7, Cols: 7, PlayerA: "hybrid", PlayerB: "random", Winner: "B", Moves: 20},
	}))

	games, err := repo.Games()
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, g.ID, games[0].ID)
	assert.Equal(t, g.Record, games[0].Record)
	assert.Equal(t, 7, games[2].Rows)
	assert.True(t, now.Equal(games[0].Timestamp), "%v != %v", now, games[0].Timestamp)

	one, err := repo.Game(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "hybrid", one.PlayerA)
	assert.Equal(t, 9, one.Moves)
	_, err = repo.Game(1000)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	recs, err := repo.Records()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, PlayerRecord{Player: "hybrid", Games: 3, Wins: 2}, recs[0])
	assert.Equal(t, PlayerRecord{Player: "random", Games: 3, Wins: 1}, recs[1])
}

func TestDecisions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "decisions.parquet")
	rows := []DecisionRow{
		{GameID: "g1", Ply: 0, Rows: 5, Cols: 5, Side: "A", Board: "x5/x5/x5/x5/x5 1",
			Row: 2, Col: 2, Source: "positional", Policy: "hybrid", Score: 12.5, Outcome: 1},
		{GameID: "g1", Ply: 1, Rows: 5, Cols: 5, Side: "B", Board: "x5/x5/x2,1,x2/x5/x5 2",
			Row: 1, Col: 2, Source: "rollout", Policy: "hybrid", WinRate: 0.4, Simulations: 40, Outcome: -1},
	}
	require.NoError(t, WriteDecisions(path, rows))
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	got, err := ReadDecisions(path)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}
