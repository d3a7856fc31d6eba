package analyze

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/hexai/hex"
	"github.com/nelhage/hexai/logs"
	"github.com/nelhage/hexai/notation"
)

func command(t *testing.T, args ...string) *Command {
	t.Helper()
	var c Command
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	c.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return &c
}

func TestLocalAnalysis(t *testing.T) {
	c := command(t, "-quiet", "-explain", "-n", "3", "-seed", "5", "-simulations", "20")
	b, side, err := c.position([]string{"1,1,1,1,x/x5/x5/x5/x5 2"})
	require.NoError(t, err)

	a, err := c.buildAnalysis(context.Background(), b)
	require.NoError(t, err)
	defer a.Close()

	var out bytes.Buffer
	require.NoError(t, a.Analyze(context.Background(), &out, b, side))
	assert.Contains(t, out.String(), "regions: A=1 B=0")
	assert.Contains(t, out.String(), "must block: e1")
	assert.Contains(t, out.String(), "best: e1 source=threat")
	assert.Contains(t, out.String(), "move  score")
}

func TestPositionFromGame(t *testing.T) {
	db := filepath.Join(t.TempDir(), "games.db")
	repo, err := logs.Open(db)
	require.NoError(t, err)
	g := &logs.Game{Timestamp: time.Now(), Rows: 5, Cols: 5, PlayerA: "a", PlayerB: "b",
		Moves: 3, Record: "c3 b4 d2"}
	require.NoError(t, repo.InsertGame(g))
	repo.Close()

	c := command(t, "-db", db, "-game", "1", "-move", "2", "-variation", "a1 a2")
	c.game = g.ID
	b, side, err := c.position(nil)
	require.NoError(t, err)
	assert.Equal(t, hex.SideA, side)
	assert.Equal(t, 2, b.Ply())

	side, err = applyVariation(b, side, c.variation)
	require.NoError(t, err)
	assert.Equal(t, hex.SideA, side)
	assert.Equal(t, "1,x4/2,x4/x2,1,x2/x,2,x3/x5 1 a2", notation.FormatBoard(b, side))

	_, err = applyVariation(b, side, "a1")
	assert.Error(t, err)
}
