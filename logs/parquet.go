package logs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// DecisionRow is one engine decision made during self-play.
//
// Board is the position before the move in board notation; Row and Col
// are the chosen cell. Outcome is 1 if the deciding side went on to win
// the game, -1 if it lost, 0 if the game was unfinished.
type DecisionRow struct {
	GameID      string  `parquet:"game_id,dict"`
	Ply         int32   `parquet:"ply"`
	Rows        int32   `parquet:"rows"`
	Cols        int32   `parquet:"cols"`
	Side        string  `parquet:"side,dict"`
	Board       string  `parquet:"board"`
	Row         int32   `parquet:"row"`
	Col         int32   `parquet:"col"`
	Source      string  `parquet:"source,dict"`
	Policy      string  `parquet:"policy,dict"`
	Score       float64 `parquet:"score"`
	WinRate     float64 `parquet:"win_rate"`
	Simulations int32   `parquet:"simulations"`
	ElapsedUs   int64   `parquet:"elapsed_us"`
	Outcome     int32   `parquet:"outcome"`
}

const decisionSchema = "hex_decision_v1"

// WriteDecisions writes rows to outPath via a temporary file, so readers
// never see a partial file.
func WriteDecisions(outPath string, rows []DecisionRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", decisionSchema),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadDecisions loads every row of a file written by WriteDecisions.
func ReadDecisions(path string) ([]DecisionRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	if v, ok := pf.Lookup("schema"); ok && v != decisionSchema {
		return nil, fmt.Errorf("unexpected schema %q", v)
	}
	reader := parquet.NewGenericReader[DecisionRow](pf)
	defer reader.Close()

	rows := make([]DecisionRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows[:n], nil
}
