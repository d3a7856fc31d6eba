package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/nelhage/hexai/hex"
)

var _ interface {
	json.Marshaler
	json.Unmarshaler
} = &Weights{}

// Offsets are encoded as an object keyed by "row,col".
type weightsJSON struct {
	Win        *float64           `json:"win,omitempty"`
	Block      *float64           `json:"block,omitempty"`
	LastMove   *float64           `json:"last_move,omitempty"`
	Noise      *float64           `json:"noise,omitempty"`
	Strength   *float64           `json:"strength,omitempty"`
	Randomness *bool              `json:"randomness,omitempty"`
	Offsets    map[string]float64 `json:"offsets,omitempty"`
}

func offsetKey(p hex.Pos) string {
	return fmt.Sprintf("%d,%d", p.Row, p.Col)
}

func (ws *Weights) MarshalJSON() ([]byte, error) {
	h := weightsJSON{
		Win:        &ws.Win,
		Block:      &ws.Block,
		LastMove:   &ws.LastMove,
		Noise:      &ws.Noise,
		Strength:   &ws.Strength,
		Randomness: &ws.Randomness,
	}
	if len(ws.Offsets) > 0 {
		h.Offsets = make(map[string]float64, len(ws.Offsets))
		for _, o := range ws.Offsets {
			h.Offsets[offsetKey(o.Offset)] += o.Score
		}
	}
	return json.Marshal(&h)
}

// UnmarshalJSON overlays the fields present in bs onto ws. An offsets
// object replaces the whole table.
func (ws *Weights) UnmarshalJSON(bs []byte) error {
	var h weightsJSON
	dec := json.NewDecoder(bytes.NewReader(bs))
	dec.DisallowUnknownFields()
	if e := dec.Decode(&h); e != nil {
		return e
	}
	if h.Win != nil {
		ws.Win = *h.Win
	}
	if h.Block != nil {
		ws.Block = *h.Block
	}
	if h.LastMove != nil {
		ws.LastMove = *h.LastMove
	}
	if h.Noise != nil {
		ws.Noise = *h.Noise
	}
	if h.Strength != nil {
		ws.Strength = *h.Strength
	}
	if h.Randomness != nil {
		ws.Randomness = *h.Randomness
	}
	if h.Offsets != nil {
		offsets := make([]OffsetScore, 0, len(h.Offsets))
		for k, v := range h.Offsets {
			var p hex.Pos
			if _, e := fmt.Sscanf(k, "%d,%d", &p.Row, &p.Col); e != nil {
				return fmt.Errorf("Unknown offset: %q", k)
			}
			offsets = append(offsets, OffsetScore{Offset: p, Score: v})
		}
		sort.Slice(offsets, func(i, j int) bool {
			a, b := offsets[i], offsets[j]
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			if a.Offset.Row != b.Offset.Row {
				return a.Offset.Row < b.Offset.Row
			}
			return a.Offset.Col < b.Offset.Col
		})
		ws.Offsets = offsets
	}
	return nil
}
