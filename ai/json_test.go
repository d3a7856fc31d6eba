package ai

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/nelhage/hexai/hex"
)

func TestMarshalUnmarshal(t *testing.T) {
	cases := []struct {
		in  Weights
		out string
	}{
		{Weights{}, `{"win":0,"block":0,"last_move":0,"noise":0,"strength":0,"randomness":false}`},
		{
			Weights{Win: 100, Block: 50, Strength: 0.5, Randomness: true},
			`{"win":100,"block":50,"last_move":0,"noise":0,"strength":0.5,"randomness":true}`,
		},
		{
			Weights{Win: 1, Offsets: []OffsetScore{{hex.Pos{Row: -1, Col: 0}, 8}, {hex.Pos{Row: 0, Col: 1}, 10}}},
			`{"win":1,"block":0,"last_move":0,"noise":0,"strength":0,"randomness":false,"offsets":{"-1,0":8,"0,1":10}}`,
		},
	}
	for i, tc := range cases {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			out, e := json.Marshal(&tc.in)
			if e != nil {
				t.Fatalf("Marshal(): %v", e)
			}
			if string(out) != tc.out {
				t.Fatalf("Marshal() = %q != %q", out, tc.out)
			}

			var back Weights
			e = json.Unmarshal(out, &back)
			if e != nil {
				t.Fatalf("Unmarshal(%q): %v", out, e)
			}
			if back.Win != tc.in.Win || back.Block != tc.in.Block ||
				back.Strength != tc.in.Strength || back.Randomness != tc.in.Randomness {
				t.Errorf("roundtrip = %+v != %+v", back, tc.in)
			}
			if offsetTable(back.Offsets) != offsetTable(tc.in.Offsets) {
				t.Errorf("roundtrip offsets = %v != %v", back.Offsets, tc.in.Offsets)
			}
		})
	}
}

func offsetTable(os []OffsetScore) string {
	m := make(map[string]float64)
	for _, o := range os {
		m[offsetKey(o.Offset)] += o.Score
	}
	return fmt.Sprint(m)
}

func TestUnmarshalOverlay(t *testing.T) {
	w := DefaultWeights
	if e := json.Unmarshal([]byte(`{"strength":0.25}`), &w); e != nil {
		t.Fatal(e)
	}
	if w.Strength != 0.25 {
		t.Errorf("strength=%v", w.Strength)
	}
	if w.Win != DefaultWeights.Win || len(w.Offsets) != len(DefaultOffsets) {
		t.Errorf("overlay clobbered defaults: %+v", w)
	}

	if e := json.Unmarshal([]byte(`{"offsets":{"1,1":4}}`), &w); e != nil {
		t.Fatal(e)
	}
	if len(w.Offsets) != 1 || w.Offsets[0].Offset != (hex.Pos{Row: 1, Col: 1}) {
		t.Errorf("offsets=%v", w.Offsets)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	cases := []string{
		`{"bogus":1}`,
		`{"offsets":{"a,b":1}}`,
		`[]`,
	}
	for _, tc := range cases {
		var w Weights
		if e := json.Unmarshal([]byte(tc), &w); e == nil {
			t.Errorf("Unmarshal(%s): no error", tc)
		}
	}
}
