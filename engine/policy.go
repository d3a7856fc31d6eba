package engine

import (
	"fmt"
	"strings"
)

// Policy selects how the controller combines its evaluators.
type Policy int

const (
	Hybrid Policy = iota
	ThreatFocused
	RolloutFocused
	PositionalOnly
)

var policyNames = map[Policy]string{
	Hybrid:         "hybrid",
	ThreatFocused:  "threat",
	RolloutFocused: "rollout",
	PositionalOnly: "positional",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

func (p Policy) Valid() bool {
	_, ok := policyNames[p]
	return ok
}

func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range policyNames {
		if s == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown policy: %q", s)
}

func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown policy: %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(bs []byte) error {
	v, err := ParsePolicy(string(bs))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
