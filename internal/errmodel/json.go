package errmodel

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

type modelJSON struct {
	ErrorScore map[string]int `json:"error_score"`
	ErrorStats map[string]int `json:"error_stats"`
}

// MarshalJSON encodes scores keyed by character and pairs keyed by Pair.Key.
func (m *Model) MarshalJSON() ([]byte, error) {
	out := modelJSON{
		ErrorScore: make(map[string]int, len(m.scores)),
		ErrorStats: make(map[string]int, len(m.pairs)),
	}
	for c, v := range m.scores {
		out.ErrorScore[string(c)] = v
	}
	for p, v := range m.pairs {
		out.ErrorStats[p.Key()] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON replaces the model contents. Params are kept.
func (m *Model) UnmarshalJSON(data []byte) error {
	var in modelJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	scores := make(map[rune]int, len(in.ErrorScore))
	for k, v := range in.ErrorScore {
		c, size := utf8.DecodeRuneInString(k)
		if c == utf8.RuneError || size != len(k) {
			return fmt.Errorf("invalid score key %q", k)
		}
		if v < 0 {
			return fmt.Errorf("negative score for %q", k)
		}
		scores[c] = v
	}
	pairs := make(map[Pair]int, len(in.ErrorStats))
	for k, v := range in.ErrorStats {
		p, err := ParsePairKey(k)
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("negative count for %q", k)
		}
		pairs[p] = v
	}
	if m.params == (Params{}) {
		m.params = DefaultParams()
	}
	m.scores = scores
	m.pairs = pairs
	return nil
}
