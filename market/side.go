package market

import (
	"fmt"
	"strings"
)

// Side is the direction of an execution. A trade's side is the side of its
// entry leg.
type Side int

const (
	Long  Side = 1
	Short Side = -1
)

func (s Side) String() string {
	switch s {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "unknown"
	}
}

// Direction is +1 for long and -1 for short.
func (s Side) Direction() float64 {
	return float64(s)
}

// Opposite returns the side a closing execution must have to close s.
func (s Side) Opposite() Side {
	return -s
}

func (s Side) Valid() bool {
	return s == Long || s == Short
}

// ParseSide accepts the english spellings and the Japanese 買/売 used by
// domestic brokers.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "買", "buy", "long", "b":
		return Long, nil
	case "売", "sell", "short", "s":
		return Short, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
