package ir

import "fmt"

// Level is the value carried by a pulse.
type Level uint8

const (
	// Low is the level every button press starts with.
	Low Level = iota
	// High is the only other level.
	High
)

// String returns "low" or "high".
func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
}

// Valid reports whether l is one of the two defined levels.
func (l Level) Valid() bool {
	return l == Low || l == High
}

// ParseLevel parses "low" or "high".
func ParseLevel(s string) (Level, error) {
	switch s {
	case "low":
		return Low, nil
	case "high":
		return High, nil
	}
	return Low, fmt.Errorf("invalid level %q: must be low or high", s)
}

// MarshalText encodes the level as "low" or "high".
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid level %d", uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText decodes "low" or "high".
func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ModuleID is the dense index of a module in a network arena.
type ModuleID int32

// NoModule is the zero-value sentinel for "no module".
const NoModule ModuleID = -1

// Valid reports whether id can index an arena.
func (id ModuleID) Valid() bool {
	return id >= 0
}

// Pulse is one signal travelling along one edge.
type Pulse struct {
	Seq   int64    `json:"seq"`   // Logical clock stamp, assigned on dequeue
	Press int      `json:"press"` // 1-based press number
	Level Level    `json:"level"`
	From  ModuleID `json:"from"`
	To    ModuleID `json:"to"`
}
