package engine

import (
	"strings"

	"github.com/matzehuels/bubblepack/pkg/errors"
)

// Mode selects which layout the engine maintains.
type Mode int

const (
	// Clustered packs every circle around the viewport centre.
	Clustered Mode = iota
	// Grouped packs each group inside its own grid cell.
	Grouped
	// Converging is the transient state between leaving Grouped and
	// returning to Clustered. No layout runs while it is active.
	Converging
)

var modeNames = [...]string{
	Clustered:  "clustered",
	Grouped:    "grouped",
	Converging: "converging",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ParseMode parses a mode name as printed by [Mode.String].
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(m), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q (want clustered, grouped or converging)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
