package bubble

// Side identifies which end of a [Range] the caller just edited.
type Side int

const (
	SideMin Side = iota
	SideMax
)

// Range is the [Min, Max] radius interval circles are sized from.
type Range struct {
	Min float64 `json:"min" toml:"min" yaml:"min"`
	Max float64 `json:"max" toml:"max" yaml:"max"`
}

// Radius maps a size fraction onto the range: Min + t·(Max−Min).
func (r Range) Radius(t float64) float64 {
	return r.Min + t*(r.Max-r.Min)
}

// Limits bounds the values a [Range] may take. A zero Limits imposes none.
type Limits struct {
	Lo float64 `json:"lo" toml:"lo" yaml:"lo"`
	Hi float64 `json:"hi" toml:"hi" yaml:"hi"`
}

func (l Limits) clamp(v float64) float64 {
	if l.Lo == 0 && l.Hi == 0 {
		return v
	}
	return min(l.Hi, max(l.Lo, v))
}

// Enforce repairs an inverted range after an edit to one side: the side that
// was not edited follows the edited one. Both ends are then clamped to lim.
func (r Range) Enforce(edited Side, lim Limits) Range {
	if r.Min > r.Max {
		if edited == SideMin {
			r.Max = r.Min
		} else {
			r.Min = r.Max
		}
	}
	r.Min = lim.clamp(r.Min)
	r.Max = lim.clamp(r.Max)
	return r
}
