package pipeline

import (
	"strconv"
	"strings"

	"github.com/matzehuels/bubblepack/pkg/engine"
	"github.com/matzehuels/bubblepack/pkg/errors"
)

// ParseRange parses a radius range written as "MIN..MAX" or "MIN:MAX".
// A single number is a degenerate range.
func ParseRange(s string) (minR, maxR float64, err error) {
	s = strings.TrimSpace(s)
	lo, hi, ok := strings.Cut(s, "..")
	if !ok {
		lo, hi, ok = strings.Cut(s, ":")
	}
	if !ok {
		hi = lo
	}
	if minR, err = parseFloat(lo); err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidRadius, err, "parse range %q", s)
	}
	if maxR, err = parseFloat(hi); err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidRadius, err, "parse range %q", s)
	}
	return minR, maxR, errors.ValidateRadiusRange(minR, maxR)
}

// ParseViewport parses a viewport written as "WxH" or "WxH+SCROLL".
func ParseViewport(s string) (engine.Viewport, error) {
	s = strings.TrimSpace(s)
	size, scroll, hasScroll := strings.Cut(s, "+")
	w, h, ok := strings.Cut(strings.ToLower(size), "x")
	if !ok {
		return engine.Viewport{}, errors.New(errors.ErrCodeInvalidViewport, "viewport %q must look like WIDTHxHEIGHT", s)
	}
	var v engine.Viewport
	var err error
	if v.Width, err = parseFloat(w); err != nil {
		return engine.Viewport{}, errors.Wrap(errors.ErrCodeInvalidViewport, err, "parse viewport %q", s)
	}
	if v.Height, err = parseFloat(h); err != nil {
		return engine.Viewport{}, errors.Wrap(errors.ErrCodeInvalidViewport, err, "parse viewport %q", s)
	}
	if hasScroll {
		if v.ScrollTop, err = parseFloat(scroll); err != nil {
			return engine.Viewport{}, errors.Wrap(errors.ErrCodeInvalidViewport, err, "parse viewport %q", s)
		}
	}
	return v, v.Validate()
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
