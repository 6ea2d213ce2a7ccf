package errors

import "math"

// MaxCount caps the number of circles a single engine will pack. The solver
// is quadratic in the number of circles per region.
const MaxCount = 5000

// ValidateCount checks a requested circle count.
func ValidateCount(count int) error {
	if count < 0 {
		return New(ErrCodeInvalidCount, "circle count must be >= 0, got %d", count)
	}
	if count > MaxCount {
		return New(ErrCodeInvalidCount, "circle count too large (max %d), got %d", MaxCount, count)
	}
	return nil
}

// ValidateGroups checks a group count against the circle count. With no
// circles any positive group count is accepted.
func ValidateGroups(groups, count int) error {
	if groups < 1 {
		return New(ErrCodeInvalidGroups, "group count must be >= 1, got %d", groups)
	}
	if count > 0 && groups > count {
		return New(ErrCodeInvalidGroups, "group count %d exceeds circle count %d", groups, count)
	}
	return nil
}

// ValidateColumns checks a grid column count.
func ValidateColumns(columns int) error {
	if columns < 1 {
		return New(ErrCodeInvalidColumns, "column count must be >= 1, got %d", columns)
	}
	return nil
}

// ValidateRadiusRange checks a [min, max] radius interval.
func ValidateRadiusRange(minR, maxR float64) error {
	if !finite(minR) || !finite(maxR) {
		return New(ErrCodeInvalidRadius, "radius range must be finite, got [%v, %v]", minR, maxR)
	}
	if minR < 0 {
		return New(ErrCodeInvalidRadius, "minimum radius must be >= 0, got %v", minR)
	}
	if minR > maxR {
		return New(ErrCodeInvalidRadius, "minimum radius %v exceeds maximum %v", minR, maxR)
	}
	return nil
}

// ValidateViewport checks viewport dimensions.
func ValidateViewport(width, height, scrollTop float64) error {
	if !finite(width) || !finite(height) || !finite(scrollTop) {
		return New(ErrCodeInvalidViewport, "viewport must be finite")
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidViewport, "viewport must have positive size, got %vx%v", width, height)
	}
	if scrollTop < 0 {
		return New(ErrCodeInvalidViewport, "scroll offset must be >= 0, got %v", scrollTop)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
