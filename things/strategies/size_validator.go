package strategies

import (
	"github.com/twinforge/thing-engine-go/things/commands"
	"github.com/twinforge/thing-engine-go/things/model"
)

// pointerOverhead accounts for the quotes, colon, and separators a pointed-at
// value contributes when spliced back into its parent object.
const pointerOverhead = 5

// SizeValidator enforces the maximum serialized-size budget of a thing before
// a mutation is allowed. It evaluates a cheap upper-bound estimate first and
// falls back to exact serialization only when the cheap bound is inconclusive
// near the threshold.
type SizeValidator struct {
	maxSize    int64
	bandFactor float64
}

// NewSizeValidator creates a SizeValidator. maxSize <= 0 disables the check.
// bandFactor widens the inconclusive band above the limit in which the exact
// (expensive) estimate is consulted; a cheap bound beyond maxSize*bandFactor
// is treated as clearly over and rejected without exact serialization.
func NewSizeValidator(maxSize int64, bandFactor float64) SizeValidator {
	if bandFactor < 1 {
		bandFactor = 1
	}

	return SizeValidator{maxSize: maxSize, bandFactor: bandFactor}
}

// MaxSize returns the configured limit in bytes.
func (v SizeValidator) MaxSize() int64 { return v.maxSize }

// EnsureValidSize gates a mutation on the size budget.
//
// The headers supplier is only invoked when the check fails, so no header
// materialization happens on the hot path. The returned error is a
// PayloadTooLargeError carrying the offending size and the configured limit.
func (v SizeValidator) EnsureValidSize(
	thingID model.ThingID,
	cheapEstimate func() int64,
	exactEstimate func() int64,
	headers func() commands.Headers,
) error {
	if v.maxSize <= 0 {
		return nil
	}

	upperBound := cheapEstimate()
	if upperBound <= v.maxSize {
		return nil
	}

	actual := upperBound
	if upperBound <= int64(float64(v.maxSize)*v.bandFactor) {
		// Inconclusive: the bound is over the limit but within the band where
		// the over-estimation alone could explain it.
		actual = exactEstimate()
		if actual <= v.maxSize {
			return nil
		}
	}

	h := headers()

	return &PayloadTooLargeError{
		ThingID:       thingID,
		Actual:        actual,
		Limit:         v.maxSize,
		CorrelationID: h.CorrelationID,
	}
}
