package strategies_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinforge/thing-engine-go/things/commands"
	"github.com/twinforge/thing-engine-go/things/model"
	"github.com/twinforge/thing-engine-go/things/strategies"
)

func Test_SizeValidator_DisabledAcceptsEverything(t *testing.T) {
	validator := strategies.NewSizeValidator(0, 2.0)

	err := validator.EnsureValidSize(
		model.MustThingID("org.example:lamp-1"),
		func() int64 { panic("cheap estimate must not run when disabled") },
		func() int64 { panic("exact estimate must not run when disabled") },
		func() commands.Headers { panic("headers must not be materialized when disabled") },
	)

	assert.NoError(t, err)
}

func Test_SizeValidator_CheapBoundUnderLimitAcceptsWithoutExactEstimate(t *testing.T) {
	validator := strategies.NewSizeValidator(100, 2.0)

	err := validator.EnsureValidSize(
		model.MustThingID("org.example:lamp-1"),
		func() int64 { return 100 },
		func() int64 { panic("exact estimate must not run for a conclusive cheap bound") },
		func() commands.Headers { panic("headers must not be materialized on success") },
	)

	assert.NoError(t, err)
}

func Test_SizeValidator_CheapBoundBeyondBandRejectsWithoutExactEstimate(t *testing.T) {
	// arrange - bound far beyond limit*bandFactor, over-estimation alone cannot
	// explain it, so the exact serialization is skipped
	validator := strategies.NewSizeValidator(100, 2.0)

	// act
	err := validator.EnsureValidSize(
		model.MustThingID("org.example:lamp-1"),
		func() int64 { return 500 },
		func() int64 { panic("exact estimate must not run beyond the band") },
		func() commands.Headers {
			return commands.BuildHeadersWithCorrelationID("corr-1")
		},
	)

	// assert
	require.Error(t, err)
	var tooLarge *strategies.PayloadTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(500), tooLarge.Actual)
	assert.Equal(t, int64(100), tooLarge.Limit)
	assert.Equal(t, "corr-1", tooLarge.CorrelationID)
}

func Test_SizeValidator_InBandExactEstimateDecides(t *testing.T) {
	tests := []struct {
		name      string
		exactSize int64
		wantError bool
	}{
		{name: "exact_under_limit_accepts", exactSize: 90, wantError: false},
		{name: "exact_over_limit_rejects", exactSize: 130, wantError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// arrange - cheap bound of 150 is within 100*2.0, so the exact
			// estimate is consulted
			validator := strategies.NewSizeValidator(100, 2.0)
			exactInvoked := false

			// act
			err := validator.EnsureValidSize(
				model.MustThingID("org.example:lamp-1"),
				func() int64 { return 150 },
				func() int64 {
					exactInvoked = true
					return tc.exactSize
				},
				func() commands.Headers { return commands.BuildHeaders() },
			)

			// assert
			assert.True(t, exactInvoked)
			if tc.wantError {
				var tooLarge *strategies.PayloadTooLargeError
				require.ErrorAs(t, err, &tooLarge)
				assert.Equal(t, tc.exactSize, tooLarge.Actual)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_SizeValidator_BandFactorBelowOneIsClampedToOne(t *testing.T) {
	// arrange - with the factor clamped to 1 there is no inconclusive band,
	// any bound over the limit rejects without the exact estimate
	validator := strategies.NewSizeValidator(100, 0.5)

	// act
	err := validator.EnsureValidSize(
		model.MustThingID("org.example:lamp-1"),
		func() int64 { return 101 },
		func() int64 { panic("exact estimate must not run without a band") },
		func() commands.Headers { return commands.BuildHeaders() },
	)

	// assert
	var tooLarge *strategies.PayloadTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(101), tooLarge.Actual)
}
