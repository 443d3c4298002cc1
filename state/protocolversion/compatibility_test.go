package protocolversion_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/driveabci/blockstate/model/platform"
	"github.com/driveabci/blockstate/state/protocolversion"
	"github.com/driveabci/blockstate/utils/unittest"
)

func TestEvaluate(t *testing.T) {
	// version 4 breaks compatibility with everything before 3
	compatibility := platform.CompatibilityMap{1: 1, 2: 1, 3: 1, 4: 3, 5: 3}

	cases := []struct {
		name     string
		proposed platform.Version
		current  platform.Version
		expected protocolversion.Outcome
	}{
		{
			name:     "same version",
			proposed: 2, current: 2,
			expected: protocolversion.Outcome{Status: protocolversion.Accepted, Proposed: 2},
		},
		{
			name:     "newer compatible version",
			proposed: 3, current: 1,
			expected: protocolversion.Outcome{Status: protocolversion.Accepted, Proposed: 3},
		},
		{
			name:     "older compatible version",
			proposed: 3, current: 5,
			expected: protocolversion.Outcome{Status: protocolversion.Accepted, Proposed: 3},
		},
		{
			name:     "newer incompatible version",
			proposed: 4, current: 2,
			expected: protocolversion.Outcome{Status: protocolversion.Incompatible, Proposed: 4, MinCompatible: 3},
		},
		{
			name:     "older incompatible version",
			proposed: 2, current: 5,
			expected: protocolversion.Outcome{Status: protocolversion.Incompatible, Proposed: 2, MinCompatible: 3},
		},
		{
			name:     "unknown version",
			proposed: 6, current: 5,
			expected: protocolversion.Outcome{Status: protocolversion.Unsupported, Proposed: 6, LatestKnown: 5},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			outcome, err := protocolversion.Evaluate(c.proposed, c.current, 5, compatibility)
			require.NoError(t, err)
			assert.Equal(t, c.expected, outcome)
		})
	}
}

func TestEvaluate_UndefinedCompatibility(t *testing.T) {
	compatibility := platform.CompatibilityMap{1: 1, 3: 2}

	t.Run("missing entry of the proposed version", func(t *testing.T) {
		_, err := protocolversion.Evaluate(2, 1, 3, compatibility)
		require.Error(t, err)

		var failure *protocolversion.CompatibilityUndefinedFailure
		require.True(t, errors.As(err, &failure))
		assert.Equal(t, platform.Version(2), failure.Version)
		assert.True(t, protocolversion.IsFailure(err))
		assert.False(t, protocolversion.IsRejection(err))
	})

	t.Run("missing entry of the current version", func(t *testing.T) {
		_, err := protocolversion.Evaluate(1, 2, 3, compatibility)
		assert.True(t, protocolversion.HasFailureCode(err, protocolversion.FailureCodeCompatibilityUndefined))
	})

	t.Run("unsupported is decided before the map is consulted", func(t *testing.T) {
		outcome, err := protocolversion.Evaluate(7, 2, 3, compatibility)
		require.NoError(t, err)
		assert.Equal(t, protocolversion.Unsupported, outcome.Status)
	})
}

func TestOutcome_Err(t *testing.T) {
	assert.NoError(t, protocolversion.Outcome{Status: protocolversion.Accepted}.Err())

	err := protocolversion.Outcome{Status: protocolversion.Unsupported, Proposed: 9, LatestKnown: 4}.Err()
	assert.True(t, protocolversion.IsRejection(err))
	assert.True(t, protocolversion.HasErrorCode(err, protocolversion.ErrCodeUnsupportedProtocolVersion))
	assert.False(t, protocolversion.IsFailure(err))

	err = protocolversion.Outcome{Status: protocolversion.Incompatible, Proposed: 1, MinCompatible: 3}.Err()
	assert.True(t, protocolversion.HasErrorCode(err, protocolversion.ErrCodeIncompatibleProtocolVersion))
}

func TestPolicy(t *testing.T) {
	policy := protocolversion.NewPolicy(1, 3, unittest.CompatibilityMapFixture(3))

	outcome, err := policy.Validate(2)
	require.NoError(t, err)
	assert.True(t, outcome.Accepted())

	outcome, err = policy.Validate(3)
	require.NoError(t, err)
	assert.Equal(t, protocolversion.Incompatible, outcome.Status)

	policy.SetCurrent(2)
	assert.Equal(t, platform.Version(2), policy.Current())

	outcome, err = policy.Validate(3)
	require.NoError(t, err)
	assert.True(t, outcome.Accepted())
	assert.Equal(t, platform.Version(3), policy.LatestKnown())
}

// compatibilityMapGenerator draws a complete map for versions 1 to latest.
func compatibilityMapGenerator(latest platform.Version) *rapid.Generator[platform.CompatibilityMap] {
	return rapid.Custom(func(t *rapid.T) platform.CompatibilityMap {
		m := make(platform.CompatibilityMap, latest)
		for v := platform.Version(1); v <= latest; v++ {
			m[v] = platform.Version(rapid.Uint32Range(1, uint32(v)).Draw(t, "min-compatible"))
		}
		return m
	})
}

func TestEvaluate_UnsupportedIffAboveLatest(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		latest := platform.Version(rapid.Uint32Range(1, 20).Draw(t, "latest"))
		compatibility := compatibilityMapGenerator(latest).Draw(t, "compatibility")
		current := platform.Version(rapid.Uint32Range(1, uint32(latest)).Draw(t, "current"))
		proposed := platform.Version(rapid.Uint32Range(0, 40).Draw(t, "proposed"))

		outcome, err := protocolversion.Evaluate(proposed, current, latest, compatibility)
		require.NoError(t, err)
		require.Equal(t, proposed > latest, outcome.Status == protocolversion.Unsupported)
	})
}

func TestEvaluate_Symmetric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		latest := platform.Version(rapid.Uint32Range(1, 20).Draw(t, "latest"))
		compatibility := compatibilityMapGenerator(latest).Draw(t, "compatibility")
		a := platform.Version(rapid.Uint32Range(1, uint32(latest)).Draw(t, "a"))
		b := platform.Version(rapid.Uint32Range(1, uint32(latest)).Draw(t, "b"))

		ab, err := protocolversion.Evaluate(a, b, latest, compatibility)
		require.NoError(t, err)
		ba, err := protocolversion.Evaluate(b, a, latest, compatibility)
		require.NoError(t, err)

		require.Equal(t, ab.Accepted(), ba.Accepted())
		require.Equal(t, ab.Status, ba.Status)
	})
}
