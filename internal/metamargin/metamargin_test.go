package metamargin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearBiasFn simulates a chamber whose convolved mean score moves
// linearly with bias, crossing `cross` score at bias 0.
func linearBiasFn(cross int, slope float64) BiasFn {
	return func(bias float64) int {
		return cross + int(bias*slope)
	}
}

func TestSymmetricRaceMetamarginNearZero(t *testing.T) {
	biasFn := linearBiasFn(30, 100) // score 30 at bias 0, midpoint 30
	mm, err := Solve(biasFn, 30, 30, 60)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, mm, 1e-9)
}

func TestLeaderHasPositiveMetamargin(t *testing.T) {
	biasFn := linearBiasFn(40, 100) // already past midpoint at bias 0
	mm, err := Solve(biasFn, 30, 40, 60)
	require.NoError(t, err)
	assert.Greater(t, mm, 0.0)
}

func TestTiebreakerMajority(t *testing.T) {
	assert.Equal(t, 51, TiebreakerMajority(100))
	assert.Equal(t, 3, TiebreakerMajority(5))
}

func TestAbortsPastBound(t *testing.T) {
	biasFn := func(bias float64) int { return 0 } // never reaches midpoint
	_, err := Solve(biasFn, 10, 0, 100)
	require.Error(t, err)
}
