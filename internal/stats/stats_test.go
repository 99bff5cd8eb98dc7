package stats_test

import (
	"testing"

	"github.com/stegoscope/mp3scope/internal/stats"
	"github.com/stretchr/testify/require"
)

func TestNumeric_Summary(t *testing.T) {
	var n stats.Numeric
	n.Add(128)
	n.Add(192)
	n.Add(160)

	s := n.Summary()
	require.InDelta(t, 160, s.Avg, 0.0001)
	require.Equal(t, 128.0, s.Min)
	require.Equal(t, 192.0, s.Max)
	require.Greater(t, s.Stdev, 0.0)
}

func TestNumeric_EmptyIsZeroValue(t *testing.T) {
	var n stats.Numeric
	require.Equal(t, stats.NumericSummary{}, n.Summary())
}

func TestCategorical_SeededCategoriesAlwaysPresent(t *testing.T) {
	c := stats.NewCategorical([]string{"Stereo", "JointStereo", "DualChannel", "Mono"})
	c.Add("JointStereo")

	counts := c.Counts()
	require.Equal(t, 0, counts["Stereo"])
	require.Equal(t, 1, counts["JointStereo"])
	require.Equal(t, 0, counts["Mono"])
}

func TestCategorical_DominantBreaksTiesByFirstSeen(t *testing.T) {
	c := stats.NewCategorical([]string{"A", "B"})
	c.Add("A")
	c.Add("B")

	require.Equal(t, "A", c.Dominant())
}

func TestCategorical_DominantPicksHighestCount(t *testing.T) {
	c := stats.NewCategorical([]string{"A", "B"})
	c.Add("A")
	c.Add("B")
	c.Add("B")

	require.Equal(t, "B", c.Dominant())
}

func TestCategorical_UnseededCategoryAppendsInDiscoveryOrder(t *testing.T) {
	c := stats.NewCategorical([]string{"A"})
	c.Add("A")
	c.Add("C")

	require.Equal(t, []string{"A", "C"}, c.Order())
}
