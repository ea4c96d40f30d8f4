package cluster

import (
	"testing"

	"github.com/phil-mansfield/modylip/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var blobs = [][]float64{{0.5, 5}, {9.5, 5}, {5, 4.5}, {5, 5.5}}

func TestMeanShiftPeriodic(t *testing.T) {
	metric, err := geom.NewPeriodicMetric(10, 10)
	require.NoError(t, err)

	ms := &MeanShift{Radius: 2, Metric: metric}
	res, err := ms.Fit(blobs)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Equal(t, 2, res.Iterations)
	assert.Equal(t, [][]float64{{0, 5}, {5, 5}}, res.Centroids)
	assert.Equal(t, []int{0, 0, 1, 1}, res.Labels)
	assert.Equal(t, []int{2, 2}, res.Sizes)
}

func TestMeanShiftEuclidean(t *testing.T) {
	ms := &MeanShift{Radius: 2}
	res, err := ms.Fit(blobs)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Equal(t, [][]float64{{0.5, 5}, {5, 5}, {9.5, 5}}, res.Centroids)
	assert.Equal(t, []int{0, 2, 1, 1}, res.Labels)
	assert.Equal(t, []int{1, 2, 1}, res.Sizes)
}

func TestMeanShiftMaxIter(t *testing.T) {
	metric, err := geom.NewPeriodicMetric(10, 10)
	require.NoError(t, err)

	ms := &MeanShift{Radius: 2, Metric: metric, MaxIter: 1}
	res, err := ms.Fit(blobs)
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	assert.Len(t, res.Centroids, 2)
}

func TestMeanShiftErrors(t *testing.T) {
	_, err := (&MeanShift{Radius: 0}).Fit(blobs)
	assert.Error(t, err)
	_, err = (&MeanShift{Radius: 1}).Fit(nil)
	assert.Error(t, err)
	_, err = (&MeanShift{Radius: 1}).Fit([][]float64{{1, 2}, {1}})
	assert.Error(t, err)
}

func TestLinkage(t *testing.T) {
	periodic, err := geom.NewPeriodicMetric(10)
	require.NoError(t, err)
	points := [][]float64{{0.5}, {9.5}, {5}, {5.8}, {7.2}}

	table := []struct {
		metric Metric
		cutoff float64
		labels []int
		sizes  []int
	}{
		{periodic, 1, []int{0, 0, 1, 1, 2}, []int{2, 2, 1}},
		{nil, 1, []int{0, 1, 2, 2, 3}, []int{1, 1, 2, 1}},
		{periodic, 1.5, []int{0, 0, 1, 1, 1}, []int{2, 3}},
		{periodic, 0, []int{0, 1, 2, 3, 4}, []int{1, 1, 1, 1, 1}},
		{Euclidean{}, 100, []int{0, 0, 0, 0, 0}, []int{5}},
	}

	for i, test := range table {
		labels, sizes, err := Linkage(points, test.cutoff, test.metric)
		require.NoError(t, err)
		if !assert.Equal(t, test.labels, labels) || !assert.Equal(t, test.sizes, sizes) {
			t.Errorf("%d) Linkage with cutoff %g failed.", i, test.cutoff)
		}
	}

	_, _, err = Linkage(points, -1, nil)
	assert.Error(t, err)
}

func TestLinkageGraph(t *testing.T) {
	points := [][]float64{{0}, {0.5}, {3}, {3.9}, {10}}
	g := linkageGraph(points, 1, Euclidean{})

	assert.Equal(t, len(points), g.Nodes().Len())
	assert.Equal(t, 2, g.Edges().Len())
	assert.True(t, g.HasEdgeBetween(0, 1))
	assert.True(t, g.HasEdgeBetween(2, 3))
	assert.False(t, g.HasEdgeBetween(1, 2))
}

func TestMetricDimension(t *testing.T) {
	metric, err := geom.NewPeriodicMetric(10, 10, 10)
	require.NoError(t, err)
	points := [][]float64{{1, 2}, {3, 4}}

	_, _, err = Linkage(points, 1, metric)
	assert.Error(t, err)
	_, err = (&MeanShift{Radius: 1, Metric: metric}).Fit(points)
	assert.Error(t, err)

	_, _, err = Linkage(points, 1, Euclidean{})
	assert.NoError(t, err)
}
