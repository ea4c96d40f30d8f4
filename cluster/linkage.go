package cluster

import (
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// linkageGraph connects every pair of points separated by at most cutoff.
func linkageGraph(points [][]float64, cutoff float64, metric Metric) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := range points { g.AddNode(simple.Node(i)) }
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if metric.Distance(points[i], points[j]) <= cutoff {
				g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
			}
		}
	}
	return g
}

// Linkage groups points into single-linkage clusters: two points share a
// cluster if they are connected by a chain of points with separations of at
// most cutoff. Labels are numbered in order of first appearance. A nil metric
// is Euclidean.
func Linkage(
	points [][]float64, cutoff float64, metric Metric,
) (labels, sizes []int, err error) {
	if cutoff < 0 {
		return nil, nil, fmt.Errorf("Linkage cutoff must be non-negative, not %g.", cutoff)
	}
	if metric == nil { metric = Euclidean{} }
	if err := checkPoints(points, metric); err != nil { return nil, nil, err }

	comps := topo.ConnectedComponents(linkageGraph(points, cutoff, metric))
	compOf := make([]int, len(points))
	for c := range comps {
		for _, node := range comps[c] { compOf[node.ID()] = c }
	}

	labels = make([]int, len(points))
	compLabel := map[int]int{}
	for i := range points {
		label, ok := compLabel[compOf[i]]
		if !ok {
			label = len(sizes)
			compLabel[compOf[i]] = label
			sizes = append(sizes, 0)
		}
		labels[i] = label
		sizes[label]++
	}
	return labels, sizes, nil
}
