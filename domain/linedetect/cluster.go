package linedetect

import "math"

// Cluster groups segments that were judged to belong to the same line. The
// first member is the seed that every later member was compared against.
type Cluster struct {
	Members []Segment
}

// Seed returns the segment that opened the cluster.
func (c Cluster) Seed() Segment { return c.Members[0] }

// MinDistance is the smallest pointer distance among members.
func (c Cluster) MinDistance() float64 {
	d := math.Inf(1)
	for _, s := range c.Members {
		d = min(d, s.Distance)
	}
	return d
}

// Direction is the arithmetic mean of the members' unit vectors. It is not
// renormalised: a magnitude below 1 reflects angular spread within the cluster.
func (c Cluster) Direction() Vector {
	if len(c.Members) == 0 {
		return Vector{}
	}
	var sx, sy float64
	for _, s := range c.Members {
		sx += s.Unit.X
		sy += s.Unit.Y
	}
	n := float64(len(c.Members))
	return Vector{X: sx / n, Y: sy / n}
}

// ClusterSegments assigns segments in order to the first cluster whose seed is
// within 5° in angle (plain difference, no wraparound) and whose seed midpoint
// is closer than 6 px. Otherwise the segment seeds a new cluster.
//
// Only seeds are compared, so grouping is not transitive: two members of one
// cluster may be farther apart than the thresholds, and a segment close to a
// non-seed member can still start its own cluster.
func ClusterSegments(segments []Segment) []Cluster {
	var clusters []Cluster
	for _, s := range segments {
		placed := false
		for i := range clusters {
			seed := clusters[i].Seed()
			if math.Abs(s.Angle-seed.Angle) < clusterAngle &&
				math.Hypot(s.MidX-seed.MidX, s.MidY-seed.MidY) < clusterDistance {
				clusters[i].Members = append(clusters[i].Members, s)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, Cluster{Members: []Segment{s}})
		}
	}
	return clusters
}

// Nearest returns the index of the cluster holding the segment with the
// globally smallest pointer distance. The first cluster wins ties.
// It returns -1 when clusters is empty.
func Nearest(clusters []Cluster) int {
	best, bestDist := -1, math.Inf(1)
	for i, c := range clusters {
		if d := c.MinDistance(); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
