package site

import (
	"github.com/golang/geo/r2"
)

// CandidateFilter accepts or rejects a candidate point based
// purely on the point itself.
// These filters are run before SiteFilter(s) which naturally require
// us to iterate each site.
type CandidateFilter func(candidate r2.Point) bool

// SiteFilter is a filter for a candidate point that is run
// against every current site in the builder.
type SiteFilter func(candidate, site r2.Point) bool

// MinDistance ensures that a candidate is at least `dist` away from every
// other site (in normalised units).
func MinDistance(dist float64) SiteFilter {
	return func(candidate, site r2.Point) bool {
		return candidate.Sub(site).Norm() >= dist
	}
}

// Within rejects candidates outside the given rectangle.
func Within(bounds r2.Rect) CandidateFilter {
	return func(candidate r2.Point) bool {
		return bounds.ContainsPoint(candidate)
	}
}
