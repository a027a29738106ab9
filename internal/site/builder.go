package site

import (
	"math/rand"
	"time"

	"github.com/golang/geo/r2"
)

// Builder places sites in the unit square, optionally with some structure
// to how they're laid out (see filters.go).
type Builder struct {
	sites []r2.Point
	rng   *rand.Rand
	sfilt []SiteFilter
	cfilt []CandidateFilter
}

// NewBuilder returns a new site builder
func NewBuilder() *Builder {
	return &Builder{
		sites: []r2.Point{},
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SiteCount returns how many sites we've currently got
func (b *Builder) SiteCount() int {
	return len(b.sites)
}

// Sites returns a copy of the placed sites in the order they were added.
func (b *Builder) Sites() []r2.Point {
	out := make([]r2.Point, len(b.sites))
	copy(out, b.sites)
	return out
}

// SetSeed sets our internal RNG seed
func (b *Builder) SetSeed(seed int64) {
	b.rng = rand.New(rand.NewSource(seed))
}

// SetCandidateFilters sets filters that accept / reject a proposed site without
// reference to other currently set site(s).
func (b *Builder) SetCandidateFilters(f ...CandidateFilter) {
	b.cfilt = f
}

// SetSiteFilters sets filters that compare proposed sites to all current sites.
func (b *Builder) SetSiteFilters(f ...SiteFilter) {
	b.sfilt = f
}

// AddRandomSite places a site at random, assuming it obeys all currently set filters.
func (b *Builder) AddRandomSite() (r2.Point, int, bool) {
	candidate := r2.Point{X: b.rng.Float64(), Y: b.rng.Float64()}
	if !b.accepted(candidate) {
		return candidate, 0, false
	}
	return candidate, b.addSite(candidate), true
}

// AddRandomSites attempts to place n random sites, giving up after
// `attempts` rejected candidates in a row. Returns how many were placed.
func (b *Builder) AddRandomSites(n, attempts int) int {
	placed, misses := 0, 0
	for placed < n && misses <= attempts {
		if _, _, ok := b.AddRandomSite(); ok {
			placed++
			misses = 0
		} else {
			misses++
		}
	}
	return placed
}

// AddSite places a site at the given location, assuming it obeys currently set filters.
func (b *Builder) AddSite(p r2.Point) (int, bool) {
	if !b.accepted(p) {
		return 0, false
	}
	return b.addSite(p), true
}

// accepted returns if the proposed site location is acceptable to our filters.
// We run CandidateFilter(s) first so we can hopefully reject candidates early.
func (b *Builder) accepted(candidate r2.Point) bool {
	for _, fn := range b.cfilt {
		if !fn(candidate) {
			return false
		}
	}

	// check if we can reject with any SiteFilter, for every site
	for _, s := range b.sites {
		for _, fn := range b.sfilt {
			if !fn(candidate, s) {
				return false
			}
		}
	}

	return true
}

// addSite adds a site, no filters are run.
func (b *Builder) addSite(p r2.Point) int {
	id := len(b.sites)
	b.sites = append(b.sites, p)
	return id
}
