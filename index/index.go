package index

import (
	"iter"
	"sort"

	"github.com/proteoform/thyme/core"
)

// bucket is a fixed-capacity contiguous run of mass-sorted peptides.
type bucket struct {
	lo, hi     float64
	start, end int
}

// Index is the searchable peptide database: every modified peptide variant
// sorted by neutral mass and partitioned into buckets for range dispatch.
// It is built exactly once, then shared read-only across concurrent
// searches; no method mutates it.
type Index struct {
	peptides []core.Peptide
	buckets  []bucket
	params   Parameters
}

// Len returns the number of indexed peptide variants.
func (ix *Index) Len() int {
	return len(ix.peptides)
}

// Buckets returns the number of mass buckets.
func (ix *Index) Buckets() int {
	return len(ix.buckets)
}

// Peptide returns the variant at index i. Indexes are the values yielded by
// Query and are stable for the life of the process.
func (ix *Index) Peptide(i int) *core.Peptide {
	return &ix.peptides[i]
}

// Params returns the configuration the index was built with.
func (ix *Index) Params() Parameters {
	return ix.params
}

// Query yields the index of every peptide variant whose neutral mass lies in
// [lo, hi], in ascending mass order. Dispatch is a binary search to the
// first overlapping bucket followed by a forward scan across contiguous
// buckets, so cost is O(log buckets + hits) rather than a full scan.
func (ix *Index) Query(lo, hi float64) iter.Seq[int] {
	return func(yield func(int) bool) {
		first := sort.Search(len(ix.buckets), func(i int) bool {
			return ix.buckets[i].hi >= lo
		})
		for b := first; b < len(ix.buckets); b++ {
			if ix.buckets[b].lo > hi {
				return
			}
			for i := ix.buckets[b].start; i < ix.buckets[b].end; i++ {
				m := ix.peptides[i].Monoisotopic
				if m < lo {
					continue
				}
				if m > hi {
					return
				}
				if !yield(i) {
					return
				}
			}
		}
	}
}
