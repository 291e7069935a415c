package search

import (
	"github.com/proteoform/thyme/core"
	"github.com/proteoform/thyme/spectrum"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during
// scoring.
type SearchMonitor interface {
	Start(query *spectrum.Processed)
	WindowComputed(hypothesis int, lo, hi float64)
	CandidateScored(hypothesis int, peptide *core.Peptide, hyperscore float64, matched int)
	Ranked(hypothesis int, psms []*core.PSM)
	Finish(psms []*core.PSM)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *spectrum.Processed)                              {}
func (n *noopMonitor) WindowComputed(_ int, _, _ float64)                       {}
func (n *noopMonitor) CandidateScored(_ int, _ *core.Peptide, _ float64, _ int) {}
func (n *noopMonitor) Ranked(_ int, _ []*core.PSM)                              {}
func (n *noopMonitor) Finish(_ []*core.PSM)                                     {}
