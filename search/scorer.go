package search

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/proteoform/thyme/core"
	"github.com/proteoform/thyme/index"
	"github.com/proteoform/thyme/spectrum"
)

// Default isotope-error correction range: the observed precursor may have
// been reported one neutron low (wrong envelope peak below the mono) up to
// three neutrons high.
const (
	DefaultMinIsotopeErr = -1
	DefaultMaxIsotopeErr = 3
)

// Scorer matches processed spectra against the fragment index and ranks the
// resulting peptide-spectrum matches. It holds no per-request state: one
// Scorer may serve arbitrarily many concurrent searches.
type Scorer struct {
	index         *index.Index
	precursorTol  core.Tolerance
	fragmentTol   core.Tolerance
	minIsotopeErr int
	maxIsotopeErr int
	chimera       bool
	logger        *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithIsotopeErrors sets the neutron-offset range tested against the
// observed precursor mass.
func WithIsotopeErrors(minErr, maxErr int) Option {
	return func(s *Scorer) error {
		if minErr > maxErr {
			return fmt.Errorf("%w: isotope error range [%d, %d]", core.ErrInput, minErr, maxErr)
		}
		s.minIsotopeErr = minErr
		s.maxIsotopeErr = maxErr
		return nil
	}
}

// WithChimera enables the second-precursor hypothesis search.
func WithChimera(enabled bool) Option {
	return func(s *Scorer) error {
		s.chimera = enabled
		return nil
	}
}

// NewScorer creates a scorer over a built index. Tolerances are validated
// here so a malformed request is rejected before any matching happens.
func NewScorer(ix *index.Index, precursorTol, fragmentTol core.Tolerance, opts ...Option) (*Scorer, error) {
	if ix == nil {
		return nil, ErrIndexRequired
	}
	if err := precursorTol.Validate(); err != nil {
		return nil, fmt.Errorf("precursor tolerance: %w", err)
	}
	if err := fragmentTol.Validate(); err != nil {
		return nil, fmt.Errorf("fragment tolerance: %w", err)
	}

	s := &Scorer{
		index:         ix,
		precursorTol:  precursorTol,
		fragmentTol:   fragmentTol,
		minIsotopeErr: DefaultMinIsotopeErr,
		maxIsotopeErr: DefaultMaxIsotopeErr,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// QueryWindow returns the neutral-mass range searched for a precursor mass:
// the tolerance bounds widened by the isotope-error offsets.
func (s *Scorer) QueryWindow(precursorMass float64) (lo, hi float64) {
	lo = math.Inf(1)
	hi = math.Inf(-1)
	for iso := s.minIsotopeErr; iso <= s.maxIsotopeErr; iso++ {
		l, h := s.precursorTol.Bounds(precursorMass - float64(iso)*core.Neutron)
		lo = math.Min(lo, l)
		hi = math.Max(hi, h)
	}
	return lo, hi
}

// Score searches the index for the spectrum and returns the top-N PSMs,
// ranked by descending hyperscore. A spectrum that matches nothing yields an
// empty list, not an error.
func (s *Scorer) Score(query *spectrum.Processed, reportPSMs int) ([]*core.PSM, error) {
	return s.ScoreWithMonitor(query, reportPSMs, nil)
}

// ScoreWithMonitor is Score with observation hooks for each search stage.
func (s *Scorer) ScoreWithMonitor(query *spectrum.Processed, reportPSMs int, monitor SearchMonitor) ([]*core.PSM, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if reportPSMs < 1 {
		return nil, fmt.Errorf("%w: report_psms must be positive, got %d", core.ErrInput, reportPSMs)
	}
	if query.PrecursorCharge <= 0 {
		return nil, fmt.Errorf("%w: precursor charge must be positive, got %d", core.ErrInput, query.PrecursorCharge)
	}

	monitor.Start(query)

	primary := s.scoreHypothesis(query, query.Peaks, 0, reportPSMs, monitor)
	results := primary.psms

	if s.chimera && len(primary.psms) > 0 {
		residual := removePeaks(query.Peaks, primary.topMatched)
		second := s.scoreHypothesis(query, residual, 1, reportPSMs, monitor)
		results = append(results, second.psms...)
	}

	monitor.Finish(results)
	s.logger.Debug("search complete", "scannr", query.ScanID,
		"chimera", s.chimera, "psms", len(results))
	return results, nil
}

// candidate is one scored index entry prior to ranking.
type candidate struct {
	ix         int
	isotopeErr int
	hyperscore float64
	poisson    float64
	ions       int   // matched fragment ions
	matched    []int // distinct peak indexes into the hypothesis peak list
	matchedB   int
	matchedY   int
	longestB   int
	longestY   int
	sumMatched float64
}

type hypothesisResult struct {
	psms []*core.PSM
	// topMatched holds the peak indexes explained by the best match, used
	// to derive the chimeric residual.
	topMatched []int
}

// scoreHypothesis runs one full precursor hypothesis over a peak list:
// candidate enumeration, fragment matching, scoring, ranking, truncation.
func (s *Scorer) scoreHypothesis(query *spectrum.Processed, peaks []core.Peak, hypothesis, reportPSMs int, monitor SearchMonitor) hypothesisResult {
	precursorMass := query.PrecursorMass()
	lo, hi := s.QueryWindow(precursorMass)
	monitor.WindowComputed(hypothesis, lo, hi)

	total := 0.0
	for _, pk := range peaks {
		total += pk.Intensity
	}

	var candidates []candidate
	for ixPeptide := range s.index.Query(lo, hi) {
		pep := s.index.Peptide(ixPeptide)
		iso, ok := s.isotopeError(precursorMass, pep.Monoisotopic)
		if !ok {
			// Inside the widened window but between isotope offsets.
			continue
		}
		c, ok := s.match(ixPeptide, pep, peaks)
		if !ok {
			continue
		}
		c.isotopeErr = iso
		monitor.CandidateScored(hypothesis, pep, c.hyperscore, c.ions)
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return hypothesisResult{}
	}

	// Descending hyperscore; stable sort keeps insertion (index) order on
	// ties so results are reproducible.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].hyperscore > candidates[j].hyperscore
	})

	scored := len(candidates)
	best := candidates[0].hyperscore
	topMatched := candidates[0].matched

	n := min(reportPSMs, len(candidates))
	psms := make([]*core.PSM, 0, n)
	for i := 0; i < n; i++ {
		c := candidates[i]
		pep := s.index.Peptide(c.ix)
		corrected := precursorMass - float64(c.isotopeErr)*core.Neutron

		deltaNext := 0.0
		if i+1 < len(candidates) {
			deltaNext = c.hyperscore - candidates[i+1].hyperscore
		}

		longest := max(c.longestB, c.longestY)
		matchedPct := 0.0
		if total > 0 {
			matchedPct = c.sumMatched / total * 100
		}

		psms = append(psms, &core.PSM{
			SpecID:              specID(query),
			FileID:              query.FileID,
			ScanNr:              query.ScanID,
			Peptide:             pep.Sequence,
			PeptideLen:          len(pep.Sequence),
			Proteins:            pep.ProteinList(),
			Label:               pep.Label(),
			Charge:              query.PrecursorCharge,
			RT:                  query.RT,
			ExpMass:             precursorMass,
			CalcMass:            pep.Monoisotopic,
			DeltaMass:           core.PpmDelta(corrected, pep.Monoisotopic),
			IsotopeError:        c.isotopeErr,
			Hyperscore:          c.hyperscore,
			DeltaNext:           deltaNext,
			DeltaBest:           best - c.hyperscore,
			Rank:                i + 1,
			MatchedPeaks:        c.ions,
			LongestB:            c.longestB,
			LongestY:            c.longestY,
			LongestRunPct:       float64(longest) / float64(len(pep.Sequence)) * 100,
			MatchedIntensityPct: matchedPct,
			ScoredCandidates:    scored,
			Poisson:             c.poisson,
			Hypothesis:          hypothesis,
			PosteriorError:      1,
			QValue:              1,
		})
	}

	monitor.Ranked(hypothesis, psms)
	return hypothesisResult{psms: psms, topMatched: topMatched}
}

// isotopeError picks the neutron offset that best explains the gap between
// the observed precursor mass and a candidate mass, or false when no offset
// in the configured range puts the candidate inside the tolerance window.
func (s *Scorer) isotopeError(precursorMass, calcMass float64) (int, bool) {
	bestIso, found := 0, false
	bestDelta := math.Inf(1)
	for iso := s.minIsotopeErr; iso <= s.maxIsotopeErr; iso++ {
		corrected := precursorMass - float64(iso)*core.Neutron
		if !s.precursorTol.Contains(corrected, calcMass) {
			continue
		}
		delta := math.Abs(core.PpmDelta(corrected, calcMass))
		if delta < bestDelta {
			bestIso, bestDelta, found = iso, delta, true
		}
	}
	return bestIso, found
}

// match pairs the candidate's theoretical ions with observed peaks. Each
// ion takes the peak nearest to it inside the tolerance window,
// independently of the other ions, so widening the window can only turn
// unmatched ions into matched ones. A peak shared by several ions counts
// once toward the matched-intensity total and the chimeric residual.
// Candidates with no matched ion are discarded.
func (s *Scorer) match(ixPeptide int, pep *core.Peptide, peaks []core.Peak) (candidate, bool) {
	params := s.index.Params()
	c := candidate{ix: ixPeptide}

	claimed := make(map[int]bool)
	var sumB, sumY float64
	var fragments int

	for _, kind := range []core.IonKind{core.IonB, core.IonY} {
		run := 0
		prevIdx := 0
		for ion := range core.IonSeries(pep, kind) {
			mz := ion.Mz(1)
			if mz < params.FragmentMinMz || mz > params.FragmentMaxMz {
				continue
			}
			fragments++

			pi, ok := spectrum.ClosestPeak(peaks, ion.Monoisotopic, s.fragmentTol)
			if !ok {
				continue
			}
			c.ions++
			if !claimed[pi] {
				claimed[pi] = true
				c.matched = append(c.matched, pi)
				c.sumMatched += peaks[pi].Intensity
			}

			if ion.Idx == prevIdx+1 {
				run++
			} else {
				run = 1
			}
			prevIdx = ion.Idx

			switch kind {
			case core.IonB:
				c.matchedB++
				sumB += peaks[pi].Intensity
				c.longestB = max(c.longestB, run)
			case core.IonY:
				c.matchedY++
				sumY += peaks[pi].Intensity
				c.longestY = max(c.longestY, run)
			}
		}
	}

	if c.ions == 0 {
		return candidate{}, false
	}

	c.hyperscore = math.Log((sumB+1)*(sumY+1)) + lnFactorial(c.matchedB) + lnFactorial(c.matchedY)
	c.poisson = poissonScore(c.ions, s.lambda(fragments, peaks))
	return c, true
}

// lambda estimates the number of chance matches: theoretical ion count
// times the per-ion probability of hitting any peak, given the spectrum's
// peak density and the average tolerance width.
func (s *Scorer) lambda(fragments int, peaks []core.Peak) float64 {
	if fragments == 0 || len(peaks) < 2 {
		return 1e-3
	}
	span := peaks[len(peaks)-1].Mass - peaks[0].Mass
	if span <= 0 {
		return 1e-3
	}
	mean := (peaks[len(peaks)-1].Mass + peaks[0].Mass) / 2
	wLo, wHi := s.fragmentTol.Bounds(mean)
	return float64(fragments) * float64(len(peaks)) * (wHi - wLo) / span
}

func removePeaks(peaks []core.Peak, drop []int) []core.Peak {
	dropped := make(map[int]bool, len(drop))
	for _, i := range drop {
		dropped[i] = true
	}
	out := make([]core.Peak, 0, len(peaks)-len(drop))
	for i, pk := range peaks {
		if !dropped[i] {
			out = append(out, pk)
		}
	}
	return out
}

func specID(query *spectrum.Processed) core.ID {
	return core.IDFromContent(fmt.Sprintf("%d/%d", query.FileID, query.ScanID))
}
