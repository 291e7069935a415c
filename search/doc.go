// Copyright 2025 Proteoform Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package search implements open precursor-tolerance matching and scoring.
//
// The Scorer converts a processed spectrum's precursor to a neutral-mass
// query window (widened by the configured isotope-error range), enumerates
// candidate peptides from the fragment index, matches observed peaks to each
// candidate's theoretical b/y ions under the fragment tolerance, and scores
// every candidate with a hyperscore, a Poisson significance estimate, and a
// set of auxiliary features. Results are ranked by descending hyperscore and
// truncated to the requested count.
//
// Chimeric search treats the second co-isolated precursor as an independent
// hypothesis: the peaks explained by the best primary match are removed and
// the residual peak list is searched again, with results reported under each
// hypothesis separately. Scoring is pure computation over the immutable
// index; any number of scorers may run concurrently.
package search
