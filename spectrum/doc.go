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

// Package spectrum holds observed spectra and their preprocessing.
//
// A Raw spectrum is the wire form: precursor m/z and charge plus parallel,
// not necessarily sorted, peak arrays. A Processor validates it, sorts the
// peaks, optionally collapses isotope envelopes to their monoisotopic peak,
// converts m/z to neutral fragment masses, and keeps the most intense peaks
// inside the fragment m/z bounds. Processing is deterministic: identical
// input always yields an identical Processed spectrum.
//
// The package also reads Mascot generic format (MGF) peak list files.
package spectrum
