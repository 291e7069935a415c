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

// Package core defines the domain model shared by every part of the engine:
// monoisotopic masses, tolerances, peptides, fragment ions, peaks, and the
// peptide-spectrum match record returned to callers.
//
// Everything in this package is pure computation over immutable values. No
// type here performs I/O or holds mutable shared state, which is what makes
// concurrent scoring over a shared index safe without locks.
package core
