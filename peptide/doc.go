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

// Package peptide expands digested peptide candidates into modified mass
// variants.
//
// Static modifications apply unconditionally at every occurrence of their
// residue; variable modifications are enumerated combinatorially up to a
// configured placement count. Terminus-anchored modifications (the "^" and
// "$" symbols) apply at most once per peptide. The variant count per peptide
// is capped: enumeration past the ceiling truncates deterministically rather
// than rejecting the configuration.
package peptide
