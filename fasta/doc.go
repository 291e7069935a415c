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

// Package fasta reads protein databases and digests them into peptide
// candidates.
//
// Digestion applies an enzyme's residue-pair cut rules with a missed-cleavage
// bound and length filtering, and emits a matched decoy for every target by
// reversing the sequence between its termini. Decoys whose reversed sequence
// happens to coincide with a real target are kept, still labeled as decoys;
// the index builder deduplicates targets and decoys independently.
package fasta
