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

// Package index builds and queries the in-memory peptide database.
//
// A Builder carries the full digestion and indexing configuration, validates
// it, and produces Parameters; Parameters.Build digests the protein database,
// expands modification variants, sorts them by neutral mass, and partitions
// them into fixed-capacity buckets keyed by mass range. The built Index is
// immutable: queries are read-only range scans dispatched by binary search
// over bucket boundaries, safe for any number of concurrent readers.
package index
