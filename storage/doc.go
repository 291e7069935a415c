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

// Package storage defines the persistence interfaces for raw spectra and
// their source-file manifest, plus the binary serialization used on disk.
//
// Search itself never touches storage: the fragment index is rebuilt from
// FASTA at startup and lives in memory. Storage exists so that spectra
// loaded once from an MGF file can be fetched and searched by scan number
// for the lifetime of the deployment.
//
// Concrete backends live in subpackages; see the badger subpackage for the
// BadgerDB implementation. All implementations must be safe for concurrent
// use.
//
// Serialization uses the MUS binary format. Records are versionless: the
// field order in the serializers is the format, and changing it invalidates
// existing databases.
package storage
