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

// Package server exposes the search engine over HTTP.
//
// Routes:
//
//	GET  /spectrum/{scan}          preprocessed spectrum by scan number
//	POST /spectrum/{scan}          score the spectrum, returns ranked PSMs
//	POST /spectrum/{scan}/peptide  annotate peaks against a given peptide
//	GET  /healthz                  liveness probe
//	GET  /metrics                  Prometheus metrics
//
// Request validation failures map to 400, unknown scan numbers to 404.
// Scoring is stateless per request: tolerances, chimera and preprocessing
// settings all arrive in the request body, so concurrent searches with
// different settings never interfere.
package server
