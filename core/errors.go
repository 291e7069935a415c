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

package core

import "errors"

// The engine's error taxonomy. Every failure surfaced to a caller wraps one
// of these two sentinels, so callers can distinguish a broken configuration
// (fatal at startup, the index must not be served) from a malformed request
// (rejected in isolation, the shared index is unaffected) with errors.Is.
var (
	// ErrConfig indicates a startup-time configuration failure: malformed
	// digestion bounds, a non-finite modification mass, or an unreadable or
	// empty protein database.
	ErrConfig = errors.New("invalid configuration")

	// ErrInput indicates a malformed per-request input: mismatched peak
	// arrays, a non-positive charge, or inverted tolerance bounds.
	ErrInput = errors.New("invalid input")
)
