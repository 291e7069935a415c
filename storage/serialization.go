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

package storage

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/proteoform/thyme/core"
	"github.com/proteoform/thyme/spectrum"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalSpectrum serializes a raw spectrum to bytes.
func MarshalSpectrum(raw *spectrum.Raw) []byte {
	buf := make([]byte, spectrum.RawMUS.Size(*raw))
	spectrum.RawMUS.Marshal(*raw, buf)
	return buf
}

// UnmarshalSpectrum deserializes a raw spectrum from bytes.
func UnmarshalSpectrum(data []byte) (*spectrum.Raw, error) {
	raw, _, err := spectrum.RawMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &raw, nil
}

// SourceFileMUS is the MUS serializer for manifest entries. LoadedAt is
// stored as microseconds since the Unix epoch.
var SourceFileMUS = sourceFileMUS{}

type sourceFileMUS struct{}

func (s sourceFileMUS) Marshal(v SourceFile, bs []byte) (n int) {
	n = core.IDMUS.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.Path, bs[n:])
	n += varint.Int.Marshal(v.Spectra, bs[n:])
	n += varint.Int64.Marshal(v.LoadedAt.UnixMicro(), bs[n:])
	return n
}

func (s sourceFileMUS) Unmarshal(bs []byte) (v SourceFile, n int, err error) {
	var n1 int
	if v.ID, n, err = core.IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Path, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Spectra, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	v.LoadedAt = time.UnixMicro(micros).UTC()
	return v, n + n1, nil
}

func (s sourceFileMUS) Size(v SourceFile) (size int) {
	size = core.IDMUS.Size(v.ID)
	size += ord.String.Size(v.Path)
	size += varint.Int.Size(v.Spectra)
	size += varint.Int64.Size(v.LoadedAt.UnixMicro())
	return size
}

// MarshalSourceFile serializes a manifest entry to bytes.
func MarshalSourceFile(file *SourceFile) []byte {
	buf := make([]byte, SourceFileMUS.Size(*file))
	SourceFileMUS.Marshal(*file, buf)
	return buf
}

// UnmarshalSourceFile deserializes a manifest entry from bytes.
func UnmarshalSourceFile(data []byte) (*SourceFile, error) {
	file, _, err := SourceFileMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &file, nil
}
