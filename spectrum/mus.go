package spectrum

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/proteoform/thyme/core"
)

var float64SliceMUS = ord.NewSliceSer[float64](raw.Float64)

// RawMUS is the MUS serializer for raw spectra, used by the storage layer.
// Field order is part of the on-disk format and must not change.
var RawMUS = rawMUS{}

type rawMUS struct{}

func (s rawMUS) Marshal(v Raw, bs []byte) (n int) {
	n = varint.Int.Marshal(v.ScanID, bs)
	n += core.IDMUS.Marshal(v.FileID, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += raw.Float64.Marshal(v.PrecursorMz, bs[n:])
	n += varint.Int.Marshal(v.PrecursorCharge, bs[n:])
	n += raw.Float64.Marshal(v.RT, bs[n:])
	n += float64SliceMUS.Marshal(v.Mz, bs[n:])
	n += float64SliceMUS.Marshal(v.Intensity, bs[n:])
	return n
}

func (s rawMUS) Unmarshal(bs []byte) (v Raw, n int, err error) {
	var n1 int
	if v.ScanID, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	if v.FileID, n1, err = core.IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.PrecursorMz, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.PrecursorCharge, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.RT, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Mz, n1, err = float64SliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Intensity, n1, err = float64SliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	return v, n + n1, nil
}

func (s rawMUS) Size(v Raw) (size int) {
	size = varint.Int.Size(v.ScanID)
	size += core.IDMUS.Size(v.FileID)
	size += ord.String.Size(v.Title)
	size += raw.Float64.Size(v.PrecursorMz)
	size += varint.Int.Size(v.PrecursorCharge)
	size += raw.Float64.Size(v.RT)
	size += float64SliceMUS.Size(v.Mz)
	size += float64SliceMUS.Size(v.Intensity)
	return size
}

func (s rawMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = varint.Int.Skip(bs); err != nil {
		return
	}
	for _, skip := range []func([]byte) (int, error){
		core.IDMUS.Skip,
		ord.String.Skip,
		raw.Float64.Skip,
		varint.Int.Skip,
		raw.Float64.Skip,
		float64SliceMUS.Skip,
		float64SliceMUS.Skip,
	} {
		if n1, err = skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return n, nil
}
