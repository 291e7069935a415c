package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/proteoform/thyme/core"
)

// Key prefixes for different data types
const (
	spectrumPrefix   = "specrec"
	sourceFilePrefix = "srcfile"
)

// makeSpectrumKey generates a key for a raw spectrum by scan number.
// The scan number is written in BigEndian order so lexicographic iteration
// visits spectra in ascending scan order.
func makeSpectrumKey(scanID int) []byte {
	prefix := spectrumPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(scanID))
	return buf
}

// scanIDFromKey recovers the scan number from a spectrum key.
func scanIDFromKey(key []byte) int {
	prefixLen := len(spectrumPrefix) + 1
	return int(binary.BigEndian.Uint64(key[prefixLen:]))
}

// makeSourceFileKey generates a key for a source-file manifest entry.
func makeSourceFileKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", sourceFilePrefix, id))
}
