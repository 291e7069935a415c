package spectrum

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/proteoform/thyme/core"
)

// ParseMGF reads Mascot generic format peak lists from r. Scan numbers come
// from the SCANS header, a scan= token in the TITLE, or the record's ordinal
// position, in that order of preference. Spectra with no CHARGE header
// default to charge 2.
func ParseMGF(r io.Reader, fileID core.ID) ([]*Raw, error) {
	var (
		spectra   []*Raw
		cur       *Raw
		scansSeen bool
		lineNo    int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case line == "BEGIN IONS":
			cur = &Raw{FileID: fileID, ScanID: len(spectra) + 1, PrecursorCharge: 2}
			scansSeen = false
		case line == "END IONS":
			if cur == nil {
				return nil, fmt.Errorf("%w: mgf line %d: END IONS without BEGIN IONS", core.ErrInput, lineNo)
			}
			spectra = append(spectra, cur)
			cur = nil
		case cur == nil:
			// Header junk between records is tolerated.
			continue
		case strings.Contains(line, "="):
			if err := mgfHeader(cur, line, &scansSeen); err != nil {
				return nil, fmt.Errorf("%w: mgf line %d: %v", core.ErrInput, lineNo, err)
			}
		default:
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return nil, fmt.Errorf("%w: mgf line %d: malformed peak %q", core.ErrInput, lineNo, line)
			}
			mz, err1 := strconv.ParseFloat(fields[0], 64)
			intensity, err2 := strconv.ParseFloat(fields[1], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("%w: mgf line %d: malformed peak %q", core.ErrInput, lineNo, line)
			}
			cur.Mz = append(cur.Mz, mz)
			cur.Intensity = append(cur.Intensity, intensity)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading mgf: %v", core.ErrInput, err)
	}
	if cur != nil {
		return nil, fmt.Errorf("%w: mgf ended inside a record", core.ErrInput)
	}
	return spectra, nil
}

func mgfHeader(cur *Raw, line string, scansSeen *bool) error {
	key, value, _ := strings.Cut(line, "=")
	switch key {
	case "TITLE":
		cur.Title = value
		if scan, ok := scanFromTitle(value); ok && !*scansSeen {
			cur.ScanID = scan
		}
	case "PEPMASS":
		// PEPMASS may carry "mz intensity"; only the m/z matters.
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return fmt.Errorf("bad PEPMASS %q", value)
		}
		mz, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return fmt.Errorf("bad PEPMASS %q", value)
		}
		cur.PrecursorMz = mz
	case "CHARGE":
		// Only positive-mode spectra are supported.
		if strings.HasSuffix(value, "-") {
			return fmt.Errorf("negative-mode CHARGE %q not supported", value)
		}
		charge, err := strconv.Atoi(strings.TrimSuffix(value, "+"))
		if err != nil || charge <= 0 {
			return fmt.Errorf("bad CHARGE %q", value)
		}
		cur.PrecursorCharge = charge
	case "RTINSECONDS":
		rt, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("bad RTINSECONDS %q", value)
		}
		cur.RT = rt
	case "SCANS":
		scan, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bad SCANS %q", value)
		}
		cur.ScanID = scan
		*scansSeen = true
	}
	// Unknown headers are ignored.
	return nil
}

// scanFromTitle extracts a scan=N token from an MGF title.
func scanFromTitle(title string) (int, bool) {
	for _, field := range strings.FieldsFunc(title, func(r rune) bool { return r == ' ' || r == ',' || r == '"' }) {
		if rest, ok := strings.CutPrefix(field, "scan="); ok {
			if scan, err := strconv.Atoi(rest); err == nil {
				return scan, true
			}
		}
	}
	return 0, false
}

// OpenMGF reads an MGF file from disk, deriving the file ID from its path.
func OpenMGF(path string) ([]*Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening mgf %s: %v", core.ErrInput, path, err)
	}
	defer f.Close()
	return ParseMGF(f, core.IDFromContent(path))
}
