package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/proteoform/thyme/core"
)

// Protein is one database entry: an identifier and its amino-acid sequence.
// Immutable once loaded.
type Protein struct {
	ID       string
	Sequence string
}

// Parse reads FASTA records from r. The identifier is the first
// whitespace-delimited token of the header line; sequence lines are
// concatenated and uppercased. An input with no records wraps core.ErrConfig.
func Parse(r io.Reader) ([]Protein, error) {
	var (
		proteins []Protein
		id       string
		seq      strings.Builder
	)

	flush := func() {
		if id != "" && seq.Len() > 0 {
			proteins = append(proteins, Protein{ID: id, Sequence: seq.String()})
		}
		seq.Reset()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			header := strings.TrimPrefix(line, ">")
			id = strings.Fields(header)[0]
			continue
		}
		seq.WriteString(strings.ToUpper(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading fasta: %v", core.ErrConfig, err)
	}
	flush()

	if len(proteins) == 0 {
		return nil, fmt.Errorf("%w: fasta contains no protein records", core.ErrConfig)
	}
	return proteins, nil
}

// Open reads a FASTA database from disk.
func Open(path string) ([]Protein, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening fasta %s: %v", core.ErrConfig, path, err)
	}
	defer f.Close()
	return Parse(f)
}
