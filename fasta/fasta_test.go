package fasta

import (
	"errors"
	"strings"
	"testing"

	"github.com/proteoform/thyme/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := `>sp|P12345|TEST_HUMAN Test protein OS=Homo sapiens
MKWVTFISLL
FLFSSAYSRG

>sp|P67890|OTHER_HUMAN
peptidek
`
	proteins, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, proteins, 2)

	assert.Equal(t, "sp|P12345|TEST_HUMAN", proteins[0].ID)
	assert.Equal(t, "MKWVTFISLLFLFSSAYSRG", proteins[0].Sequence)
	assert.Equal(t, "sp|P67890|OTHER_HUMAN", proteins[1].ID)
	assert.Equal(t, "PEPTIDEK", proteins[1].Sequence, "sequence lines are uppercased")
}

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", ">header only\n", "\n\n"} {
		_, err := Parse(strings.NewReader(input))
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrConfig), "empty database must be a config error")
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("/nonexistent/path/db.fasta")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfig))
}
