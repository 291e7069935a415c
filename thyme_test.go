package thyme

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proteoform/thyme/core"
)

const testFasta = `>sp|P1|ONE test protein
MKWVTFISLLFLFSSAYSRGVFRRDTHKSEIAHRFK
>sp|P2|TWO another
LGEYGFQNALIVRYTRKVPQVSTPTLVEVSRSLGK
`

const testMGF = `BEGIN IONS
TITLE=run.1.1.2
SCANS=1
PEPMASS=815.43 12000
CHARGE=2+
RTINSECONDS=55.5
175.119 1200
248.160 450
361.244 980
END IONS
`

func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	fastaPath := filepath.Join(dir, "test.fasta")
	require.NoError(t, os.WriteFile(fastaPath, []byte(testFasta), 0644))

	configPath := filepath.Join(dir, "config.json")
	config := fmt.Sprintf(`{"bucket_size": 4, "missed_cleavages": 1, "fasta": %q}`, fastaPath)
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0644))
	return configPath
}

func TestNewEngine(t *testing.T) {
	t.Run("create new engine", func(t *testing.T) {
		engine, err := NewEngine(testConfig(t), "", WithInMemoryStorage())
		require.NoError(t, err)
		require.NotNil(t, engine)
		defer engine.Close()

		assert.Positive(t, engine.Index().Len())
		assert.NotNil(t, engine.SpectrumRepository())
		assert.NotNil(t, engine.SourceFileRepository())
	})

	t.Run("error with missing config", func(t *testing.T) {
		engine, err := NewEngine(filepath.Join(t.TempDir(), "nope.json"), "", WithInMemoryStorage())
		assert.Error(t, err)
		assert.Nil(t, engine)
	})
}

func TestEngine_FactoryMethods(t *testing.T) {
	engine, err := NewEngine(testConfig(t), "", WithInMemoryStorage())
	require.NoError(t, err)
	defer engine.Close()

	t.Run("can create scorer", func(t *testing.T) {
		scorer, err := engine.NewScorer(core.DaTolerance(-500, 500), core.PpmTolerance(-10, 10))
		require.NoError(t, err)
		require.NotNil(t, scorer)
	})

	t.Run("can create server", func(t *testing.T) {
		srv, err := engine.NewServer()
		require.NoError(t, err)
		require.NotNil(t, srv)
	})
}

func TestEngine_LoadMGF(t *testing.T) {
	engine, err := NewEngine(testConfig(t), "", WithInMemoryStorage())
	require.NoError(t, err)
	defer engine.Close()

	mgfPath := filepath.Join(t.TempDir(), "run.mgf")
	require.NoError(t, os.WriteFile(mgfPath, []byte(testMGF), 0644))

	ctx := context.Background()
	n, err := engine.LoadMGF(ctx, mgfPath)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	raw, err := engine.SpectrumRepository().GetSpectrum(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, raw.PrecursorCharge)
	assert.Len(t, raw.Mz, 3)

	files, err := engine.SourceFileRepository().ListSourceFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, mgfPath, files[0].Path)
	assert.Equal(t, 1, files[0].Spectra)
}
