package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proteoform/thyme/core"
	"github.com/proteoform/thyme/fasta"
	"github.com/proteoform/thyme/index"
	"github.com/proteoform/thyme/spectrum"
	thymebadger "github.com/proteoform/thyme/storage/badger"
)

const testPeptide = "WVTFISLLFLFSSAYSR"

var serverProteins = []fasta.Protein{
	{ID: "sp|P1|ONE", Sequence: "MKWVTFISLLFLFSSAYSRGVFRRDTHKSEIAHRFK"},
	{ID: "sp|P2|TWO", Sequence: "LGEYGFQNALIVRYTRKVPQVSTPTLVEVSRSLGK"},
}

// testServer builds a server over an in-memory index and spectrum store,
// pre-loaded with scan 100: a perfect fragment spectrum of testPeptide.
func testServer(t *testing.T) *Server {
	t.Helper()

	params, err := index.Builder{BucketSize: 4, MissedCleavages: 1}.MakeParameters()
	require.NoError(t, err)
	ix, err := params.BuildFromProteins(serverProteins)
	require.NoError(t, err)

	specRepo, _, backend, err := thymebadger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	var pep *core.Peptide
	for i := 0; i < ix.Len(); i++ {
		if p := ix.Peptide(i); p.Sequence == testPeptide && !p.Decoy {
			pep = p
			break
		}
	}
	require.NotNil(t, pep)

	raw := &spectrum.Raw{
		ScanID:          100,
		FileID:          core.IDFromContent("test.mgf"),
		PrecursorMz:     core.NeutralMassToMz(pep.Monoisotopic, 2),
		PrecursorCharge: 2,
		RT:              55.5,
	}
	for _, ion := range core.Fragments(pep) {
		raw.Mz = append(raw.Mz, core.NeutralMassToMz(ion.Monoisotopic, 1))
		raw.Intensity = append(raw.Intensity, 100)
	}
	require.NoError(t, specRepo.AddSpectra(context.Background(), raw))

	srv, err := New(ix, specRepo)
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestGetSpectrum(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/spectrum/100", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var processed spectrum.Processed
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &processed))
	assert.Equal(t, 100, processed.ScanID)
	assert.Equal(t, 2, processed.PrecursorCharge)
	assert.NotEmpty(t, processed.Peaks)
}

func TestGetSpectrumNotFound(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/spectrum/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSpectrumBadScan(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/spectrum/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSpectrumDeisotopeOff(t *testing.T) {
	srv := testServer(t)

	on := doJSON(t, srv, http.MethodGet, "/spectrum/100", nil)
	off := doJSON(t, srv, http.MethodGet, "/spectrum/100?deisotope=false", nil)
	require.Equal(t, http.StatusOK, on.Code)
	require.Equal(t, http.StatusOK, off.Code)

	var procOn, procOff spectrum.Processed
	require.NoError(t, json.Unmarshal(on.Body.Bytes(), &procOn))
	require.NoError(t, json.Unmarshal(off.Body.Bytes(), &procOff))
	assert.GreaterOrEqual(t, len(procOff.Peaks), len(procOn.Peaks))
}

func TestScoreSpectrum(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/spectrum/100", ScoreRequest{
		PrecursorTolerance: core.DaTolerance(-500, 500),
		FragmentTolerance:  core.PpmTolerance(-10, 10),
		ReportPSMs:         3,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var psms []core.PSM
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &psms))
	require.NotEmpty(t, psms)
	assert.Equal(t, testPeptide, psms[0].Peptide)
	assert.Equal(t, 1, psms[0].Rank)
	assert.Equal(t, 100, psms[0].ScanNr)
	assert.InDelta(t, 55.5, psms[0].RT, 1e-9)
}

func TestScoreSpectrumDefaultReport(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/spectrum/100", ScoreRequest{
		PrecursorTolerance: core.DaTolerance(-500, 500),
		FragmentTolerance:  core.PpmTolerance(-10, 10),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var psms []core.PSM
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &psms))
	assert.Len(t, psms, 1)
}

func TestScoreSpectrumBadTolerance(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/spectrum/100", ScoreRequest{
		PrecursorTolerance: core.Tolerance{},
		FragmentTolerance:  core.PpmTolerance(-10, 10),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreSpectrumMalformedBody(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/spectrum/100", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnnotatePeptide(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/spectrum/100/peptide", AnnotateRequest{
		Sequence:          testPeptide,
		FragmentTolerance: core.PpmTolerance(-10, 10),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var matched []core.MatchedPeak
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matched))
	assert.NotEmpty(t, matched)
}

func TestAnnotatePeptideUnknownResidue(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/spectrum/100/peptide", AnnotateRequest{
		Sequence:          "PEPTIDEX1",
		FragmentTolerance: core.PpmTolerance(-10, 10),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestMetricsExposed(t *testing.T) {
	srv := testServer(t)

	// Generate some traffic first.
	doJSON(t, srv, http.MethodGet, "/spectrum/100", nil)

	rec := doJSON(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "thyme_http_requests_total")
}

func TestScoreSpectrumNotFound(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/spectrum/%d", 12345), ScoreRequest{
		PrecursorTolerance: core.DaTolerance(-500, 500),
		FragmentTolerance:  core.PpmTolerance(-10, 10),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
