package api

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secex-api/internal/cache"
	"secex-api/internal/db"
	"secex-api/internal/db/repository"
	"secex-api/internal/seed"
	"secex-api/internal/service"
)

// newTestServer wires the handler against a freshly migrated and seeded
// SQLite database, the same way app.New does.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	writeDB, readDB := db.OpenTestSQLite(t)
	require.NoError(t, seed.Run(context.Background(), writeDB, logger))

	data := service.NewDataService(
		repository.NewAttrRepo(readDB),
		repository.NewFactRepo(readDB),
		cache.NewMemory(),
		logger,
	)
	h := NewHandler(data, BuildRoutes(), logger)

	r := chi.NewRouter()
	h.Mount(r)
	r.Get("/healthz", Healthz)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func getEnvelope(t *testing.T, srv *httptest.Server, path string) (*http.Response, map[string]interface{}) {
	t.Helper()

	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return resp, body
	}

	require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	zr, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(zr).Decode(&envelope))
	return resp, envelope
}

func dataRows(t *testing.T, envelope map[string]interface{}) []map[string]interface{} {
	t.Helper()
	raw, ok := envelope["data"].([]interface{})
	require.True(t, ok, "envelope missing data section")
	rows := make([]map[string]interface{}, len(raw))
	for i, r := range raw {
		rows[i] = r.(map[string]interface{})
	}
	return rows
}

func TestData_SingleRegionYear(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := getEnvelope(t, srv, "/secex/2010/mg/all/all/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	location := envelope["location"].([]interface{})
	require.Len(t, location, 1)
	assert.Equal(t, map[string]interface{}{"id": "mg", "name_en": "Minas Gerais"}, location[0])

	rows := dataRows(t, envelope)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(2010), rows[0]["year"])
	assert.Equal(t, "mg", rows[0]["bra_id"])
	assert.Equal(t, float64(21500000), rows[0]["export_val"])
	assert.Equal(t, float64(11300000), rows[0]["import_val"])
}

func TestData_FourDimensionConjunction(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := getEnvelope(t, srv, "/secex/2010/sp/84/aschn/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rows := dataRows(t, envelope)
	require.Len(t, rows, 1)
	assert.Equal(t, "sp", rows[0]["bra_id"])
	assert.Equal(t, "84", rows[0]["hs_id"])
	assert.Equal(t, "aschn", rows[0]["wld_id"])
	assert.Equal(t, float64(2400000), rows[0]["export_val"])
	assert.Equal(t, float64(8100000), rows[0]["import_val"])
}

func TestData_ComplexityJoinedOntoRegionProduct(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := getEnvelope(t, srv, "/secex/2010/mg/52/all/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rows := dataRows(t, envelope)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(2800000), rows[0]["export_val"])
	assert.Equal(t, 0.29, rows[0]["complexity"])
}

func TestData_OrderByRegionName(t *testing.T) {
	srv := newTestServer(t)

	// "show" selects every region without constraining it.
	resp, envelope := getEnvelope(t, srv, "/secex/2010/show/all/all/?order=bra.asc")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rows := dataRows(t, envelope)
	require.Len(t, rows, 7)
	assert.Equal(t, "mg01", rows[0]["bra_id"]) // Belo Horizonte sorts first
	assert.Equal(t, "mg02", rows[6]["bra_id"]) // Uberlandia sorts last
}

func TestData_FilterAndPagination(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := getEnvelope(t, srv, "/secex/all/mg/all/all/?filter=export_val%3E20000000&order=year")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rows := dataRows(t, envelope)
	require.Len(t, rows, 3)
	// Literal columns default to descending order.
	assert.Equal(t, float64(2012), rows[0]["year"])
	assert.Equal(t, float64(2011), rows[1]["year"])
	assert.Equal(t, float64(2010), rows[2]["year"])

	resp, envelope = getEnvelope(t, srv, "/secex/all/mg/all/all/?limit=2&order=year")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, dataRows(t, envelope), 2)
	assert.Empty(t, resp.Header.Get("X-Cache"), "paginated requests bypass the cache")
}

func TestData_NeighborSelector(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := getEnvelope(t, srv, "/secex/2010/mg.1/all/all/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// mg plus its distance-1 neighbors rj and sp.
	location := envelope["location"].([]interface{})
	assert.Len(t, location, 3)
	assert.Len(t, dataRows(t, envelope), 3)
}

func TestData_LevelFilterSelector(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := getEnvelope(t, srv, "/secex/2010/sp.show.4/all/all/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(4), envelope["bra_level"])

	rows := dataRows(t, envelope)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Contains(t, []interface{}{"sp01", "sp02"}, row["bra_id"])
	}
}

func TestData_CacheHitHeader(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := getEnvelope(t, srv, "/secex/2011/all/52/all/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-Cache"))

	resp, _ = getEnvelope(t, srv, "/secex/2011/all/52/all/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
}

func TestData_UnknownKeyIs404(t *testing.T) {
	srv := newTestServer(t)

	resp, body := getEnvelope(t, srv, "/secex/2010/all/9999/all/")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Content-Encoding"), "error responses are not compressed")
	assert.Contains(t, body["message"], "9999")
}

func TestData_NoDimensionsIs404(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := getEnvelope(t, srv, "/secex/all/all/all/all/")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestData_BadDirectivesAre400(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/secex/2010/mg/all/all/?filter=export_val%3D10", // "=" is not an operator
		"/secex/2010/mg/all/all/?filter=nosuchcol%3E10",
		"/secex/2010/mg/all/all/?order=nosuchcol",
		"/secex/2010/mg/all/all/?limit=abc",
		"/secex/20x0/mg/all/all/",
		"/secex/2010/mg.show.zero/all/all/",
	} {
		resp, _ := getEnvelope(t, srv, path)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "path %s", path)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
