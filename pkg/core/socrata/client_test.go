package socrata

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/config"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/errs"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/models"
)

func testClient(serverURL string) *Client {
	settings := config.DefaultSettings()
	settings.SocrataBaseURL = serverURL
	return NewClient(settings)
}

func TestFetchCompanyRowsQueriesEveryDataset(t *testing.T) {
	requested := make(map[string]int)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested[r.URL.Path]++
		if r.URL.Query().Get("$where") == "" {
			t.Error("expected a $where clause on every request")
		}
		rows := []models.StatementRow{
			{NIT: "900123456", FechaCorte: "2024-12-31", Concepto: "Ingresos", Valor: "1000"},
		}
		json.NewEncoder(w).Encode(rows)
	}))
	defer server.Close()

	client := testClient(server.URL)
	data, err := client.FetchCompanyRows(context.Background(), "900.123.456-7", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, category := range config.StatementCategories {
		if len(data[category]) != 1 {
			t.Errorf("category %s expected 1 row, got %d", category, len(data[category]))
		}
	}
	if len(requested) != len(config.SocrataDatasets) {
		t.Errorf("expected %d dataset endpoints hit, got %v", len(config.SocrataDatasets), requested)
	}
}

func TestFetchCompanyRowsInvalidNIT(t *testing.T) {
	client := testClient("http://localhost:1")
	_, err := client.FetchCompanyRows(context.Background(), "123", 5)
	if !errors.Is(err, errs.ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable for a short NIT, got %v", err)
	}
}

func TestFetchCompanyRowsNoDataAnywhere(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.FetchCompanyRows(context.Background(), "900123456", 5)
	if !errors.Is(err, errs.ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestFetchDatasetRowsPaginates(t *testing.T) {
	var offsets []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("$offset")
		offsets = append(offsets, offset)
		if offset == "0" {
			// A full page forces a second request.
			rows := make([]models.StatementRow, pageLimit)
			for i := range rows {
				rows[i] = models.StatementRow{NIT: "900123456", FechaCorte: "2024-12-31", Concepto: "Ingresos", Valor: "1"}
			}
			json.NewEncoder(w).Encode(rows)
			return
		}
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := testClient(server.URL)
	rows, err := client.fetchDatasetRows(context.Background(), "pfdp-zks5", "900123456", "2017-01-01T00:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != pageLimit {
		t.Errorf("expected %d rows, got %d", pageLimit, len(rows))
	}
	if len(offsets) != 2 || offsets[0] != "0" || offsets[1] != "5000" {
		t.Errorf("expected offsets [0 5000], got %v", offsets)
	}
}

func TestFetchPageErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/down.json":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/garbage.json":
			w.Write([]byte("<html>not json</html>"))
		}
	}))
	defer server.Close()

	client := testClient(server.URL)

	_, err := client.fetchPage(context.Background(), server.URL+"/down.json")
	if !errors.Is(err, errs.ErrConnectivity) {
		t.Errorf("expected ErrConnectivity on HTTP 503, got %v", err)
	}

	_, err = client.fetchPage(context.Background(), server.URL+"/garbage.json")
	if !errors.Is(err, errs.ErrSourceFormat) {
		t.Errorf("expected ErrSourceFormat on bad payload, got %v", err)
	}
}
