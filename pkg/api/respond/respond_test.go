package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/errs"
)

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err      error
		expected int
	}{
		{fmt.Errorf("wrap: %w", errs.ErrCompanyNotFound), http.StatusNotFound},
		{fmt.Errorf("wrap: %w", errs.ErrDataUnavailable), http.StatusNotFound},
		{fmt.Errorf("wrap: %w", errs.ErrSourceFormat), http.StatusBadGateway},
		{fmt.Errorf("wrap: %w", errs.ErrConnectivity), http.StatusServiceUnavailable},
		{fmt.Errorf("algo inesperado"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		recorder := httptest.NewRecorder()
		Error(recorder, tc.err)
		if recorder.Code != tc.expected {
			t.Errorf("error %v expected status %d, got %d", tc.err, tc.expected, recorder.Code)
		}

		var body map[string]string
		if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
			t.Errorf("error body is not JSON: %v", err)
			continue
		}
		if body["error"] == "" {
			t.Error("expected an error message in the body")
		}
	}
}

func TestJSONSetsContentType(t *testing.T) {
	recorder := httptest.NewRecorder()
	JSON(recorder, http.StatusOK, map[string]int{"ok": 1})
	if got := recorder.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("unexpected content type %q", got)
	}
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", recorder.Code)
	}
}
