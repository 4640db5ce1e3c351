// Package socrata fetches financial-statement rows from the official open
// datasets on datos.gov.co (Supersociedades plan único NIIF).
package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/config"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/errs"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/utils"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/models"
)

const (
	pageLimit = 5000
	// Socrata keeps serving past this point, but a company-year filter that
	// returns more rows than this indicates a broken query, not more data.
	maxOffset = 100_000
)

const selectColumns = "nit,fecha_corte,periodo,concepto,valor," +
	"numero_radicado,id_punto_entrada,punto_entrada,id_taxonomia,codigo_instancia"

// Client queries the three statement datasets for one company at a time.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient builds a client from the runtime settings.
func NewClient(settings *config.Settings) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: settings.HTTPTimeout()},
		baseURL:    settings.SocrataBaseURL,
		userAgent:  config.UserAgent,
	}
}

// FetchCompanyRows downloads the raw statement rows for a NIT across the
// income, balance and cash-flow datasets, windowed to the lookback years.
// The result maps statement category to its row list.
func (c *Client) FetchCompanyRows(ctx context.Context, nit string, lookbackYears int) (map[string][]models.StatementRow, error) {
	cleanNIT := utils.NormalizeNIT(nit)
	if cleanNIT == "" {
		return nil, fmt.Errorf("%w: NIT invalido para consultar informacion financiera", errs.ErrDataUnavailable)
	}

	currentYear := time.Now().Year()
	window := lookbackYears + 2
	if window < 7 {
		window = 7
	}
	minDate := fmt.Sprintf("%d-01-01T00:00:00", currentYear-window)

	allData := make(map[string][]models.StatementRow, len(config.SocrataDatasets))
	anyRows := false
	for _, category := range config.StatementCategories {
		rows, err := c.fetchDatasetRows(ctx, config.SocrataDatasets[category], cleanNIT, minDate)
		if err != nil {
			return nil, err
		}
		allData[category] = rows
		if len(rows) > 0 {
			anyRows = true
		}
		log.Printf("[SOCRATA] dataset=%s rows=%d nit=%s", category, len(rows), cleanNIT)
	}

	if !anyRows {
		return nil, fmt.Errorf("%w: no se encontraron estados financieros para este NIT en los datos abiertos", errs.ErrDataUnavailable)
	}
	return allData, nil
}

func (c *Client) fetchDatasetRows(ctx context.Context, datasetID, nit, minDate string) ([]models.StatementRow, error) {
	endpoint := fmt.Sprintf("%s/%s.json", c.baseURL, datasetID)
	whereClause := fmt.Sprintf("nit=%s AND fecha_corte >= '%s'", nit, minDate)

	var rows []models.StatementRow
	for offset := 0; ; offset += pageLimit {
		params := url.Values{}
		params.Set("$select", selectColumns)
		params.Set("$where", whereClause)
		params.Set("$order", "fecha_corte DESC")
		params.Set("$limit", fmt.Sprintf("%d", pageLimit))
		params.Set("$offset", fmt.Sprintf("%d", offset))

		chunk, err := c.fetchPage(ctx, endpoint+"?"+params.Encode())
		if err != nil {
			return nil, err
		}

		rows = append(rows, chunk...)
		if len(chunk) < pageLimit || offset > maxOffset {
			break
		}
	}

	return rows, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) ([]models.StatementRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: no fue posible conectarse con datos.gov.co: %v", errs.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: datos.gov.co respondio estado %d", errs.ErrConnectivity, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: lectura de la respuesta de datos.gov.co: %v", errs.ErrConnectivity, err)
	}

	var chunk []models.StatementRow
	if err := json.Unmarshal(body, &chunk); err != nil {
		return nil, fmt.Errorf("%w: la respuesta de datos.gov.co no tiene el formato esperado", errs.ErrSourceFormat)
	}
	return chunk, nil
}
