// Package supersoc searches companies on the Supersociedades consultation
// portal by NIT or business name. The portal only speaks HTML, so results
// are scraped from the detail page or the result table.
package supersoc

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/config"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/errs"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/utils"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/models"
)

// Client talks to the superwas consultation portal.
type Client struct {
	httpClient *http.Client
	queryURL   string
	userAgent  string
	maxResults int
}

// NewClient builds a portal client from the runtime settings.
func NewClient(settings *config.Settings) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: settings.HTTPTimeout()},
		queryURL:   settings.SuperwasQueryURL,
		userAgent:  config.UserAgent,
		maxResults: settings.MaxSearchResults,
	}
}

// Search dispatches by query type: "nit" hits the detail lookup, anything
// else searches by razón social.
func (c *Client) Search(ctx context.Context, query, by string) ([]models.CompanyRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: debes ingresar un NIT o una razon social para buscar", errs.ErrCompanyNotFound)
	}

	if strings.EqualFold(by, "nit") {
		return c.SearchByNIT(ctx, query)
	}
	return c.SearchByName(ctx, query)
}

// SearchByNIT looks up the company detail page for one NIT.
func (c *Client) SearchByNIT(ctx context.Context, nit string) ([]models.CompanyRecord, error) {
	cleanNIT := utils.NormalizeNIT(nit)
	if cleanNIT == "" {
		return nil, fmt.Errorf("%w: el NIT ingresado no tiene un formato valido", errs.ErrCompanyNotFound)
	}

	form := url.Values{}
	form.Set("action", "consultaPorNit")
	form.Set("nit", cleanNIT)

	doc, rawHTML, err := c.postForm(ctx, form)
	if err != nil {
		return nil, err
	}

	title := strings.ToLower(strings.TrimSpace(doc.Find("title").Text()))
	if !strings.Contains(title, "detalle") && !strings.Contains(strings.ToLower(rawHTML), "sociedad") {
		return nil, fmt.Errorf("%w: no se encontro una empresa con el NIT %s en Supersociedades", errs.ErrCompanyNotFound, cleanNIT)
	}

	company := parseDetailPage(doc, cleanNIT)
	if company.RazonSocial == "" {
		return nil, fmt.Errorf("%w: la estructura de la pagina de detalle cambio y no fue posible leer la empresa", errs.ErrSourceFormat)
	}
	return []models.CompanyRecord{company}, nil
}

// SearchByName searches the portal result table by razón social.
func (c *Client) SearchByName(ctx context.Context, name string) ([]models.CompanyRecord, error) {
	form := url.Values{}
	form.Set("action", "consultaPorRazonSocial")
	form.Set("razonSocial", name)

	doc, _, err := c.postForm(ctx, form)
	if err != nil {
		return nil, err
	}

	var rows []models.CompanyRecord
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 5 {
			return
		}

		anchor := cells.Eq(0).Find("a").First()
		nitText := cells.Eq(0).Text()
		if anchor.Length() > 0 {
			nitText = anchor.Text()
		}
		nit := utils.NormalizeNIT(nitText)

		// Some result tables hide the NIT in the detail link instead of the
		// cell text.
		if nit == "" && anchor.Length() > 0 {
			if href, ok := anchor.Attr("href"); ok {
				if parsed, err := url.Parse(href); err == nil {
					nit = utils.NormalizeNIT(parsed.Query().Get("nit"))
				}
			}
		}
		if nit == "" {
			return
		}

		rows = append(rows, models.CompanyRecord{
			NIT:            nit,
			RazonSocial:    cellText(cells.Eq(1)),
			Estado:         cellText(cells.Eq(2)),
			EtapaSituacion: cellText(cells.Eq(3)),
			Dependencia:    cellText(cells.Eq(4)),
		})
	})

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no se encontraron coincidencias para %q en Supersociedades", errs.ErrCompanyNotFound, name)
	}

	log.Printf("[SUPERSOC] search by name=%q -> %d results", name, len(rows))
	if len(rows) > c.maxResults {
		rows = rows[:c.maxResults]
	}
	return rows, nil
}

func (c *Client) postForm(ctx context.Context, form url.Values) (*goquery.Document, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: no fue posible conectar con Supersociedades: %v", errs.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: Supersociedades respondio estado %d", errs.ErrConnectivity, resp.StatusCode)
	}

	var rawHTML strings.Builder
	doc, err := goquery.NewDocumentFromReader(io.TeeReader(resp.Body, &rawHTML))
	if err != nil {
		return nil, "", fmt.Errorf("%w: no fue posible interpretar la respuesta del portal", errs.ErrSourceFormat)
	}
	return doc, rawHTML.String(), nil
}

func cellText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// parseDetailPage reads the header/value tables of the company detail page.
func parseDetailPage(doc *goquery.Document, fallbackNIT string) models.CompanyRecord {
	record := models.CompanyRecord{NIT: fallbackNIT}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		header := row.Find("th").First()
		value := row.Find("td").First()
		if header.Length() == 0 || value.Length() == 0 {
			return
		}
		key := utils.NormalizeText(cellText(header))
		text := cellText(value)

		switch {
		case strings.HasPrefix(key, "nit"):
			if nit := utils.NormalizeNIT(text); nit != "" {
				record.NIT = nit
			}
		case strings.Contains(key, "razon social"):
			record.RazonSocial = text
		case strings.HasPrefix(key, "estado"):
			record.Estado = text
		case strings.Contains(key, "etapa"):
			record.EtapaSituacion = text
		case strings.Contains(key, "dependencia"):
			record.Dependencia = text
		case strings.Contains(key, "expediente"):
			record.Expediente = text
		}
	})

	return record
}
