package advisor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/utils"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/models"
)

type fakeProvider struct {
	response   string
	err        error
	lastPrompt string
	lastSystem string
}

func (f *fakeProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	f.lastPrompt = prompt
	f.lastSystem = systemPrompt
	return f.response, f.err
}

func testPackage() *models.AnalysisPackage {
	return &models.AnalysisPackage{
		ID:      "test",
		Company: models.CompanyRecord{NIT: "900123456", RazonSocial: "ACME ANDINA S.A.S."},
		Years:   []int{2022, 2023},
		Snapshots: map[int]*models.YearFinancialSnapshot{
			2022: {Year: 2022, Metrics: map[string]*float64{"ingresos": utils.FloatPtr(900)}},
			2023: {
				Year: 2023,
				Metrics: map[string]*float64{
					"ingresos": utils.FloatPtr(1000),
					"z_altman": utils.FloatPtr(3.2),
				},
				Warnings: []string{"Datos incompletos para: deuda"},
			},
		},
		GeneratedAt: time.Now(),
	}
}

func TestAskParsesStructuredAnswer(t *testing.T) {
	provider := &fakeProvider{
		response: `{"respuesta": "Las ventas crecen", "enfoque": "ingresos", "alertas": ["deuda sin datos"]}`,
	}
	adv := New(provider)

	answer, err := adv.Ask(context.Background(), testPackage(), "¿Como van las ventas?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.Respuesta != "Las ventas crecen" {
		t.Errorf("unexpected respuesta: %q", answer.Respuesta)
	}
	if answer.SessionID == "" {
		t.Error("expected a session id")
	}
	if len(answer.Alertas) != 1 {
		t.Errorf("unexpected alertas: %v", answer.Alertas)
	}
}

func TestAskPromptCarriesContext(t *testing.T) {
	provider := &fakeProvider{response: `{"respuesta": "ok", "enfoque": "", "alertas": []}`}
	adv := New(provider)

	if _, err := adv.Ask(context.Background(), testPackage(), "¿Pregunta?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, fragment := range []string{
		"ACME ANDINA S.A.S. (NIT 900123456)",
		"Ingresos:",
		"2023=1,000.00",
		"Zona Z-Altman 2023: solida",
		"Advertencia 2023: Datos incompletos para: deuda",
		"¿Pregunta?",
	} {
		if !strings.Contains(provider.lastPrompt, fragment) {
			t.Errorf("prompt missing %q:\n%s", fragment, provider.lastPrompt)
		}
	}
	if !strings.Contains(provider.lastSystem, "JSON") {
		t.Error("system prompt should request JSON output")
	}
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	adv := New(&fakeProvider{})
	if _, err := adv.Ask(context.Background(), testPackage(), "   "); err == nil {
		t.Error("expected an error for an empty question")
	}
}

func TestAskToleratesFencedResponse(t *testing.T) {
	provider := &fakeProvider{
		response: "```json\n{\"respuesta\": \"ok\", \"enfoque\": \"deuda\", \"alertas\": []}\n```",
	}
	adv := New(provider)

	answer, err := adv.Ask(context.Background(), testPackage(), "¿Y la deuda?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.Enfoque != "deuda" {
		t.Errorf("unexpected enfoque: %q", answer.Enfoque)
	}
}
