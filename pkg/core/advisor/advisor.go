// Package advisor answers owner questions about a finished analysis in plain
// Spanish, backed by a Gemini model. It is optional: without an API key the
// rest of the application works normally.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/config"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/calc"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/llm"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/utils"
	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/models"
)

const systemPrompt = `Eres un asesor financiero para duenos de empresas colombianas.
Respondes en espanol claro, sin jerga contable innecesaria, usando solo las
cifras entregadas en el contexto. Si un dato falta, lo dices explicitamente.
Responde unicamente con un objeto JSON con los campos:
"respuesta" (parrafo principal), "enfoque" (en que metrica conviene enfocarse)
y "alertas" (lista de riesgos detectados, puede ser vacia).`

// Answer is the structured advisor response.
type Answer struct {
	SessionID string   `json:"session_id"`
	Respuesta string   `json:"respuesta"`
	Enfoque   string   `json:"enfoque"`
	Alertas   []string `json:"alertas"`
}

// Advisor wraps a model provider.
type Advisor struct {
	provider llm.Provider
}

// New creates an advisor on the given provider.
func New(provider llm.Provider) *Advisor {
	return &Advisor{provider: provider}
}

// Ask answers one question about the analysis package.
func (a *Advisor) Ask(ctx context.Context, pkg *models.AnalysisPackage, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("la pregunta no puede estar vacia")
	}

	prompt := fmt.Sprintf("Contexto financiero:\n%s\nPregunta del empresario: %s", buildContext(pkg), question)

	raw, err := a.provider.GenerateResponse(ctx, prompt, systemPrompt, map[string]interface{}{"json": true})
	if err != nil {
		return nil, fmt.Errorf("consulta al asesor: %w", err)
	}

	var answer Answer
	if err := utils.DecodeLLMJSON(raw, &answer); err != nil {
		return nil, fmt.Errorf("respuesta del asesor ilegible: %w", err)
	}
	answer.SessionID = uuid.NewString()
	return &answer, nil
}

// buildContext renders the metric series as a compact text block the model
// can quote from. Only the shared metric set goes in; raw statements stay out
// to keep the prompt small.
func buildContext(pkg *models.AnalysisPackage) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Empresa: %s\n", pkg.Company.DisplayLabel())
	for _, metricKey := range config.DefaultMetrics {
		label, ok := config.MetricLabels[metricKey]
		if !ok {
			label = metricKey
		}
		fmt.Fprintf(&b, "%s:", label)
		for _, year := range pkg.Years {
			snap := pkg.Snapshots[year]
			if snap == nil {
				continue
			}
			fmt.Fprintf(&b, " %d=%s", year, utils.FormatNumber(snap.Metrics[metricKey], 2))
		}
		b.WriteString("\n")
	}

	if len(pkg.Years) > 0 {
		latest := pkg.Years[len(pkg.Years)-1]
		if snap := pkg.Snapshots[latest]; snap != nil {
			fmt.Fprintf(&b, "Zona Z-Altman %d: %s\n", latest, calc.ZAltmanZone(snap.Metrics["z_altman"]))
		}
	}

	for _, warning := range pkg.AllWarnings() {
		fmt.Fprintf(&b, "Advertencia %s\n", warning)
	}
	return b.String()
}
