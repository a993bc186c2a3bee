package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/lburgess/aftlab/internal/domain"
)

// promptTemplateText asks for a short prose reading of a fit. The raw result
// JSON is included verbatim so the model sees the exact estimates.
const promptTemplateText = `You are a biostatistician explaining survival analysis results to a
colleague who is not a statistician.

A {{.Family}} model was fitted to the dataset "{{.DatasetName}}"
({{.SampleSize}} subjects, {{.Events}} observed events, {{.Censored}} censored).

The estimates, as JSON:

{{.ResultJSON}}

In one short paragraph of plain prose, explain what these estimates say
about how long subjects survive and how the treatment arm compares to
control. Interpret coefficients on their natural scale (hazard ratios,
time ratios, or mean durations) rather than restating raw numbers.
Do not use markup, bullet points, or jargon.`

var promptTemplate = template.Must(template.New("interpret").Parse(promptTemplateText))

// promptData carries the fields the prompt template renders.
type promptData struct {
	Family      domain.FitFamily
	DatasetName string
	SampleSize  int
	Events      int
	Censored    int
	ResultJSON  string
}

// buildPrompt renders the interpretation prompt for a fit.
func buildPrompt(dataset *domain.Dataset, fit *domain.ModelFit) (string, error) {
	var result domain.FitResult
	if err := json.Unmarshal(fit.Result, &result); err != nil {
		return "", fmt.Errorf("failed to decode fit result: %w", err)
	}

	pretty, err := json.MarshalIndent(&result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render fit result: %w", err)
	}

	data := promptData{
		Family:      fit.Family,
		DatasetName: dataset.Name,
		SampleSize:  result.SampleSize,
		Events:      result.Events,
		Censored:    result.Censored,
		ResultJSON:  string(pretty),
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return buf.String(), nil
}
