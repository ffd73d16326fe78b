package ai

import (
	"strings"
	"text/template"
)

// Prompt templates are collaborator inputs: the engine only supplies
// the interpolated values. Both templates instruct the model in
// Spanish because the product surface is Spanish.

// AnalysisPromptData feeds the per-question template.
type AnalysisPromptData struct {
	Columns             string
	TotalRows           int
	SampleData          string
	Question            string
	ConversationHistory string
}

// ReportPromptData feeds the strategic-report template.
type ReportPromptData struct {
	TotalRows     int
	Columns       string
	SampleData    string
	Distributions string
	Metrics       string
}

var analysisTmpl = template.Must(template.New("analysis").Parse(`Eres un analista financiero experto. Analiza los datos y responde SIEMPRE en español.

DATOS DISPONIBLES:
Total de registros: {{.TotalRows}}
Columnas disponibles: {{.Columns}}
Muestra de los datos reales: {{.SampleData}}

HISTORIAL RECIENTE: {{.ConversationHistory}}

PREGUNTA: {{.Question}}

INSTRUCCIONES:
1. SIEMPRE responde en ESPAÑOL COMPLETO
2. Analiza los datos reales que te proporciono en la muestra
3. Identifica automáticamente qué representan las columnas basándote en sus nombres y valores
4. Para preguntas sobre métricas específicas, CALCULA usando los patrones de los datos
5. Si detectas que son datos financieros, aplica contexto financiero apropiado
6. Si necesitas hacer cálculos, estímalos basándote en los patrones que ves en la muestra

GUÍAS GENERALES (adapta según los datos que veas):
- Si ves columnas como "estado", "calificacion", "status": analiza cuáles son positivos/negativos
- Si ves montos o importes: suma, promedia o compara según la pregunta
- Si ves fechas: analiza tendencias temporales
- Si ves categorías (agencias, productos, tipos): compara desempeños
- Si ves indicadores de riesgo: identifica los más/menos riesgosos

FORMATO DE RESPUESTA:
Da una respuesta directa, específica y en español. Si puedes estimar números basándote en los datos de muestra y extrapolar al total, hazlo.

Responde inteligentemente:`))

var reportTmpl = template.Must(template.New("report").Parse(`Eres un consultor estratégico senior. Genera un INFORME ESTRATÉGICO COMPLETO basado en los datos analizados.

CONTEXTO DE LOS DATOS:
- Total de registros: {{.TotalRows}}
- Columnas disponibles: {{.Columns}}
- Muestra representativa: {{.SampleData}}
- Análisis de distribuciones: {{.Distributions}}
- Métricas calculadas: {{.Metrics}}

INSTRUCCIONES PARA EL INFORME:
1. Analiza PROFUNDAMENTE los datos reales proporcionados
2. Identifica el tipo de negocio/industria basándote en las columnas
3. Genera insights estratégicos específicos y accionables
4. Incluye números reales extrapolados de la muestra
5. Todo en español profesional

ESTRUCTURA REQUERIDA:

**RESUMEN EJECUTIVO**
[Párrafo de 3-4 líneas con los hallazgos más importantes y el contexto del negocio]

**ANÁLISIS DE DATOS CLAVE**
[Analiza las métricas más importantes que calculaste, con números específicos]

**DISTRIBUCIONES CRÍTICAS**
[Examina las distribuciones categóricas más relevantes para el negocio]

**FORTALEZAS IDENTIFICADAS**
• [Fortaleza específica basada en datos reales]
• [Segunda fortaleza con números de soporte]
• [Tercera fortaleza]

**RIESGOS Y ÁREAS CRÍTICAS**
• [Riesgo específico identificado en los datos]
• [Segundo riesgo con impacto cuantificado]
• [Tercer riesgo]

**OPORTUNIDADES DE MEJORA**
• [Oportunidad específica]
• [Segunda oportunidad con potencial de impacto]
• [Tercera oportunidad]

**RECOMENDACIONES ESTRATÉGICAS**
1. **Acción Prioritaria:** [Recomendación específica y accionable]
2. **Optimización Operativa:** [Segunda recomendación]
3. **Gestión de Riesgos:** [Tercera recomendación]
4. **Monitoreo Continuo:** [Cuarta recomendación]

**MÉTRICAS CLAVE A MONITOREAR**
• [Métrica 1]: [Valor actual] - [Objetivo sugerido]
• [Métrica 2]: [Valor actual] - [Objetivo sugerido]
• [Métrica 3]: [Valor actual] - [Objetivo sugerido]

Genera el informe completo y profesional:`))

// RenderAnalysisPrompt renders the per-question prompt.
func RenderAnalysisPrompt(d AnalysisPromptData) (string, error) {
	var b strings.Builder
	if err := analysisTmpl.Execute(&b, d); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderReportPrompt renders the strategic-report prompt.
func RenderReportPrompt(d ReportPromptData) (string, error) {
	var b strings.Builder
	if err := reportTmpl.Execute(&b, d); err != nil {
		return "", err
	}
	return b.String(), nil
}
