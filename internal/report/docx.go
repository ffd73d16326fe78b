package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fumiama/go-docx"

	"github.com/sheetmind/sheetmind/internal/analyst"
)

const (
	accentColor   = "2E86AB"
	subtleColor   = "666666"
	footnoteColor = "999999"
)

// maxSummaryMetrics caps the key-metric rows appended after the LLM
// body.
const maxSummaryMetrics = 5

// StrategicDocx assembles the downloadable Word report: a title page,
// the LLM-authored body with its **heading** and bullet markup mapped
// to styles, a key-metrics summary and, when available, the chart
// image.
func StrategicDocx(body string, comp analyst.ComprehensiveAnalysis, chartPNG []byte, generatedAt time.Time) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	title := doc.AddParagraph().Justification("center")
	title.AddText("INFORME ESTRATÉGICO").Size("32").Color(accentColor).Bold()

	stamp := doc.AddParagraph().Justification("center")
	stamp.AddText(fmt.Sprintf("Generado el: %s", generatedAt.Format("02/01/2006"))).
		Size("20").Italic()

	doc.AddParagraph() // spacing after the title block

	for _, line := range strings.Split(body, "\n") {
		writeBodyLine(doc, line)
	}

	heading := doc.AddParagraph()
	heading.AddText("RESUMEN DE MÉTRICAS CLAVE").Size("24").Color(accentColor).Bold()

	total := doc.AddParagraph()
	total.AddText(fmt.Sprintf("Total de Registros: %d", comp.TotalRecords)).Size("22")

	for _, col := range topMetricColumns(comp) {
		m := comp.Metrics[col]
		p := doc.AddParagraph()
		p.AddText(fmt.Sprintf("%s: promedio %.2f (mín %.2f, máx %.2f, total %.2f)",
			col, m.Average, m.Min, m.Max, m.Sum)).Size("22")
	}

	if len(chartPNG) > 0 {
		imgPara := doc.AddParagraph().Justification("center")
		if _, err := imgPara.AddInlineDrawing(chartPNG); err != nil {
			return nil, fmt.Errorf("report: embed chart: %w", err)
		}
	}

	footer := doc.AddParagraph().Justification("center")
	footer.AddText("Este informe ha sido generado automáticamente mediante análisis de datos e inteligencia artificial.").
		Size("18").Color(subtleColor).Italic()
	when := doc.AddParagraph().Justification("center")
	when.AddText(fmt.Sprintf("Fecha de generación: %s", spanishDate(generatedAt))).
		Size("16").Color(footnoteColor)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("report: write docx: %w", err)
	}
	return buf.Bytes(), nil
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// spanishDate renders "2 de marzo de 2026, 15:04"; time.Format only
// knows English month names.
func spanishDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d, %02d:%02d",
		t.Day(), spanishMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

func writeBodyLine(doc *docx.Docx, line string) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		doc.AddParagraph()
	case strings.HasPrefix(trimmed, "**") && strings.HasSuffix(trimmed, "**"):
		p := doc.AddParagraph()
		p.AddText(strings.ReplaceAll(trimmed, "**", "")).Size("24").Color(accentColor).Bold()
	case isListLine(trimmed):
		p := doc.AddParagraph()
		p.AddText("    " + trimmed).Size("22")
	default:
		p := doc.AddParagraph()
		p.AddText(trimmed).Size("22")
	}
}

func isListLine(line string) bool {
	if strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") {
		return true
	}
	if len(line) >= 2 && line[0] >= '0' && line[0] <= '9' && line[1] == '.' {
		return true
	}
	return false
}

// topMetricColumns returns up to maxSummaryMetrics metric columns in
// stable name order so the document does not reshuffle between runs.
func topMetricColumns(comp analyst.ComprehensiveAnalysis) []string {
	cols := make([]string, 0, len(comp.Metrics))
	for col := range comp.Metrics {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	if len(cols) > maxSummaryMetrics {
		cols = cols[:maxSummaryMetrics]
	}
	return cols
}
