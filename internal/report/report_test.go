package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetmind/sheetmind/internal/analyst"
	"github.com/sheetmind/sheetmind/internal/dataset"
)

func TestChartPNG(t *testing.T) {
	t.Run("pie", func(t *testing.T) {
		png, err := ChartPNG(analyst.ChartSpec{
			Type:   "pie",
			Labels: []string{"A", "B"},
			Data:   []int{2, 1},
			Title:  "Distribución por region",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, png)
		// PNG signature
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
	})

	t.Run("bar", func(t *testing.T) {
		png, err := ChartPNG(analyst.ChartSpec{
			Type:   "bar",
			Labels: []string{"A", "B", "C"},
			Data:   []int{3, 2, 1},
			Title:  "Distribución por zona",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, png)
	})

	t.Run("malformed spec", func(t *testing.T) {
		_, err := ChartPNG(analyst.ChartSpec{Labels: []string{"A"}, Data: []int{1, 2}})
		assert.Error(t, err)
	})
}

func TestSpanishDate(t *testing.T) {
	assert.Equal(t, "1 de marzo de 2025, 10:00",
		spanishDate(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "31 de diciembre de 2026, 23:59",
		spanishDate(time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)))
}

func TestStrategicDocx(t *testing.T) {
	d := dataset.FromRows(
		[]string{"region", "ventas"},
		[][]string{{"A", "10"}, {"A", "20"}, {"B", "5"}},
	)
	comp := analyst.Comprehend(d)

	body := "**RESUMEN EJECUTIVO**\nTexto del resumen.\n\n• Primer punto\n1. Recomendación"
	out, err := StrategicDocx(body, comp, nil, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotEmpty(t, out)
	// docx files are zip archives
	assert.Equal(t, []byte{'P', 'K'}, out[:2])
}
