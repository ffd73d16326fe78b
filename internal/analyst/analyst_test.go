package analyst

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetmind/sheetmind/internal/dataset"
)

func salesData() dataset.Dataset {
	return dataset.FromRows(
		[]string{"region", "ventas"},
		[][]string{
			{"A", "10"},
			{"A", "20"},
			{"B", "5"},
		},
	)
}

func TestNeedsChart(t *testing.T) {
	assert.True(t, NeedsChart("muéstrame una gráfica de región"))
	assert.True(t, NeedsChart("cómo se ve la DISTRIBUCIÓN por estado"))
	assert.True(t, NeedsChart("puedes comparar agencias"))
	assert.False(t, NeedsChart("cuál es el total"))
	assert.False(t, NeedsChart(""))
}

func TestSelectChartColumn_NamedColumnWins(t *testing.T) {
	spec := SelectChartColumn("muestra la distribución de region", salesData())
	require.NotNil(t, spec)

	assert.Equal(t, "pie", spec.Type, "2 categories fit a pie")
	assert.Equal(t, []string{"A", "B"}, spec.Labels)
	assert.Equal(t, []int{2, 1}, spec.Data)
	assert.Equal(t, "Distribución por region", spec.Title)
}

func TestSelectChartColumn_BarAboveFiveCategories(t *testing.T) {
	rows := make([][]string, 0, 14)
	for _, r := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		rows = append(rows, []string{r}, []string{r})
	}
	d := dataset.FromRows([]string{"zona"}, rows)

	spec := SelectChartColumn("gráfica por zona", d)
	require.NotNil(t, spec)
	assert.Equal(t, "bar", spec.Type)
	assert.Len(t, spec.Labels, 7)
}

func TestSelectChartColumn_FallbackIsBar(t *testing.T) {
	// Question names no column; the first narrow categorical column is
	// charted as a bar regardless of its category count.
	spec := SelectChartColumn("dame una gráfica", salesData())
	require.NotNil(t, spec)
	assert.Equal(t, "bar", spec.Type)
	assert.Equal(t, "Distribución por region", spec.Title)
}

func TestSelectChartColumn_NoCandidate(t *testing.T) {
	d := dataset.FromRows([]string{"c"}, [][]string{{"x"}, {"x"}})
	assert.Nil(t, SelectChartColumn("gráfica de c", d))
	assert.Nil(t, SelectChartColumn("gráfica", dataset.Dataset{}))
}

func TestCalculations(t *testing.T) {
	calc := Calculations(salesData(), dataset.DefaultMetricPolicy())

	assert.Equal(t, 3, calc["totalRegistros"])
	assert.Equal(t, 35.0, calc["total_ventas"])
	assert.InDelta(t, 11.6667, calc["promedio_ventas"].(float64), 0.001)

	require.Contains(t, calc, "distribucion_region")
	b, err := json.Marshal(calc["distribucion_region"])
	require.NoError(t, err)
	assert.JSONEq(t, `{"A":2,"B":1}`, string(b))
}

func TestCalculations_PolicyExcludesIdentifierColumns(t *testing.T) {
	d := dataset.FromRows(
		[]string{"cliente_id", "monto"},
		[][]string{{"1", "100"}, {"2", "200"}, {"3", "50"}},
	)
	calc := Calculations(d, dataset.DefaultMetricPolicy())

	assert.NotContains(t, calc, "total_cliente_id")
	assert.Contains(t, calc, "total_monto")
}

func TestCalculations_EmptyDataset(t *testing.T) {
	calc := Calculations(dataset.Dataset{}, dataset.DefaultMetricPolicy())
	assert.Empty(t, calc)
}

func TestBuildResponse(t *testing.T) {
	d := salesData()
	policy := dataset.DefaultMetricPolicy()

	t.Run("chart question", func(t *testing.T) {
		res := BuildResponse("prosa", "muestra la distribución de region", d, policy)
		assert.Equal(t, TypeChart, res.Type)
		assert.Equal(t, "prosa", res.AIResponse)
		require.NotNil(t, res.ChartData)
		assert.Equal(t, "pie", res.ChartData.Type)
		assert.Len(t, res.ChartData.Labels, len(res.ChartData.Data))
	})

	t.Run("metric question", func(t *testing.T) {
		res := BuildResponse("prosa", "cuál es el total", d, policy)
		assert.Equal(t, TypeMetric, res.Type)
		assert.Nil(t, res.ChartData)
		assert.Equal(t, 3, res.Calculations["totalRegistros"])
	})
}

func TestComprehend(t *testing.T) {
	comp := Comprehend(salesData())

	assert.Equal(t, 3, comp.TotalRecords)
	require.Len(t, comp.Columns, 2)
	assert.Equal(t, "region", comp.Columns[0].Name)
	require.Contains(t, comp.Metrics, "ventas")
	assert.Equal(t, 35.0, comp.Metrics["ventas"].Sum)
	assert.Contains(t, comp.Distributions, "region")
}

func TestComprehend_Empty(t *testing.T) {
	comp := Comprehend(dataset.Dataset{})
	assert.Equal(t, 0, comp.TotalRecords)
	assert.Empty(t, comp.Columns)
	assert.Empty(t, comp.Metrics)
	assert.Empty(t, comp.Distributions)
}
