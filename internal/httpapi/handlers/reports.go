package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sheetmind/sheetmind/internal/analyst"
	"github.com/sheetmind/sheetmind/internal/common"
	"github.com/sheetmind/sheetmind/internal/report"
)

const wordContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type reportReq struct {
	SessionID string `json:"sessionId"`
}

// GenerateReport returns the strategic report as JSON: the model's
// prose body plus the full deterministic analysis it was based on.
func (h *Handler) GenerateReport(c *gin.Context) {
	var req reportReq
	_ = c.ShouldBindJSON(&req) // allow empty body

	rep, err := h.Svc.StrategicReport(c.Request.Context(), req.SessionID)
	if err != nil {
		h.failAsk(c, err)
		return
	}

	common.OK(c, gin.H{
		"sessionId":   rep.Session.ID,
		"report":      rep.Body,
		"analysis":    rep.Analysis,
		"generatedAt": h.now(),
	})
}

// GenerateReportWord returns the strategic report as a downloadable
// Word document, with a chart embedded when a categorical column
// qualifies for one.
func (h *Handler) GenerateReportWord(c *gin.Context) {
	var req reportReq
	_ = c.ShouldBindJSON(&req)

	rep, err := h.Svc.StrategicReport(c.Request.Context(), req.SessionID)
	if err != nil {
		h.failAsk(c, err)
		return
	}

	// chart is best effort: the report stands without one
	var chartPNG []byte
	if spec := analyst.FallbackChartSpec(rep.Session.Data); spec != nil {
		png, err := report.ChartPNG(*spec)
		if err != nil {
			h.Log.Warn("chart render failed",
				zap.String("session_id", rep.Session.ID),
				zap.Error(err))
		} else {
			chartPNG = png
		}
	}

	now := h.now()
	doc, err := report.StrategicDocx(rep.Body, rep.Analysis, chartPNG, now)
	if err != nil {
		h.Log.Error("document build failed",
			zap.String("session_id", rep.Session.ID),
			zap.Error(err))
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to build document")
		return
	}

	filename := fmt.Sprintf("Informe_Estrategico_%s.docx", now.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, wordContentType, doc)
}
