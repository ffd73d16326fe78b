package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sheetmind/sheetmind/internal/common"
	"github.com/sheetmind/sheetmind/internal/ingest"
)

// The upload preview shows fewer rows than the prompt sample the chat
// service feeds the model.
const uploadSampleSize = 3

// Upload ingests a spreadsheet or CSV file and opens a session for it.
// An optional "question" form field is answered in the same request;
// a model failure there is logged but never fails the upload.
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "file is required")
		return
	}
	if fh.Size > h.Cfg.MaxUploadBytes {
		common.Fail(c, http.StatusRequestEntityTooLarge, 10004,
			fmt.Sprintf("file exceeds %d bytes", h.Cfg.MaxUploadBytes))
		return
	}

	f, err := fh.Open()
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10005, "cannot read file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10005, "cannot read file")
		return
	}

	d, err := ingest.File(fh.Filename, data)
	if err != nil {
		h.Log.Warn("ingest failed",
			zap.String("filename", fh.Filename),
			zap.Error(err))
		common.Fail(c, http.StatusBadRequest, 10006, err.Error())
		return
	}

	sess, err := h.Store.Create(d, d.Columns)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to create session")
		return
	}

	h.Log.Info("file ingested",
		zap.String("session_id", sess.ID),
		zap.String("filename", fh.Filename),
		zap.Int("rows", d.Len()),
		zap.Int("columns", len(d.Columns)))

	resp := gin.H{
		"message":    "Archivo procesado exitosamente",
		"sessionId":  sess.ID,
		"totalRows":  d.Len(),
		"columns":    d.Columns,
		"sampleData": d.Sample(uploadSampleSize),
		"expiresAt":  sess.ExpiresAt,
		"validFor":   fmt.Sprintf("%d horas", int(h.Cfg.SessionTTL.Hours())),
	}

	if question := c.PostForm("question"); question != "" {
		resp["initialQuestion"] = question
		if ans, err := h.Svc.Ask(c.Request.Context(), sess.ID, question); err != nil {
			// the upload already succeeded; report it as such
			h.Log.Warn("initial question failed",
				zap.String("session_id", sess.ID),
				zap.Error(err))
		} else {
			resp["initialResponse"] = ans.Result
		}
	}

	common.OK(c, resp)
}
