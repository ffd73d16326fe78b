// Package handlers implements the HTTP endpoints: file upload,
// question answering and report generation.
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sheetmind/sheetmind/internal/chat"
	"github.com/sheetmind/sheetmind/internal/common"
	"github.com/sheetmind/sheetmind/internal/config"
	"github.com/sheetmind/sheetmind/internal/session"
)

type Handler struct {
	Cfg   config.Config
	Svc   *chat.Service
	Store *session.Store
	Log   *zap.Logger

	now func() time.Time
}

func NewHandler(cfg config.Config, svc *chat.Service, store *session.Store, log *zap.Logger) *Handler {
	return &Handler{
		Cfg:   cfg,
		Svc:   svc,
		Store: store,
		Log:   log,
		now:   time.Now,
	}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"status": "ok"})
}
