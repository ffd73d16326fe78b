package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sheetmind/sheetmind/internal/chat"
	"github.com/sheetmind/sheetmind/internal/common"
	"github.com/sheetmind/sheetmind/internal/session"
)

type askReq struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question"`
}

// needsUpload marks the 404 a client can fix by uploading a file: the
// session either expired or never existed.
func needsUpload(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusNotFound, gin.H{
		"code":    code,
		"message": msg,
		"data":    gin.H{"needsUpload": true},
	})
}

func (h *Handler) failAsk(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrQuestionRequired):
		common.Fail(c, http.StatusBadRequest, 10002, "question is required")
	case errors.Is(err, session.ErrNotFound):
		needsUpload(c, 40401, "session expired or not found")
	case errors.Is(err, chat.ErrNoActiveSession):
		needsUpload(c, 40402, "no active session")
	default:
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to answer question")
	}
}

// Chat answers one question over the session's dataset.
func (h *Handler) Chat(c *gin.Context) {
	var req askReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	ans, err := h.Svc.Ask(c.Request.Context(), req.SessionID, req.Question)
	if err != nil {
		h.failAsk(c, err)
		return
	}

	common.OK(c, gin.H{
		"sessionId":         ans.Session.ID,
		"question":          req.Question,
		"response":          ans.Result,
		"expiresAt":         ans.Session.ExpiresAt,
		"conversationCount": ans.Session.Len(),
	})
}

// ChatStream answers one question streaming the model's prose over
// SSE. The deterministic result arrives as a final "result" event once
// the prose completes.
func (h *Handler) ChatStream(c *gin.Context) {
	var req askReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	// SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // helpful if behind nginx

	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	chunks, result, errs := h.Svc.AskStream(ctx, req.SessionID, req.Question)

	// heartbeat ticker (keeps connections alive)
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		fmt.Fprintf(c.Writer, "event: error\ndata: flusher not supported\n\n")
		return
	}

	writeJSON := func(event string, payload any) {
		b, err := json.Marshal(payload)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"message\":\"json marshal failed\"}\n\n")
			flusher.Flush()
			return
		}
		if event != "" {
			fmt.Fprintf(c.Writer, "event: %s\n", event)
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", string(b))
		flusher.Flush()
	}

	for {
		select {
		case ch, ok := <-chunks:
			if !ok {
				chunks = nil
				continue
			}
			writeJSON("chunk", gin.H{
				"type":  "chunk",
				"delta": ch,
			})

		case <-ticker.C:
			writeJSON("ping", gin.H{
				"type": "ping",
				"ts":   time.Now().Unix(),
			})

		case err, ok := <-errs:
			if !ok {
				errs = nil
				if result == nil {
					return
				}
				continue
			}
			if err == nil {
				continue
			}
			writeJSON("error", gin.H{
				"type":        "error",
				"message":     err.Error(),
				"needsUpload": errors.Is(err, session.ErrNotFound) || errors.Is(err, chat.ErrNoActiveSession),
			})
			return

		case ans, ok := <-result:
			if !ok {
				result = nil
				if errs == nil {
					return
				}
				continue
			}
			writeJSON("result", gin.H{
				"type":              "result",
				"sessionId":         ans.Session.ID,
				"response":          ans.Result,
				"conversationCount": ans.Session.Len(),
			})
			writeJSON("done", gin.H{"type": "done"})
			return

		case <-ctx.Done():
			return
		}
	}
}
