package handlers

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/zhenqiu/fupan/internal/review"
	"github.com/zhenqiu/fupan/pkg/logger"
)

// ReviewHandler triggers review runs over HTTP.
type ReviewHandler struct {
	runner  *review.Runner
	log     *logger.Logger
	running int32
}

// NewReviewHandler creates the handler.
func NewReviewHandler(runner *review.Runner, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{runner: runner, log: log}
}

// Trigger kicks off a review in the background. Only one run at a time;
// a second trigger while busy gets 409.
// POST /api/review/run?date=YYYY-MM-DD&notify=false
func (h *ReviewHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" && !dateRe.MatchString(date) {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	notify := r.URL.Query().Get("notify") != "false"

	if !atomic.CompareAndSwapInt32(&h.running, 0, 1) {
		respondError(w, http.StatusConflict, "a review run is already in progress")
		return
	}

	go func() {
		defer atomic.StoreInt32(&h.running, 0)
		if _, err := h.runner.Run(context.Background(), date, notify); err != nil {
			h.log.WithError(err).Error("后台复盘失败")
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "started",
		"date":   date,
	})
}
