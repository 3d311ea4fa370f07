// Package handlers holds the HTTP endpoint implementations.
package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"regexp"

	"github.com/gorilla/mux"

	"github.com/zhenqiu/fupan/internal/report"
	"github.com/zhenqiu/fupan/pkg/logger"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ReportHandler serves saved strategy reports.
type ReportHandler struct {
	writer *report.Writer
	log    *logger.Logger
}

// NewReportHandler creates a report handler backed by the report writer's
// directory.
func NewReportHandler(writer *report.Writer, log *logger.Logger) *ReportHandler {
	return &ReportHandler{writer: writer, log: log}
}

// GetLatest returns the most recent saved report.
// GET /api/report/latest
func (h *ReportHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	date, err := h.writer.LatestDate()
	if err != nil {
		h.log.WithError(err).Error("扫描报告目录失败")
		respondError(w, http.StatusInternalServerError, "failed to scan reports")
		return
	}
	if date == "" {
		respondError(w, http.StatusNotFound, "no reports yet")
		return
	}
	h.serveReport(w, date)
}

// GetByDate returns the report for one trade date.
// GET /api/report/{date}
func (h *ReportHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	if !dateRe.MatchString(date) {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	h.serveReport(w, date)
}

func (h *ReportHandler) serveReport(w http.ResponseWriter, date string) {
	rep, err := h.writer.Load(date)
	if err != nil {
		if os.IsNotExist(err) {
			respondError(w, http.StatusNotFound, "no report for "+date)
			return
		}
		h.log.WithError(err).WithField("trade_date", date).Error("读取报告失败")
		respondError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
