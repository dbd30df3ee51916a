// Package server exposes the performance engine over HTTP. The engine stays
// a library boundary; these handlers only decode snapshots, invoke the
// report computation, and encode the result.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nick-lortz/steelbuild-pro-sub006/internal/config"
	"github.com/nick-lortz/steelbuild-pro-sub006/internal/report"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/constants"
	"github.com/nick-lortz/steelbuild-pro-sub006/pkg/ledger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	conf          *config.Configuration
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the report API.
func NewHandler(logger *zap.Logger, conf *config.Configuration, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf == nil {
		conf = config.Default()
	}
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, conf: conf, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Report API endpoint (JSON snapshot body)
	mux.HandleFunc("/api/report", h.handleReport)

	// Report API endpoint (multipart YAML snapshot upload)
	mux.HandleFunc("/api/report/file", h.handleReportFile)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type reportResponse struct {
	Report     report.Report `json:"report"`
	Validation []string      `json:"validation,omitempty"`
	Duration   string        `json:"duration"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	requestID := uuid.NewString()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	var snapshot ledger.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("snapshot exceeds limit of %d bytes", h.maxUploadSize), requestID)
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode snapshot: %v", err), requestID)
		return
	}

	h.runReport(w, snapshot, start, requestID, "server.handleReport")
}

func (h *handler) handleReportFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	requestID := uuid.NewString()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), requestID)
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), requestID)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing snapshot file", requestID)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleReportFile"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read snapshot: %v", err), requestID)
		return
	}

	var snapshot ledger.Snapshot
	if err := yaml.Unmarshal(buf.Bytes(), &snapshot); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("error reading snapshot data, %v", err), requestID)
		return
	}

	h.runReport(w, snapshot, start, requestID, "server.handleReportFile")
}

func (h *handler) runReport(w http.ResponseWriter, snapshot ledger.Snapshot, start time.Time, requestID, op string) {
	validationErrs := ledger.Validate(snapshot)
	validation := make([]string, 0, len(validationErrs))
	for _, vErr := range validationErrs {
		validation = append(validation, vErr.Error())
	}
	if len(validationErrs) > 0 {
		h.logger.Warn("snapshot failed validation",
			zap.String("op", op),
			zap.String("requestId", requestID),
			zap.Int("problems", len(validationErrs)),
		)
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":      "snapshot failed validation",
			"validation": validation,
		})
		return
	}

	result := report.GetReport(h.logger, snapshot, h.conf)
	elapsed := time.Since(start)

	h.logger.Info("report served",
		zap.String("op", op),
		zap.String("requestId", requestID),
		zap.String("project", snapshot.ProjectID),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, reportResponse{
		Report:   result,
		Duration: elapsed.String(),
	})
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg, requestID string) {
	h.logger.Error("report request failed",
		zap.String("op", "server.respondError"),
		zap.String("requestId", requestID),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
