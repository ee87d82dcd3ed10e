/*
handlers.go - HTTP API handlers for holiday pay calculation

PURPOSE:
  Exposes the payroll transformer via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the payroll
  package.

ENDPOINTS:
  POST /holiday?holiday=YYYY-MM-DD
  POST /api/holiday?holiday=YYYY-MM-DD
      Body: the time-tracking CSV export.
      Optional query overrides: deduction=, formula=
      Response: HolidayResponse

  POST /api/holiday  (Content-Type: application/json)
      Body: HolidayRequest, with an optional rules override document.
      Response: HolidayResponse

  POST /api/holiday/xlsx?holiday=YYYY-MM-DD[&sheet=Name]
      Body: the export as an .xlsx workbook (first sheet unless named).
      Response: workbook with a Payroll sheet and an Approval sheet.
      The approval list is also sent in X-Approval-Names as a JSON array.

  GET /api/rules
      Response: the active rule set as factory.RulesJSON.

ARCHITECTURE:
  Handler holds the transformer built from configuration at startup.
  Requests carrying overrides get a transformer of their own; nothing is
  shared between requests except the immutable base rules.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Bad holiday date, malformed table, invalid rule overrides
  - 413: Body larger than maxBodyBytes
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - payroll/transformer.go: The pipeline
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/httplog/v3"
	"github.com/google/uuid"
	"github.com/warp/holiday-pay/factory"
	"github.com/warp/holiday-pay/payroll"
	"github.com/warp/holiday-pay/table"
)

const (
	HeaderApprovalNames = "X-Approval-Names"
	HeaderRunID         = "X-Run-ID"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxBodyBytes    = 32 << 20
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Transformer  *payroll.Transformer
	RulesFactory *factory.RulesFactory

	logger *slog.Logger
}

// NewHandler creates a handler around tr. Per-request rule overrides are
// layered over tr's rules.
func NewHandler(tr *payroll.Transformer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Transformer:  tr,
		RulesFactory: factory.NewRulesFactory(tr.Rules()),
		logger:       logger,
	}
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// CalculateHoliday transforms a CSV export, sent raw or inside a JSON
// HolidayRequest.
func (h *Handler) CalculateHoliday(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var (
		holiday   string
		body      io.Reader
		overrides *factory.RulesJSON
	)
	if isJSON(r) {
		var req HolidayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.fail(w, r, "Invalid request body", fmt.Errorf("%w: %w", payroll.ErrMalformedInput, err))
			return
		}
		holiday, body, overrides = req.Holiday, strings.NewReader(req.CSV), req.Rules
	} else {
		holiday, body, overrides = r.URL.Query().Get("holiday"), r.Body, queryOverrides(r)
	}

	// The date is checked before the overrides and the table.
	if _, err := payroll.ParseHoliday(holiday); err != nil {
		h.fail(w, r, "Invalid holiday", err)
		return
	}

	tr, err := h.transformerFor(overrides)
	if err != nil {
		h.fail(w, r, "Invalid rules", err)
		return
	}

	out, err := tr.ProcessCSV(holiday, body)
	if err != nil {
		h.fail(w, r, "Failed to compute holiday pay", err)
		return
	}

	runID := h.computed(r, holiday, out.Rows, out.ApprovalNames)
	w.Header().Set(HeaderRunID, runID)
	writeJSON(w, http.StatusOK, HolidayResponse{
		CSV:            out.CSV,
		SuperAdminList: out.ApprovalNames,
		RunID:          runID,
		Holiday:        holiday,
		Rows:           out.Rows,
	})
}

// CalculateHolidayXLSX transforms a workbook export and answers with a
// workbook.
func (h *Handler) CalculateHolidayXLSX(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// The date is checked before the body is read.
	holiday, err := payroll.ParseHoliday(q.Get("holiday"))
	if err != nil {
		h.fail(w, r, "Invalid holiday", err)
		return
	}

	tr, err := h.transformerFor(queryOverrides(r))
	if err != nil {
		h.fail(w, r, "Invalid rules", err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	in, err := table.ReadXLSX(r.Body, q.Get("sheet"))
	if err != nil {
		h.fail(w, r, "Failed to read workbook", fmt.Errorf("%w: %w", payroll.ErrMalformedInput, err))
		return
	}

	res, err := tr.Process(holiday, in)
	if err != nil {
		h.fail(w, r, "Failed to compute holiday pay", err)
		return
	}

	var buf bytes.Buffer
	err = table.WriteXLSX(&buf,
		table.Sheet{Name: "Payroll", Table: res.Table},
		table.Sheet{Name: "Approval", Table: approvalTable(res.ApprovalNames)},
	)
	if err != nil {
		h.fail(w, r, "Failed to render workbook", err)
		return
	}

	names, err := json.Marshal(res.ApprovalNames)
	if err != nil {
		h.fail(w, r, "Failed to render approval list", err)
		return
	}

	runID := h.computed(r, holiday.String(), len(res.Rows), res.ApprovalNames)
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="holiday-pay-%s.xlsx"`, holiday))
	w.Header().Set(HeaderApprovalNames, string(names))
	w.Header().Set(HeaderRunID, runID)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetRules returns the rule set requests are computed with when they carry
// no overrides.
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.RulesFactory.ToJSON(h.Transformer.Rules()))
}

// =============================================================================
// HELPERS
// =============================================================================

// transformerFor returns the shared transformer, or a fresh one when the
// request overrides any rule.
func (h *Handler) transformerFor(overrides *factory.RulesJSON) (*payroll.Transformer, error) {
	if overrides == nil {
		return h.Transformer, nil
	}
	rules, err := h.RulesFactory.FromJSON(*overrides)
	if err != nil {
		return nil, err
	}
	return payroll.NewTransformer(rules)
}

// computed logs a finished run and tags the request log with its id.
func (h *Handler) computed(r *http.Request, holiday string, rows int, approvals []string) string {
	runID := uuid.NewString()
	httplog.SetAttrs(r.Context(), slog.String("run_id", runID))
	h.logger.InfoContext(r.Context(), "holiday pay computed",
		slog.String("run_id", runID),
		slog.String("holiday", holiday),
		slog.Int("rows", rows),
		slog.Int("approvals", len(approvals)),
	)
	return runID
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, message, slog.Int("status", status), slog.Any("error", err))
	writeError(w, status, message, err)
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case payroll.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// queryOverrides reads the rule knobs a CSV upload can set in its URL.
func queryOverrides(r *http.Request) *factory.RulesJSON {
	q := r.URL.Query()
	deduction, formula := q.Get("deduction"), q.Get("formula")
	if deduction == "" && formula == "" {
		return nil
	}
	return &factory.RulesJSON{Deduction: deduction, Formula: formula}
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func approvalTable(names []string) table.Table {
	t := table.Table{Header: []string{"Name"}, Rows: make([][]string, len(names))}
	for i, n := range names {
		t.Rows[i] = []string{n}
	}
	return t
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
