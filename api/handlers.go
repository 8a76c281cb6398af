/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes enrollment, payday and payment history via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to the
  enrollment service and the payroll engine.

ENDPOINTS:
  Employees:
    GET    /api/employees                    List all employees
    POST   /api/employees                    Enroll employee
    GET    /api/employees/{id}               Get employee details
    DELETE /api/employees/{id}               Remove employee

  Activity:
    POST   /api/employees/{id}/time-records  Log hours (hourly only)
    POST   /api/employees/{id}/sales         Log a sale (commissioned only)
    POST   /api/employees/{id}/deductions    Set current service charge

  Payments:
    GET    /api/employees/{id}/payments      Payment history
    GET    /api/payments                     Every payment
    GET    /api/payments/{id}/payslip        Payslip PDF

  Payday:
    POST   /api/payday                       Run payday for a date
    GET    /api/payday/runs                  Recorded runs, newest first

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access and run bookkeeping
  - Enrollment: Validating writes
  - Engine: Payday orchestration

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, missing fields, invalid input
  - 404: Employee or payment not found
  - 409: Record does not fit the employee's pay scheme
  - 500: Internal errors, aborted payday

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scheduler.go: Automatic payday
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/payroll-engine/enrollment"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/payslip"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Enrollment *enrollment.Service
	Engine     *payroll.Engine

	logger *zap.Logger
	now    func() time.Time

	// One payday at a time across the API and the scheduler
	paydayMu sync.Mutex
}

// NewHandler wires the enrollment service and the engine to store.
func NewHandler(store *sqlite.Store, logger *zap.Logger, engineOpts ...payroll.Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := append([]payroll.Option{payroll.WithLogger(logger)}, engineOpts...)
	return &Handler{
		Store:      store,
		Enrollment: enrollment.NewService(store, enrollment.WithLogger(logger)),
		Engine:     payroll.NewEngine(payroll.CollaboratorsFrom(store), opts...),
		logger:     logger,
		now:        time.Now,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Enrollment.GetEmployee(r.Context(), employeeID(r))
	if err != nil {
		h.writeDomainError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// CreateEmployee enrolls a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, err := h.Enrollment.AddEmployee(r.Context(), enrollment.EmployeeRequest{
		Name:           req.Name,
		Address:        req.Address,
		Scheme:         payroll.SchemeKind(req.Scheme),
		Method:         payroll.DisbursementMethod(req.Method),
		HourlyRate:     req.HourlyRate,
		MonthlyPay:     req.MonthlyPay,
		CommissionRate: req.CommissionRate,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// DeleteEmployee removes an employee. History is kept.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Enrollment.DeleteEmployee(r.Context(), employeeID(r)); err != nil {
		h.writeDomainError(w, "Failed to delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ACTIVITY HANDLERS
// =============================================================================

// AddTimeRecord logs hours worked.
// POST /api/employees/{id}/time-records
func (h *Handler) AddTimeRecord(w http.ResponseWriter, r *http.Request) {
	var req TimeRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := payroll.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	rec, err := h.Enrollment.AddTimeRecord(r.Context(), employeeID(r), date, req.Hours)
	if err != nil {
		h.writeDomainError(w, "Failed to add time record", err)
		return
	}
	writeJSON(w, http.StatusCreated, TimeRecordDTO{
		ID:         string(rec.ID),
		EmployeeID: string(rec.EmployeeID),
		Date:       rec.Date.Format(payroll.DateLayout),
		Hours:      rec.Hours,
	})
}

// AddSalesRecord logs a sale.
// POST /api/employees/{id}/sales
func (h *Handler) AddSalesRecord(w http.ResponseWriter, r *http.Request) {
	var req SalesRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := payroll.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	rec, err := h.Enrollment.AddSalesRecord(r.Context(), employeeID(r), date, req.Amount)
	if err != nil {
		h.writeDomainError(w, "Failed to add sales record", err)
		return
	}
	writeJSON(w, http.StatusCreated, SalesRecordDTO{
		ID:         string(rec.ID),
		EmployeeID: string(rec.EmployeeID),
		Date:       rec.Date.Format(payroll.DateLayout),
		Amount:     rec.Amount,
	})
}

// AddDeduction sets the employee's current service charge.
// POST /api/employees/{id}/deductions
func (h *Handler) AddDeduction(w http.ResponseWriter, r *http.Request) {
	var req DeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	d, err := h.Enrollment.AddDeduction(r.Context(), employeeID(r), req.Amount)
	if err != nil {
		h.writeDomainError(w, "Failed to add deduction", err)
		return
	}
	writeJSON(w, http.StatusCreated, DeductionDTO{
		ID:         string(d.ID),
		EmployeeID: string(d.EmployeeID),
		Amount:     d.Amount,
		CreatedAt:  d.CreatedAt.Format(time.RFC3339),
	})
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// ListEmployeePayments returns an employee's payments, oldest first.
// GET /api/employees/{id}/payments
func (h *Handler) ListEmployeePayments(w http.ResponseWriter, r *http.Request) {
	id := employeeID(r)
	if _, err := h.Enrollment.GetEmployee(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to list payments", err)
		return
	}
	payments, err := h.Store.ListPayments(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to list payments", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTOs(payments))
}

// ListPayments returns every payment.
// GET /api/payments
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Store.ListPayments(r.Context(), "")
	if err != nil {
		h.writeDomainError(w, "Failed to list payments", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTOs(payments))
}

// GetPayslip renders a payment as PDF. Payments outlive their employee, so a
// deleted payee is rendered from the payment alone.
// GET /api/payments/{id}/payslip
func (h *Handler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	payment, err := h.Store.GetPayment(ctx, payroll.PaymentID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, "Failed to get payment", err)
		return
	}
	emp, err := h.Enrollment.GetEmployee(ctx, payment.EmployeeID)
	switch {
	case payroll.IsNotFound(err):
		emp = formerEmployee(payment.EmployeeID)
	case err != nil:
		h.writeDomainError(w, "Failed to get payee", err)
		return
	}

	var buf bytes.Buffer
	if err := payslip.Render(&buf, emp, *payment); err != nil {
		h.writeDomainError(w, "Failed to render payslip", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=payslip-%s.pdf", payment.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// =============================================================================
// PAYDAY
// =============================================================================

// TriggerPayday runs payday for the requested date (today when empty).
// POST /api/payday
func (h *Handler) TriggerPayday(w http.ResponseWriter, r *http.Request) {
	// An empty body, chunked or not, means today.
	var req PaydayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date := payroll.Day(h.now())
	if req.Date != "" {
		d, err := payroll.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		date = d
	}

	record, run, err := h.RunPayday(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Payday aborted", err)
		return
	}
	writeJSON(w, http.StatusOK, PaydayResponse{
		RunID:    record.ID,
		Date:     run.Date.Format(payroll.DateLayout),
		Payments: toPaymentDTOs(run.Payments),
		TotalNet: run.Total(),
	})
}

// RunPayday runs the engine for date and records the run. A failed run is
// recorded as failed; payments written before the failure stay written.
func (h *Handler) RunPayday(ctx context.Context, date time.Time) (sqlite.PaydayRun, *payroll.Run, error) {
	h.paydayMu.Lock()
	defer h.paydayMu.Unlock()
	return h.runPaydayLocked(ctx, date)
}

// RunPaydayOnce runs payday for date unless a completed run is already
// recorded for it. The check and the run happen under the same lock, so two
// callers racing on one date produce a single run. ran is false when skipped.
func (h *Handler) RunPaydayOnce(ctx context.Context, date time.Time) (record sqlite.PaydayRun, run *payroll.Run, ran bool, err error) {
	h.paydayMu.Lock()
	defer h.paydayMu.Unlock()

	done, err := h.Store.HasCompletedRun(ctx, date)
	if err != nil {
		return record, nil, false, fmt.Errorf("failed to check payday runs: %w", err)
	}
	if done {
		return record, nil, false, nil
	}
	record, run, err = h.runPaydayLocked(ctx, date)
	return record, run, true, err
}

// runPaydayLocked expects paydayMu to be held.
func (h *Handler) runPaydayLocked(ctx context.Context, date time.Time) (sqlite.PaydayRun, *payroll.Run, error) {
	record := sqlite.PaydayRun{
		ID:        uuid.NewString(),
		PayDate:   payroll.Day(date),
		StartedAt: h.now(),
	}
	if err := h.Store.StartRun(ctx, record); err != nil {
		return record, nil, err
	}

	run, runErr := h.Engine.Payday(ctx, date)

	completed := h.now()
	record.CompletedAt = &completed
	record.Status = sqlite.RunCompleted
	if run != nil {
		record.Payments = len(run.Payments)
		record.TotalNet = run.Total()
	}
	if runErr != nil {
		record.Status = sqlite.RunFailed
		record.Error = runErr.Error()
	}

	// The outcome must be recorded even when the request was cancelled.
	if err := h.Store.FinishRun(context.WithoutCancel(ctx), record); err != nil {
		h.logger.Error("failed to record payday run",
			zap.String("run_id", record.ID), zap.Error(err))
		if runErr == nil {
			runErr = err
		}
	}
	return record, run, runErr
}

// ListRuns returns recorded payday runs.
// GET /api/payday/runs?limit=N
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	runs, err := h.Store.ListRuns(r.Context(), limit)
	if err != nil {
		h.writeDomainError(w, "Failed to list payday runs", err)
		return
	}
	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func employeeID(r *http.Request) payroll.EmployeeID {
	return payroll.EmployeeID(chi.URLParam(r, "id"))
}

func formerEmployee(id payroll.EmployeeID) payroll.Employee {
	return payroll.Employee{ID: id, Name: "Former employee", Address: "-"}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, payroll.ErrWrongScheme):
		return http.StatusConflict
	case payroll.IsNotFound(err):
		return http.StatusNotFound
	case payroll.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(message, zap.Error(err))
	}
	writeError(w, status, message, err)
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
