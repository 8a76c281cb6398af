/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the payroll domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY:
  Amounts, rates and hours are shopspring/decimal values. They marshal as
  JSON strings ("1005.5") and unmarshal from strings or numbers.

VALIDATION:
  Validation is done by enrollment.Service, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - payroll/types.go: Domain types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses. Only the pay fields
// of the employee's scheme are present.
type EmployeeDTO struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Address        string           `json:"address"`
	Scheme         string           `json:"scheme"`
	Method         string           `json:"method"`
	HourlyRate     *decimal.Decimal `json:"hourly_rate,omitempty"`
	MonthlyPay     *decimal.Decimal `json:"monthly_pay,omitempty"`
	CommissionRate *decimal.Decimal `json:"commission_rate,omitempty"`
}

// CreateEmployeeRequest is the request to enroll an employee.
type CreateEmployeeRequest struct {
	Name           string           `json:"name"`
	Address        string           `json:"address"`
	Scheme         string           `json:"scheme"`
	Method         string           `json:"method"`
	HourlyRate     *decimal.Decimal `json:"hourly_rate,omitempty"`
	MonthlyPay     *decimal.Decimal `json:"monthly_pay,omitempty"`
	CommissionRate *decimal.Decimal `json:"commission_rate,omitempty"`
}

func toEmployeeDTO(e payroll.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:      string(e.ID),
		Name:    e.Name,
		Address: e.Address,
		Scheme:  string(e.SchemeKind()),
		Method:  string(e.Method),
	}
	switch sc := e.Scheme.(type) {
	case payroll.Hourly:
		dto.HourlyRate = &sc.Rate
	case payroll.Salaried:
		dto.MonthlyPay = &sc.MonthlyPay
	case payroll.Commissioned:
		dto.MonthlyPay = &sc.MonthlyPay
		dto.CommissionRate = &sc.CommissionRate
	}
	return dto
}

// =============================================================================
// ACTIVITY
// =============================================================================

// TimeRecordRequest logs hours for an hourly employee.
type TimeRecordRequest struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Hours decimal.Decimal `json:"hours"`
}

type TimeRecordDTO struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	Date       string          `json:"date"`
	Hours      decimal.Decimal `json:"hours"`
}

// SalesRecordRequest logs a sale for a commissioned employee.
type SalesRecordRequest struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Amount int64  `json:"amount"`
}

type SalesRecordDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Amount     int64  `json:"amount"`
}

// DeductionRequest sets an employee's current service charge.
type DeductionRequest struct {
	Amount int64 `json:"amount"`
}

type DeductionDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Amount     int64  `json:"amount"`
	CreatedAt  string `json:"created_at"`
}

// =============================================================================
// PAYMENTS AND PAYDAY
// =============================================================================

// PaymentDTO represents a payment record in API responses.
type PaymentDTO struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	Gross       decimal.Decimal `json:"gross"`
	Deduction   decimal.Decimal `json:"deduction"`
	Net         decimal.Decimal `json:"net"`
	Method      string          `json:"method"`
	PaymentDate string          `json:"payment_date"`
}

func toPaymentDTOs(ps []payroll.PaymentRecord) []PaymentDTO {
	dtos := make([]PaymentDTO, len(ps))
	for i, p := range ps {
		dtos[i] = PaymentDTO{
			ID:          string(p.ID),
			EmployeeID:  string(p.EmployeeID),
			Gross:       p.Gross,
			Deduction:   p.Deduction,
			Net:         p.Net,
			Method:      string(p.Method),
			PaymentDate: p.PaymentDate.Format(payroll.DateLayout),
		}
	}
	return dtos
}

// PaydayRequest triggers a payday. An empty date means today.
type PaydayRequest struct {
	Date string `json:"date,omitempty"`
}

// PaydayResponse reports a finished run.
type PaydayResponse struct {
	RunID    string          `json:"run_id"`
	Date     string          `json:"date"`
	Payments []PaymentDTO    `json:"payments"`
	TotalNet decimal.Decimal `json:"total_net"`
}

// RunDTO represents a recorded payday run.
type RunDTO struct {
	ID          string          `json:"id"`
	PayDate     string          `json:"pay_date"`
	Status      string          `json:"status"`
	Payments    int             `json:"payments"`
	TotalNet    decimal.Decimal `json:"total_net"`
	Error       string          `json:"error,omitempty"`
	StartedAt   string          `json:"started_at"`
	CompletedAt string          `json:"completed_at,omitempty"`
}

func toRunDTO(r sqlite.PaydayRun) RunDTO {
	dto := RunDTO{
		ID:        r.ID,
		PayDate:   r.PayDate.Format(payroll.DateLayout),
		Status:    string(r.Status),
		Payments:  r.Payments,
		TotalNet:  r.TotalNet,
		Error:     r.Error,
		StartedAt: r.StartedAt.Format(time.RFC3339),
	}
	if r.CompletedAt != nil {
		dto.CompletedAt = r.CompletedAt.Format(time.RFC3339)
	}
	return dto
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
