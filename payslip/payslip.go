/*
Package payslip renders a single payment as a one-page PDF.

PURPOSE:
  Gives the payee (or the manager holding the cheque) a printable record of
  what payday computed: gross, deduction and net, the disbursement method
  and the pay date.

LAYOUT:
  Payslip
  Employee / Address / Payment ID
  Pay date / Method
  Gross / Deduction / Net

SEE ALSO:
  - payroll/types.go: PaymentRecord
  - api/handlers.go: GET /api/payments/{id}/payslip
*/
package payslip

import (
	"errors"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/warp/payroll-engine/payroll"
)

var ErrEmployeeMismatch = errors.New("payment belongs to a different employee")

var methodLabels = map[payroll.DisbursementMethod]string{
	payroll.MethodHeldByManager: "Held by manager",
	payroll.MethodDirect:        "Direct deposit",
	payroll.MethodMail:          "Mailed",
}

// Render writes the payslip for payment to w.
func Render(w io.Writer, emp payroll.Employee, payment payroll.PaymentRecord) error {
	pdf, err := newDocument(emp, payment)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render payslip: %w", err)
	}
	return nil
}

// newDocument lays out the payslip. The core fonts are cp1252, so names and
// addresses go through the translator before they reach the page.
func newDocument(emp payroll.Employee, payment payroll.PaymentRecord) (*gofpdf.Fpdf, error) {
	if emp.ID != payment.EmployeeID {
		return nil, fmt.Errorf("%w: payment %s, employee %s", ErrEmployeeMismatch, payment.ID, emp.ID)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Payslip "+string(payment.ID), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Employee: %s (%s)", emp.Name, emp.ID)))
	pdf.Ln(7)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Address: %s", emp.Address)))
	pdf.Ln(7)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Payment: %s", payment.ID)))
	pdf.Ln(10)

	pdf.Cell(0, 8, fmt.Sprintf("Pay date: %s", payment.PaymentDate.Format(payroll.DateLayout)))
	pdf.Ln(7)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Method: %s", methodLabel(payment.Method))))
	pdf.Ln(10)

	pdf.Cell(0, 8, fmt.Sprintf("Gross: %s", payment.Gross.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deduction: %s", payment.Deduction.StringFixed(2)))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %s", payment.Net.StringFixed(2)))

	return pdf, pdf.Error()
}

func methodLabel(m payroll.DisbursementMethod) string {
	if label, ok := methodLabels[m]; ok {
		return label
	}
	return string(m)
}
