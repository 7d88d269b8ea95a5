// Package reconcile holds the payment status rules: given the amount expected
// for a period and the amount actually received, classify the entity. The
// rules are deliberately different for students and teachers and the two must
// not be unified (see DESIGN.md).
package reconcile

// Status values rendered by the dashboard as-is.
const (
	StatusPaid    = "پرداخت‌شده"
	StatusPartial = "باقی‌مانده"
	StatusUnpaid  = "پرداخت‌نشده"
)

// TuitionStatus classifies a student's standing for a period. The rule is
// binary on "any payment recorded": the expected fee does not participate,
// so a 2000 payment against a 5000 base fee still reads as paid.
func TuitionStatus(totalPaid float64) string {
	if totalPaid > 0 {
		return StatusPaid
	}
	return StatusUnpaid
}

// SalaryStatus classifies a teacher's standing against the expected salary
// for the window: fully covered, partially covered, or untouched.
func SalaryStatus(expected, totalPaid float64) string {
	remaining := expected - totalPaid
	switch {
	case remaining <= 0:
		return StatusPaid
	case totalPaid > 0:
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// AnnualExpected is the amount owed over a full year of monthly amounts.
func AnnualExpected(monthly float64) float64 {
	return monthly * 12
}

// Summary accumulates per-entity results into report totals.
type Summary struct {
	TotalPaidAmount float64
	PaidCount       int
	PartialCount    int
	UnpaidCount     int
}

// Add folds one classified entity into the summary.
func (s *Summary) Add(status string, totalPaid float64) {
	s.TotalPaidAmount += totalPaid
	switch status {
	case StatusPaid:
		s.PaidCount++
	case StatusPartial:
		s.PartialCount++
	default:
		s.UnpaidCount++
	}
}
