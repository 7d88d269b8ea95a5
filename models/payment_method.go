package models

// Payment methods accepted by the cashier.
const (
	MethodCash   = "نقدی"
	MethodBank   = "بانکی"
	MethodOnline = "آنلاین"
)

// ValidMethod reports whether m is one of the accepted payment methods.
func ValidMethod(m string) bool {
	return m == MethodCash || m == MethodBank || m == MethodOnline
}
