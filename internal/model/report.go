package model

// ReportTotals is a count + exact total pair for one entity kind.
type ReportTotals struct {
	Count int64  `json:"count"`
	Total string `json:"total"`
}

// ReportSummary aggregates an owner's invoices and expenses.
type ReportSummary struct {
	Invoices ReportTotals `json:"invoices"`
	Expenses ReportTotals `json:"expenses"`
}

// MonthlyTotal is one month's total, keyed by "YYYY-MM".
type MonthlyTotal struct {
	Month string `json:"month"`
	Total string `json:"total"`
}

// MonthlyReport breaks invoice and expense totals down per month.
type MonthlyReport struct {
	Invoices []MonthlyTotal `json:"invoices"`
	Expenses []MonthlyTotal `json:"expenses"`
}
