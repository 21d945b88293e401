package calculator

import "github.com/shopspring/decimal"

// DisplaySummary is a Summary rounded for presentation.
type DisplaySummary struct {
	TotalCostWithoutVAT string `json:"total_cost_without_vat"`
	VATAmount           string `json:"vat_amount"`
	TotalCostWithVAT    string `json:"total_cost_with_vat"`
	DiscountAmount      string `json:"discount_amount"`
	FinalTotal          string `json:"final_total"`
	TotalPaid           string `json:"total_paid"`
	Balance             string `json:"balance"`
}

// Display rounds every figure to the given number of decimal places.
// Rounding only happens here, never inside Compute.
func (s Summary) Display(places int32) DisplaySummary {
	round := func(v float64) string {
		return decimal.NewFromFloat(v).StringFixed(places)
	}
	return DisplaySummary{
		TotalCostWithoutVAT: round(s.TotalCostWithoutVAT),
		VATAmount:           round(s.VATAmount),
		TotalCostWithVAT:    round(s.TotalCostWithVAT),
		DiscountAmount:      round(s.DiscountAmount),
		FinalTotal:          round(s.FinalTotal),
		TotalPaid:           round(s.TotalPaid),
		Balance:             round(s.Balance),
	}
}
