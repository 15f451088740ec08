// pricing.go - Suggested price for a service duration.
package worklog

import "github.com/shopspring/decimal"

// hourlyRate is the practice's base rate: 60 minutes = $65.
var hourlyRate = decimal.NewFromInt(65)

// SuggestedPrice maps a service duration to the suggested price:
//
//	round(minutes/60 * 65, 2)
//
// It is only a default for the service-income field; the caller may
// override it freely.
func SuggestedPrice(durationMinutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(durationMinutes)).
		Mul(hourlyRate).
		Div(decimal.NewFromInt(60)).
		Round(2)
}
