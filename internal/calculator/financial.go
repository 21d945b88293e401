package calculator

import (
	"math"

	"github.com/mmynk/eventbook/internal/models"
)

// Summary is the authoritative financial breakdown of one event.
type Summary struct {
	// TotalCostWithoutVAT is the net base before any discount.
	TotalCostWithoutVAT float64 `json:"total_cost_without_vat"`
	VATAmount           float64 `json:"vat_amount"`
	TotalCostWithVAT    float64 `json:"total_cost_with_vat"`
	DiscountAmount      float64 `json:"discount_amount"`
	FinalTotal          float64 `json:"final_total"`
	TotalPaid           float64 `json:"total_paid"`
	// Balance is negative when the client overpaid.
	Balance float64 `json:"balance"`
}

// Compute derives the event's totals from its pricing mode, lines, payments and
// the VAT rate. It never fails: malformed amounts count as zero.
//
// Base cost, first match wins:
//   - all-inclusive with a positive price
//   - a non-zero manual total override
//   - the itemized sum of the lines
//
// A discount applied before VAT reduces the taxable base; after VAT it reduces
// the gross total. Neither can push a total below zero. No rounding happens here.
func Compute(event models.Event, lines []models.ServiceLine, payments []models.Payment, vatRate float64) Summary {
	rate := sanitize(vatRate)
	discount := event.DiscountAmount.Float()

	base := baseCost(event, lines, rate)

	s := Summary{TotalCostWithoutVAT: base, DiscountAmount: discount}
	if event.DiscountBeforeVAT {
		adjusted := math.Max(0, base-discount)
		s.VATAmount = adjusted * rate
		s.TotalCostWithVAT = adjusted + s.VATAmount
		s.FinalTotal = s.TotalCostWithVAT
	} else {
		s.VATAmount = base * rate
		s.TotalCostWithVAT = base + s.VATAmount
		s.FinalTotal = math.Max(0, s.TotalCostWithVAT-discount)
	}

	s.TotalPaid = TotalPaid(payments)
	s.Balance = s.FinalTotal - s.TotalPaid
	return s
}

// TotalPaid sums the amounts of valid (positive) payments.
func TotalPaid(payments []models.Payment) float64 {
	var total float64
	for _, p := range payments {
		if p.Valid() {
			total += p.Amount.Float()
		}
	}
	return total
}

func baseCost(event models.Event, lines []models.ServiceLine, rate float64) float64 {
	if price := event.AllInclusivePrice.Float(); event.AllInclusive && price > 0 {
		if event.AllInclusiveIncludesVAT {
			return ExtractVAT(price, rate)
		}
		return price
	}

	if override := models.ValueOf(event.TotalOverride); override != 0 {
		if event.TotalOverrideIncludesVAT != nil && !*event.TotalOverrideIncludesVAT {
			return override
		}
		return ExtractVAT(override, rate)
	}

	return ItemizedCost(lines, rate)
}

// ItemizedCost sums the net (VAT-free) contribution of every line. Package
// children contribute nothing; a legacy package is counted once per package key.
func ItemizedCost(lines []models.ServiceLine, rate float64) float64 {
	rate = sanitize(rate)
	seenPackages := make(map[string]bool)

	var total float64
	for _, line := range lines {
		switch line.Kind() {
		case models.KindPackageChild:
			continue
		case models.KindLegacyMember:
			if seenPackages[line.PackageID] {
				continue
			}
			seenPackages[line.PackageID] = true
			total += net(line.PackagePriceValue(), line.PackageVATIncluded(), rate)
		default:
			total += net(line.Price()*float64(line.Qty()), line.VATIncluded(), rate)
		}
	}
	return total
}

// ExtractVAT returns the net part of a gross price.
func ExtractVAT(gross, rate float64) float64 {
	return gross / (1 + sanitize(rate))
}

func net(amount float64, includesVAT bool, rate float64) float64 {
	amount = sanitize(amount)
	if includesVAT {
		return ExtractVAT(amount, rate)
	}
	return amount
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
