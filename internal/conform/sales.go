package conform

import (
	"math"
	"strings"

	"starforge/pkg/models"
)

// measureEpsilon bounds the float drift tolerated before a sales amount is
// considered inconsistent with quantity times price.
const measureEpsilon = 1e-9

// Sales conforms raw CRM sales detail rows: trims the business keys,
// resolves 8-digit date codes to dates (invalid codes become null), and
// reconciles the sales/quantity/price measures. Quantity is never
// corrected. The stage is total; no row is ever rejected.
func Sales(raw []models.RawSale) []models.SalesTransaction {
	out := make([]models.SalesTransaction, 0, len(raw))
	for _, r := range raw {
		customerID := 0
		if r.CustomerID != nil {
			customerID = *r.CustomerID
		}

		sales, price := reconcileMeasures(r.Sales, r.Quantity, r.Price)

		out = append(out, models.SalesTransaction{
			OrderNumber: strings.TrimSpace(r.OrderNumber),
			ProductKey:  strings.TrimSpace(r.ProductKey),
			CustomerID:  customerID,
			OrderDate:   dateFromCode(r.OrderDateCode),
			ShipDate:    dateFromCode(r.ShipDateCode),
			DueDate:     dateFromCode(r.DueDateCode),
			Sales:       sales,
			Quantity:    r.Quantity,
			Price:       price,
		})
	}
	return out
}

// reconcileMeasures repairs the sales and price measures.
//
// Sales is recomputed as quantity times the absolute price whenever it is
// missing, non-positive, or inconsistent with that product. Price is
// recomputed as the original sales amount divided by quantity whenever it
// is missing or non-positive; the original sales feeds that division, not
// the recomputed one, so a price cannot be derived from a sales amount that
// was itself derived from the broken price. A zero quantity makes the
// derived price null; a missing original sales amount leaves the price
// untouched.
func reconcileMeasures(sales *float64, quantity *int, price *float64) (*float64, *float64) {
	newSales := sales
	if quantity != nil && price != nil {
		expected := float64(*quantity) * math.Abs(*price)
		if sales == nil || *sales <= 0 || math.Abs(*sales-expected) > measureEpsilon {
			newSales = &expected
		}
	}

	newPrice := price
	if (price == nil || *price <= 0) && sales != nil && quantity != nil {
		if *quantity == 0 {
			newPrice = nil
		} else {
			derived := *sales / float64(*quantity)
			newPrice = &derived
		}
	}

	return newSales, newPrice
}
