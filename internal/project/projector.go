// Package project builds the dimensional model from a conformed batch.
// Surrogate keys are assigned deterministically: customers in ascending
// business ID order, products in ascending start date then product key
// order, so two runs over the same conformed batch produce identical keys.
package project

import (
	"sort"

	"starforge/pkg/models"
)

// Build projects a conformed batch into the star schema.
func Build(conformed *models.ConformedBatch) *models.DimensionalBatch {
	customers := Customers(conformed)
	products := Products(conformed)
	facts := Facts(conformed.Sales, customers, products)

	return &models.DimensionalBatch{
		Customers: customers,
		Products:  products,
		Sales:     facts,
	}
}

// Customers builds the customer dimension. Demographic and location
// attributes are joined in by the customer key; a missing join partner
// leaves the defaults (nil birth date, N/A country). The CRM gender is the
// system of record; the ERP value fills in only when the CRM code did not
// resolve.
func Customers(conformed *models.ConformedBatch) []models.DimCustomerRow {
	demographics := make(map[string]models.CustomerDemographic, len(conformed.Demographics))
	for _, d := range conformed.Demographics {
		demographics[d.CID] = d
	}
	locations := make(map[string]models.LocationRecord, len(conformed.Locations))
	for _, l := range conformed.Locations {
		locations[l.CID] = l
	}

	rows := make([]models.DimCustomerRow, 0, len(conformed.Customers))
	for i, c := range conformed.Customers {
		row := models.DimCustomerRow{
			CustomerKey:    i + 1,
			CustomerID:     c.ID,
			CustomerNumber: c.Key,
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			Country:        models.LabelUnknown,
			MaritalStatus:  c.MaritalStatus,
			Gender:         c.Gender,
			CreatedAt:      c.CreatedAt,
		}

		if d, ok := demographics[c.Key]; ok {
			row.BirthDate = d.BirthDate
			if row.Gender == models.LabelUnknown {
				row.Gender = d.Gender
			}
		}
		if l, ok := locations[c.Key]; ok {
			row.Country = l.Country
		}

		rows = append(rows, row)
	}
	return rows
}

// Products builds the product dimension from the current version of each
// product key, the conformed records whose end date is nil. Historical
// versions are excluded so a fact row resolves to exactly one product.
func Products(conformed *models.ConformedBatch) []models.DimProductRow {
	categories := make(map[string]models.ProductCategory, len(conformed.Categories))
	for _, c := range conformed.Categories {
		categories[c.ID] = c
	}

	current := make([]models.ProductRecord, 0, len(conformed.Products))
	for _, p := range conformed.Products {
		if p.EndDate == nil {
			current = append(current, p)
		}
	}
	sort.SliceStable(current, func(i, j int) bool {
		if !current[i].StartDate.Equal(current[j].StartDate) {
			return current[i].StartDate.Before(current[j].StartDate)
		}
		return current[i].Key < current[j].Key
	})

	rows := make([]models.DimProductRow, 0, len(current))
	for i, p := range current {
		row := models.DimProductRow{
			ProductKey:    i + 1,
			ProductID:     p.ID,
			ProductNumber: p.Key,
			Name:          p.Name,
			CategoryID:    p.CategoryID,
			Category:      models.LabelUnknown,
			Subcategory:   models.LabelUnknown,
			Maintenance:   models.LabelUnknown,
			Cost:          p.Cost,
			Line:          p.Line,
			StartDate:     p.StartDate,
		}

		if c, ok := categories[p.CategoryID]; ok {
			row.Category = c.Category
			row.Subcategory = c.Subcategory
			row.Maintenance = c.Maintenance
		}

		rows = append(rows, row)
	}
	return rows
}

// Facts builds the sales fact rows, resolving each transaction's foreign
// surrogate keys by business key lookup. A failed lookup yields a nil
// foreign key rather than a dropped row; the integrity validator reports
// those as connectivity findings.
func Facts(sales []models.SalesTransaction, customers []models.DimCustomerRow, products []models.DimProductRow) []models.FactSalesRow {
	customerKeys := make(map[int]int, len(customers))
	for _, c := range customers {
		customerKeys[c.CustomerID] = c.CustomerKey
	}
	productKeys := make(map[string]int, len(products))
	for _, p := range products {
		productKeys[p.ProductNumber] = p.ProductKey
	}

	rows := make([]models.FactSalesRow, 0, len(sales))
	for _, s := range sales {
		row := models.FactSalesRow{
			OrderNumber: s.OrderNumber,
			OrderDate:   s.OrderDate,
			ShipDate:    s.ShipDate,
			DueDate:     s.DueDate,
			Sales:       s.Sales,
			Quantity:    s.Quantity,
			Price:       s.Price,
		}

		if key, ok := customerKeys[s.CustomerID]; ok {
			k := key
			row.CustomerKey = &k
		}
		if key, ok := productKeys[s.ProductKey]; ok {
			k := key
			row.ProductKey = &k
		}

		rows = append(rows, row)
	}
	return rows
}
