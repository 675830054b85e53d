package models

import "time"

// DimCustomerRow is a customer dimension row. CustomerKey is a sequential
// surrogate assigned in ascending business ID order; demographic and
// location attributes are joined in by business key where available.
type DimCustomerRow struct {
	CustomerKey    int
	CustomerID     int
	CustomerNumber string
	FirstName      string
	LastName       string
	Country        string
	MaritalStatus  string
	Gender         string
	BirthDate      *time.Time
	CreatedAt      time.Time
}

// DimProductRow is a product dimension row for the current version of each
// product key (conformed records with a nil end date).
type DimProductRow struct {
	ProductKey    int
	ProductID     int
	ProductNumber string
	Name          string
	CategoryID    string
	Category      string
	Subcategory   string
	Maintenance   string
	Cost          float64
	Line          string
	StartDate     time.Time
}

// FactSalesRow is a sales fact row. Foreign surrogate keys are nil when the
// business key lookup against a dimension failed; such rows are kept so the
// integrity validator can report them.
type FactSalesRow struct {
	OrderNumber string
	ProductKey  *int
	CustomerKey *int
	OrderDate   *time.Time
	ShipDate    *time.Time
	DueDate     *time.Time
	Sales       *float64
	Quantity    *int
	Price       *float64
}

// DimensionalBatch is the star schema produced from one conformed batch.
type DimensionalBatch struct {
	Customers []DimCustomerRow
	Products  []DimProductRow
	Sales     []FactSalesRow
}
