package models

import "time"

// Standardized labels shared by the conformance stages. Any code that does
// not map to one of these resolves to LabelUnknown.
const (
	LabelUnknown = "N/A"

	LabelSingle  = "Single"
	LabelMarried = "Married"

	LabelFemale = "Female"
	LabelMale   = "Male"

	LabelYes = "Yes"
	LabelNo  = "No"
)

// CustomerRecord is a conformed CRM customer. Exactly one record exists per
// business ID; duplicates are resolved in favor of the latest creation
// timestamp.
type CustomerRecord struct {
	ID            int
	Key           string
	FirstName     string
	LastName      string
	MaritalStatus string
	Gender        string
	CreatedAt     time.Time
}

// ProductRecord is a conformed CRM product. The raw product key is split
// into a category segment and the remaining product key. EndDate is nil for
// the current record of each product key group.
type ProductRecord struct {
	ID         int
	CategoryID string
	Key        string
	Name       string
	Cost       float64
	Line       string
	StartDate  time.Time
	EndDate    *time.Time
}

// SalesTransaction is a conformed sales detail row. Dates are nil when the
// raw code was not a valid 8-digit date; measures stay nullable because
// reconciliation cannot always recover a value.
type SalesTransaction struct {
	OrderNumber string
	ProductKey  string
	CustomerID  int
	OrderDate   *time.Time
	ShipDate    *time.Time
	DueDate     *time.Time
	Sales       *float64
	Quantity    *int
	Price       *float64
}

// CustomerDemographic is a conformed ERP demographic row. The source system
// prefix is stripped from the ID so it joins against CustomerRecord.Key.
type CustomerDemographic struct {
	CID       string
	BirthDate *time.Time
	Gender    string
}

// LocationRecord is a conformed ERP location row with a canonical country
// name.
type LocationRecord struct {
	CID     string
	Country string
}

// ProductCategory is a conformed ERP category row.
type ProductCategory struct {
	ID          string
	Category    string
	Subcategory string
	Maintenance string
}

// ConformedBatch holds the full conformed layer produced by one run. Every
// run replaces the previous batch wholesale.
type ConformedBatch struct {
	Customers    []CustomerRecord
	Products     []ProductRecord
	Sales        []SalesTransaction
	Demographics []CustomerDemographic
	Locations    []LocationRecord
	Categories   []ProductCategory
}
