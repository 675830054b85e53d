package models

import "time"

// Entity identifies one of the raw feeds handled by the pipeline.
type Entity string

const (
	EntityCustomer    Entity = "customer"
	EntityProduct     Entity = "product"
	EntitySales       Entity = "sales"
	EntityDemographic Entity = "demographic"
	EntityLocation    Entity = "location"
	EntityCategory    Entity = "category"
)

// DimensionEntities lists the entities that feed dimension tables. Sales
// conformance must not start before all of these have completed.
var DimensionEntities = []Entity{
	EntityCustomer,
	EntityProduct,
	EntityDemographic,
	EntityLocation,
	EntityCategory,
}

// RawCustomer is a CRM customer row as ingested, before any cleansing.
// Nullable source columns are pointers; strings may carry surrounding
// whitespace.
type RawCustomer struct {
	ID            *int
	Key           string
	FirstName     string
	LastName      string
	MaritalStatus string
	Gender        string
	CreatedAt     *time.Time
}

// RawProduct is a CRM product row as ingested. The raw end date is ignored
// by conformance; it is rederived from the start dates within each product
// key group.
type RawProduct struct {
	ID        *int
	Key       string
	Name      string
	Cost      *float64
	Line      string
	StartDate *time.Time
	EndDate   *time.Time
}

// RawSale is a CRM sales detail row as ingested. Dates arrive as 8-digit
// integer codes (YYYYMMDD) and may be invalid or missing.
type RawSale struct {
	OrderNumber   string
	ProductKey    string
	CustomerID    *int
	OrderDateCode *int
	ShipDateCode  *int
	DueDateCode   *int
	Sales         *float64
	Quantity      *int
	Price         *float64
}

// RawDemographic is an ERP customer demographic row as ingested.
type RawDemographic struct {
	CID       string
	BirthDate *time.Time
	Gender    string
}

// RawLocation is an ERP customer location row as ingested.
type RawLocation struct {
	CID     string
	Country string
}

// RawCategory is an ERP product category row as ingested.
type RawCategory struct {
	ID          string
	Category    string
	Subcategory string
	Maintenance string
}

// RawBatch holds one full snapshot of every raw feed for a single run.
type RawBatch struct {
	Customers    []RawCustomer
	Products     []RawProduct
	Sales        []RawSale
	Demographics []RawDemographic
	Locations    []RawLocation
	Categories   []RawCategory
}
