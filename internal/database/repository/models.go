package repository

import "time"

// CompanySelection is the active company (unit).
type CompanySelection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductFilter narrows the product list to one product group.
type ProductFilter struct {
	FilterID   string `json:"filterId"`
	FilterName string `json:"filterName"`
}

// DateFilter narrows the product list to a counting period. Both dates are
// calendar days; FinalDate is inclusive.
type DateFilter struct {
	InitialDate time.Time `json:"initialDate"`
	FinalDate   time.Time `json:"finalDate"`
	PeriodName  string    `json:"periodName"`
}

// Company represents a company row.
type Company struct {
	ID       string
	Name     string
	Document string
}

// ProductGroup represents a product group row.
type ProductGroup struct {
	ID   string
	Name string
}

// Product represents a product row joined with its group name.
type Product struct {
	ID        string
	CompanyID string
	GroupID   string
	GroupName string
	Name      string
	Unit      string
	Quantity  float64
	CountedAt time.Time
}
