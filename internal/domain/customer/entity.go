// internal/domain/customer/entity.go
package customer

import (
	"strings"
	"time"
)

// Classification is the coarse tier that governs pricing and grouping.
type Classification string

const (
	Retail    Classification = "Retail"
	Wholesale Classification = "Wholesale"
)

// ClassificationFor maps the signup trader flag onto a classification.
func ClassificationFor(isTrader bool) Classification {
	if isTrader {
		return Wholesale
	}
	return Retail
}

// Stored customer types.
const (
	TypeIndividual = "Individual"
	TypeCompany    = "Company"
)

const (
	DefaultTerritory = "All Territories"
	LinkTypeCustomer = "Customer"
	GuestCustomer    = "Guest"
)

type Customer struct {
	ID               string    `json:"name" db:"id"`
	CustomerName     string    `json:"customer_name" db:"customer_name"`
	CustomerType     string    `json:"customer_type" db:"customer_type"`
	CustomerGroup    string    `json:"customer_group" db:"customer_group"`
	Territory        string    `json:"territory" db:"territory"`
	Email            string    `json:"email_id" db:"email"`
	DefaultPriceList string    `json:"default_price_list" db:"default_price_list"`
	CreatedAt        time.Time `json:"creation" db:"created_at"`
	UpdatedAt        time.Time `json:"modified" db:"updated_at"`
}

// Link is one row of the typed many-to-many link table.
type Link struct {
	LinkType string `json:"link_doctype" db:"link_type"`
	LinkName string `json:"link_name" db:"link_name"`
}

// HasLink reports whether links contains (linkType, linkName).
func HasLink(links []Link, linkType, linkName string) bool {
	for _, l := range links {
		if l.LinkType == linkType && l.LinkName == linkName {
			return true
		}
	}
	return false
}

// FirstLink returns the first link name of linkType.
func FirstLink(links []Link, linkType string) (string, bool) {
	for _, l := range links {
		if l.LinkType == linkType {
			return l.LinkName, true
		}
	}
	return "", false
}

type Contact struct {
	ID        string    `json:"name" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	Email     string    `json:"email_id" db:"email"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Links     []Link    `json:"links,omitempty"`
	CreatedAt time.Time `json:"creation" db:"created_at"`
	UpdatedAt time.Time `json:"modified" db:"updated_at"`
}

type Address struct {
	ID          string    `json:"name" db:"id"`
	Title       string    `json:"address_title" db:"title"`
	AddressType string    `json:"address_type" db:"address_type"`
	Line1       string    `json:"address_line1" db:"line1"`
	Line2       string    `json:"address_line2,omitempty" db:"line2"`
	City        string    `json:"city" db:"city"`
	State       string    `json:"state,omitempty" db:"state"`
	Pincode     string    `json:"pincode,omitempty" db:"pincode"`
	Country     string    `json:"country" db:"country"`
	Phone       string    `json:"phone,omitempty" db:"phone"`
	Email       string    `json:"email_id,omitempty" db:"email"`
	Links       []Link    `json:"links,omitempty"`
	CreatedAt   time.Time `json:"creation" db:"created_at"`
	UpdatedAt   time.Time `json:"modified" db:"updated_at"`
}

const (
	AddressTypeShipping = "Shipping"
	AddressTypeBilling  = "Billing"
)

// NormalizeEmail is the comparison form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
