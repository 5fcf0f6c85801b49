// Package catalog implements the small code/description registries that
// ledger entries reference: reason codes and cost centers.
package catalog

import "github.com/ajr-erp/ajr/internal/accounting/shared"

// Item is a reusable code + description label.
type Item struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// CreateInput carries the fields accepted on create. Active defaults to true.
type CreateInput struct {
	Code        string `json:"code" validate:"required,max=10"`
	Description string `json:"description" validate:"required,max=255"`
	Active      *bool  `json:"active,omitempty"`
}

// Update lists the mutable fields. Nil leaves a field unchanged.
type Update struct {
	Description *string `json:"description,omitempty" validate:"omitempty,min=1,max=255"`
	Active      *bool   `json:"active,omitempty"`
}

// ListFilter narrows listings.
type ListFilter struct {
	Active *bool
	Page   shared.Page
}

// Kind names one registry table and its errors.
type Kind struct {
	Entity   string
	Table    string
	NotFound error
}
