// Package repository contains data access abstractions.
// Implementations live in subpackages (postgres) and contain no business logic.
// Lookups of missing rows return sql.ErrNoRows.
package repository

import "errors"

// ErrDuplicate is returned when a unique constraint is violated.
var ErrDuplicate = errors.New("duplicate record")

// ErrInsufficientStock is returned when a sale would take an item's quantity below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// ListFilter scopes a paginated listing to one owner. An empty UserID lists all owners.
type ListFilter struct {
	UserID string
	PageQuery
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
