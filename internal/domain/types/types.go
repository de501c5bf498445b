// Package types contains common types used across the application
package types

// Entry represents a standings row: a contestant and its weighted total.
type Entry struct {
	Rank       int     `json:"rank"`
	Contestant string  `json:"contestant"`
	Total      float64 `json:"total"`
}
