// Package types contains common types used across the application
package types

// TagCount is a ranked row of the raw tag frequency table.
type TagCount struct {
	Rank  int    `json:"rank"`
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
