// Package model contains domain models passed between layers.
package model

import "strings"

// MinFields is the number of leading columns a data row must carry.
const MinFields = 3

// Record is one data row of the input CSV.
type Record struct {
	Date  string // unvalidated
	Tags  string // comma-separated
	Title string
}

// TagList splits the record's tag field.
func (r Record) TagList() []string {
	return ParseTags(r.Tags)
}

// ParseTags splits a comma-separated tag field and trims each token.
// Empty tokens (from an empty field or stray commas) are dropped.
func ParseTags(field string) []string {
	if field == "" {
		return nil
	}
	parts := strings.Split(field, ",")
	tags := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
