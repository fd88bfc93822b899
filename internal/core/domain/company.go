package domain

import (
	"strings"
	"time"
)

// Company is the tenant boundary. No entity may be read or written across
// company boundaries.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"is_active"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const DefaultPlan = "free"

// Slugify derives the URL-friendly tenant identifier from a company name.
// Case and spacing variants of the same name collapse to the same slug, so
// slug uniqueness is what enforces tenant-name uniqueness.
func Slugify(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
