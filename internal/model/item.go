package model

import "time"

// Item represents a stocked inventory item tracked by quantity.
// Quantity never goes below zero; the only deduction path is request approval.
type Item struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity"`
	Category  string     `json:"category,omitempty"`
	Location  string     `json:"location,omitempty"`
	ImageMime string     `json:"image_mime,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
