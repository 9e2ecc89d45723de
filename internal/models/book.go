package models

import "time"

// Book is a catalog item referenced by purchase orders. Like User, a
// single well-known row (DefaultBookTitle) is reused for categorized
// writes.
type Book struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Author      string    `json:"author" db:"author"`
	ISBN        string    `json:"isbn" db:"isbn"`
	Publisher   string    `json:"publisher,omitempty" db:"publisher"`
	Year        int       `json:"year,omitempty" db:"year"`
	Price       float64   `json:"price" db:"price"`
	Description string    `json:"description,omitempty" db:"description"`
	Category    string    `json:"category,omitempty" db:"category"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// DefaultBookTitle keys the reusable singleton catalog row.
const DefaultBookTitle = "Automation Test Handbook"

// DefaultBookPrice is the list price of the singleton catalog row and
// the amount billed on successful book-purchase orders.
const DefaultBookPrice = 24.99
