package book

import (
	"time"

	"library-circulation/internal/apperr"
)

var (
	ErrNotFound      = apperr.New(apperr.NotFound, "book not found")
	ErrWithdrawn     = apperr.New(apperr.InvalidState, "book has been withdrawn from the catalog")
	ErrUnavailable   = apperr.New(apperr.CapacityExhausted, "book unavailable: no copies on the shelf")
	ErrDuplicateISBN = apperr.New(apperr.InvalidState, "a book with this ISBN already exists")
	ErrHasOpenLoans  = apperr.New(apperr.InvalidState, "book still has borrowed copies")
	// ErrShelfFull means a copy came back while every copy was already on the
	// shelf, i.e. available_quantity would exceed quantity.
	ErrShelfFull = apperr.New(apperr.InvalidState, "availability would exceed total quantity")
)

// Table: books
type Book struct {
	ID                uint64    `gorm:"primaryKey;column:id" json:"id"`
	Title             string    `gorm:"size:255;not null" json:"title"`
	Author            string    `gorm:"size:255;not null" json:"author"`
	ISBN              string    `gorm:"column:isbn;size:20;not null;uniqueIndex:ux_books_isbn" json:"isbn"`
	Quantity          int       `gorm:"not null" json:"quantity"`
	AvailableQuantity int       `gorm:"not null" json:"available_quantity"`
	Active            bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Book) TableName() string { return "books" }

// Borrowed is the number of copies currently off the shelf.
func (b *Book) Borrowed() int { return b.Quantity - b.AvailableQuantity }
