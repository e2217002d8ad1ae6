package entities

import "time"

// Borrow est un emprunt ouvert, variante matériel ou livre selon Kind.
// Le prix de location et l'encadrant n'existent que pour le matériel.
type Borrow struct {
	Kind           ItemKind  `json:"kind"`
	ID             uint64    `json:"id"`
	ItemID         uint64    `json:"item_id"`
	Name           string    `json:"name"`
	Email          *string   `json:"email,omitempty"`
	RentalPrice    *float64  `json:"rental_price,omitempty"`
	SupervisorName *string   `json:"supervisor_name,omitempty"`
	BorrowedAt     time.Time `json:"borrowed_at"`
	Item           Item      `json:"item"`
}
