package dto

import "github.com/aarondl/null/v8"

// EquipmentDTO est la charge utile de création ou de mise à jour d'un
// matériel. La présence d'un identifiant bascule en mise à jour. La date
// de fabrication est saisie au format MM/AAAA.
type EquipmentDTO struct {
	ID                null.Uint64 `json:"id"`
	Designation       string      `json:"designation" validate:"required"`
	Type              null.String `json:"type"`
	Color             null.String `json:"color"`
	Manufacturer      null.String `json:"manufacturer"`
	Model             null.String `json:"model"`
	Size              null.String `json:"size"`
	ManufacturerID    null.String `json:"manufacturer_id"`
	ClubID            null.String `json:"club_id"`
	ManufacturingDate null.String `json:"manufacturing_date" validate:"omitempty,month_year"`
	OperationalStatus null.String `json:"operational_status" validate:"omitempty,operational_status"`
	IsEPI             bool        `json:"is_epi"`
	UsageNotes        null.String `json:"usage_notes"`
}

type BookDTO struct {
	ID              null.Uint64 `json:"id"`
	Title           string      `json:"title" validate:"required"`
	Author          null.String `json:"author"`
	Category        null.String `json:"category" validate:"omitempty,book_category"`
	Publisher       null.String `json:"publisher"`
	PublicationYear null.Int    `json:"publication_year" validate:"omitempty,gte=0,lte=2100"`
	Description     null.String `json:"description"`
	Keywords        null.String `json:"keywords"`
	ISBN            null.String `json:"isbn"`
	Type            null.String `json:"type"`
	StorageLocation null.String `json:"storage_location"`
}
