package entities

import (
	"errors"
	"time"
)

// ErrInvalidMode signale un mode qui n'est ni "equipment" ni "books".
var ErrInvalidMode = errors.New("mode inconnu")

// Mode désigne la catégorie active : matériel de montagne ou bibliothèque.
// Elle détermine la table, le jeu de champs et les fonctions d'emprunt.
type Mode string

const (
	ModeEquipment Mode = "equipment"
	ModeBooks     Mode = "books"
)

func (m Mode) Valid() bool {
	return m == ModeEquipment || m == ModeBooks
}

// ModeConfig associe à chaque mode ses tables et fonctions SQL.
type ModeConfig struct {
	TableName       string
	BorrowTableName string
	ItemIDParam     string
	CreateFunction  string
	ReturnFunction  string
}

var ModeConfigs = map[Mode]ModeConfig{
	ModeEquipment: {
		TableName:       "equipment",
		BorrowTableName: "equipment_borrows",
		ItemIDParam:     "p_equipment_id",
		CreateFunction:  "create_equipment_borrow",
		ReturnFunction:  "return_equipment",
	},
	ModeBooks: {
		TableName:       "books",
		BorrowTableName: "book_borrows",
		ItemIDParam:     "p_book_id",
		CreateFunction:  "create_book_borrow",
		ReturnFunction:  "return_book",
	},
}

type ItemKind string

const (
	ItemKindEquipment ItemKind = "equipment"
	ItemKindBook      ItemKind = "book"
)

// EquipmentFields porte les champs propres au matériel de montagne.
type EquipmentFields struct {
	Designation       string     `json:"designation"`
	Type              string     `json:"type,omitempty"`
	Color             string     `json:"color,omitempty"`
	Manufacturer      string     `json:"manufacturer,omitempty"`
	Model             string     `json:"model,omitempty"`
	Size              string     `json:"size,omitempty"`
	ManufacturerID    string     `json:"manufacturer_id,omitempty"`
	ClubID            string     `json:"club_id,omitempty"`
	ManufacturingDate *time.Time `json:"manufacturing_date,omitempty"`
	OperationalStatus string     `json:"operational_status,omitempty"`
	IsEPI             bool       `json:"is_epi"`
	UsageNotes        string     `json:"usage_notes,omitempty"`
}

// BookFields porte les champs propres aux livres.
type BookFields struct {
	Title           string `json:"title"`
	Author          string `json:"author,omitempty"`
	Category        string `json:"category,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
	Description     string `json:"description,omitempty"`
	Keywords        string `json:"keywords,omitempty"`
	ISBN            string `json:"isbn,omitempty"`
	Type            string `json:"type,omitempty"`
	StorageLocation string `json:"storage_location,omitempty"`
}

// Item est une union étiquetée : exactement un des deux jeux de champs est
// renseigné, selon Kind. Les sites de consommation font un switch exhaustif
// sur Kind plutôt que de tester la présence des champs.
type Item struct {
	Kind      ItemKind         `json:"kind"`
	ID        uint64           `json:"id"`
	Available bool             `json:"available"`
	CreatedAt time.Time        `json:"created_at"`
	Equipment *EquipmentFields `json:"equipment,omitempty"`
	Book      *BookFields      `json:"book,omitempty"`
}

// DisplayName renvoie le nom affiché dans les messages d'erreur d'emprunt :
// la désignation (repli "Article") pour le matériel, le titre pour un livre.
func (i Item) DisplayName() string {
	switch i.Kind {
	case ItemKindEquipment:
		if i.Equipment != nil && i.Equipment.Designation != "" {
			return i.Equipment.Designation
		}
		return "Article"
	case ItemKindBook:
		if i.Book != nil {
			return i.Book.Title
		}
	}
	return ""
}

// KindForMode renvoie la variante d'item attendue dans un mode donné.
func KindForMode(mode Mode) ItemKind {
	if mode == ModeBooks {
		return ItemKindBook
	}
	return ItemKindEquipment
}
