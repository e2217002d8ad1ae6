package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/pkg/apperrors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateBorrowParams porte les paramètres d'un appel à la fonction
// d'emprunt. RentalPrice et SupervisorName ne sont transmis qu'en mode
// matériel.
type CreateBorrowParams struct {
	ItemID         uint64
	Name           string
	Email          *string
	RentalPrice    *float64
	SupervisorName *string
}

type BorrowRepositoryInterface interface {
	GetBorrows(ctx context.Context, mode entities.Mode) ([]entities.Borrow, error)
	CreateBorrow(ctx context.Context, mode entities.Mode, params CreateBorrowParams) (*RPCResult, error)
	ReturnBorrow(ctx context.Context, mode entities.Mode, borrowID uint64) (*RPCResult, error)
}

type BorrowRepository struct {
	storage *pgxpool.Pool
}

func NewBorrowRepository(storage *pgxpool.Pool) BorrowRepositoryInterface {
	return &BorrowRepository{storage: storage}
}

func (r *BorrowRepository) GetBorrows(ctx context.Context, mode entities.Mode) ([]entities.Borrow, error) {
	switch mode {
	case entities.ModeBooks:
		return r.getBookBorrows(ctx)
	case entities.ModeEquipment:
		return r.getEquipmentBorrows(ctx)
	default:
		return nil, apperrors.ErrBadRequest
	}
}

func (r *BorrowRepository) getEquipmentBorrows(ctx context.Context) ([]entities.Borrow, error) {
	query := fmt.Sprintf(`
		SELECT b.id, b.equipment_id, b.name, b.email, b.rental_price, b.supervisor_name, b.borrowed_at,
			%s
		FROM equipment_borrows b
			JOIN equipment i ON i.id = b.equipment_id
		ORDER BY b.borrowed_at DESC
	`, prefixColumns("i", equipmentColumns))

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	borrows := make([]entities.Borrow, 0)
	for rows.Next() {
		var borrow entities.Borrow
		var item entities.Item
		var e entities.EquipmentFields
		var typ, color, manufacturer, model, size, manufacturerID, clubID, status, notes *string
		var manufacturingDate *time.Time
		var createdAt time.Time

		err := rows.Scan(&borrow.ID, &borrow.ItemID, &borrow.Name, &borrow.Email,
			&borrow.RentalPrice, &borrow.SupervisorName, &borrow.BorrowedAt,
			&item.ID, &e.Designation, &typ, &color, &manufacturer, &model, &size,
			&manufacturerID, &clubID, &manufacturingDate, &status, &e.IsEPI, &notes,
			&item.Available, &createdAt)
		if err != nil {
			return nil, err
		}

		e.Type = deref(typ)
		e.Color = deref(color)
		e.Manufacturer = deref(manufacturer)
		e.Model = deref(model)
		e.Size = deref(size)
		e.ManufacturerID = deref(manufacturerID)
		e.ClubID = deref(clubID)
		e.OperationalStatus = deref(status)
		e.UsageNotes = deref(notes)
		e.ManufacturingDate = manufacturingDate

		item.Kind = entities.ItemKindEquipment
		item.Equipment = &e
		item.CreatedAt = createdAt

		borrow.Kind = entities.ItemKindEquipment
		borrow.Item = item
		borrows = append(borrows, borrow)
	}
	return borrows, rows.Err()
}

func (r *BorrowRepository) getBookBorrows(ctx context.Context) ([]entities.Borrow, error) {
	query := fmt.Sprintf(`
		SELECT b.id, b.book_id, b.name, b.email, b.borrowed_at,
			%s
		FROM book_borrows b
			JOIN books i ON i.id = b.book_id
		ORDER BY b.borrowed_at DESC
	`, prefixColumns("i", bookColumns))

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	borrows := make([]entities.Borrow, 0)
	for rows.Next() {
		var borrow entities.Borrow
		var item entities.Item
		var b entities.BookFields
		var author, category, publisher, description, keywords, isbn, typ, storage *string
		var year *int
		var createdAt time.Time

		err := rows.Scan(&borrow.ID, &borrow.ItemID, &borrow.Name, &borrow.Email, &borrow.BorrowedAt,
			&item.ID, &b.Title, &author, &category, &publisher, &year,
			&description, &keywords, &isbn, &typ, &storage, &item.Available, &createdAt)
		if err != nil {
			return nil, err
		}

		b.Author = deref(author)
		b.Category = deref(category)
		b.Publisher = deref(publisher)
		b.Description = deref(description)
		b.Keywords = deref(keywords)
		b.ISBN = deref(isbn)
		b.Type = deref(typ)
		b.StorageLocation = deref(storage)
		if year != nil {
			b.PublicationYear = *year
		}

		item.Kind = entities.ItemKindBook
		item.Book = &b
		item.CreatedAt = createdAt

		borrow.Kind = entities.ItemKindBook
		borrow.Item = item
		borrows = append(borrows, borrow)
	}
	return borrows, rows.Err()
}

func (r *BorrowRepository) CreateBorrow(ctx context.Context, mode entities.Mode, params CreateBorrowParams) (*RPCResult, error) {
	cfg, ok := entities.ModeConfigs[mode]
	if !ok {
		return nil, apperrors.ErrBadRequest
	}

	var raw []byte
	var err error
	if mode == entities.ModeEquipment {
		query := fmt.Sprintf("SELECT %s($1, $2, $3, $4, $5)", cfg.CreateFunction)
		err = r.storage.QueryRow(ctx, query, params.ItemID, params.Name, params.Email,
			params.RentalPrice, params.SupervisorName).Scan(&raw)
	} else {
		query := fmt.Sprintf("SELECT %s($1, $2, $3)", cfg.CreateFunction)
		err = r.storage.QueryRow(ctx, query, params.ItemID, params.Name, params.Email).Scan(&raw)
	}
	if err != nil {
		return nil, err
	}

	var result RPCResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *BorrowRepository) ReturnBorrow(ctx context.Context, mode entities.Mode, borrowID uint64) (*RPCResult, error) {
	cfg, ok := entities.ModeConfigs[mode]
	if !ok {
		return nil, apperrors.ErrBadRequest
	}

	var raw []byte
	query := fmt.Sprintf("SELECT %s($1)", cfg.ReturnFunction)
	if err := r.storage.QueryRow(ctx, query, borrowID).Scan(&raw); err != nil {
		return nil, err
	}

	var result RPCResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func prefixColumns(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}
