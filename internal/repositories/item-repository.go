package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/pkg/apperrors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const equipmentColumns = "id, designation, type, color, manufacturer, model, size, " +
	"manufacturer_id, club_id, manufacturing_date, operational_status, is_epi, usage_notes, available, created_at"

const bookColumns = "id, title, author, category, publisher, publication_year, description, " +
	"keywords, isbn, type, storage_location, available, created_at"

type ItemRepositoryInterface interface {
	GetItems(ctx context.Context, mode entities.Mode) ([]entities.Item, error)
	FindItem(ctx context.Context, mode entities.Mode, id uint64) (*entities.Item, error)
	CreateItem(ctx context.Context, item entities.Item) (uint64, error)
	UpdateItem(ctx context.Context, id uint64, item entities.Item) error
	BatchImport(ctx context.Context, mode entities.Mode, rows []map[string]interface{}) (*RPCResult, error)
}

type ItemRepository struct {
	storage *pgxpool.Pool
	builder sq.StatementBuilderType
}

func NewItemRepository(storage *pgxpool.Pool) ItemRepositoryInterface {
	return &ItemRepository{
		storage: storage,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ItemRepository) GetItems(ctx context.Context, mode entities.Mode) ([]entities.Item, error) {
	cfg, ok := entities.ModeConfigs[mode]
	if !ok {
		return nil, apperrors.ErrBadRequest
	}

	columns := equipmentColumns
	if mode == entities.ModeBooks {
		columns = bookColumns
	}

	query, args, err := r.builder.
		Select(columns).
		From(cfg.TableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entities.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows, mode)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *ItemRepository) FindItem(ctx context.Context, mode entities.Mode, id uint64) (*entities.Item, error) {
	cfg, ok := entities.ModeConfigs[mode]
	if !ok {
		return nil, apperrors.ErrBadRequest
	}

	columns := equipmentColumns
	if mode == entities.ModeBooks {
		columns = bookColumns
	}

	query, args, err := r.builder.
		Select(columns).
		From(cfg.TableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrNotFound
	}
	return scanItem(rows, mode)
}

func (r *ItemRepository) CreateItem(ctx context.Context, item entities.Item) (uint64, error) {
	var query string
	var args []interface{}
	var err error

	switch item.Kind {
	case entities.ItemKindEquipment:
		e := item.Equipment
		query, args, err = r.builder.
			Insert("equipment").
			Columns("designation", "type", "color", "manufacturer", "model", "size",
				"manufacturer_id", "club_id", "manufacturing_date", "operational_status",
				"is_epi", "usage_notes", "available").
			Values(e.Designation, nullable(e.Type), nullable(e.Color), nullable(e.Manufacturer),
				nullable(e.Model), nullable(e.Size), nullable(e.ManufacturerID), nullable(e.ClubID),
				e.ManufacturingDate, nullable(e.OperationalStatus), e.IsEPI,
				nullable(e.UsageNotes), item.Available).
			Suffix("RETURNING id").
			ToSql()
	case entities.ItemKindBook:
		b := item.Book
		query, args, err = r.builder.
			Insert("books").
			Columns("title", "author", "category", "publisher", "publication_year",
				"description", "keywords", "isbn", "type", "storage_location", "available").
			Values(b.Title, nullable(b.Author), nullable(b.Category), nullable(b.Publisher),
				nullableInt(b.PublicationYear), nullable(b.Description), nullable(b.Keywords),
				nullable(b.ISBN), nullable(b.Type), nullable(b.StorageLocation), item.Available).
			Suffix("RETURNING id").
			ToSql()
	default:
		return 0, apperrors.ErrBadRequest
	}
	if err != nil {
		return 0, err
	}

	var id uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *ItemRepository) UpdateItem(ctx context.Context, id uint64, item entities.Item) error {
	var query string
	var args []interface{}
	var err error

	switch item.Kind {
	case entities.ItemKindEquipment:
		e := item.Equipment
		query, args, err = r.builder.
			Update("equipment").
			Set("designation", e.Designation).
			Set("type", nullable(e.Type)).
			Set("color", nullable(e.Color)).
			Set("manufacturer", nullable(e.Manufacturer)).
			Set("model", nullable(e.Model)).
			Set("size", nullable(e.Size)).
			Set("manufacturer_id", nullable(e.ManufacturerID)).
			Set("club_id", nullable(e.ClubID)).
			Set("manufacturing_date", e.ManufacturingDate).
			Set("operational_status", nullable(e.OperationalStatus)).
			Set("is_epi", e.IsEPI).
			Set("usage_notes", nullable(e.UsageNotes)).
			Where(sq.Eq{"id": id}).
			ToSql()
	case entities.ItemKindBook:
		b := item.Book
		query, args, err = r.builder.
			Update("books").
			Set("title", b.Title).
			Set("author", nullable(b.Author)).
			Set("category", nullable(b.Category)).
			Set("publisher", nullable(b.Publisher)).
			Set("publication_year", nullableInt(b.PublicationYear)).
			Set("description", nullable(b.Description)).
			Set("keywords", nullable(b.Keywords)).
			Set("isbn", nullable(b.ISBN)).
			Set("type", nullable(b.Type)).
			Set("storage_location", nullable(b.StorageLocation)).
			Where(sq.Eq{"id": id}).
			ToSql()
	default:
		return apperrors.ErrBadRequest
	}
	if err != nil {
		return err
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ItemRepository) BatchImport(ctx context.Context, mode entities.Mode, rows []map[string]interface{}) (*RPCResult, error) {
	function := "batch_import_equipment"
	if mode == entities.ModeBooks {
		function = "batch_import_books"
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}

	var raw []byte
	query := fmt.Sprintf("SELECT %s($1::jsonb)", function)
	if err := r.storage.QueryRow(ctx, query, payload).Scan(&raw); err != nil {
		return nil, err
	}

	var result RPCResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func scanItem(rows pgx.Rows, mode entities.Mode) (*entities.Item, error) {
	switch mode {
	case entities.ModeBooks:
		var item entities.Item
		var b entities.BookFields
		var author, category, publisher, description, keywords, isbn, typ, storage *string
		var year *int
		var createdAt time.Time

		err := rows.Scan(&item.ID, &b.Title, &author, &category, &publisher, &year,
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
		return &item, nil

	default:
		var item entities.Item
		var e entities.EquipmentFields
		var typ, color, manufacturer, model, size, manufacturerID, clubID, status, notes *string
		var manufacturingDate *time.Time
		var createdAt time.Time

		err := rows.Scan(&item.ID, &e.Designation, &typ, &color, &manufacturer, &model, &size,
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
		return &item, nil
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(i int) interface{} {
	if i == 0 {
		return nil
	}
	return i
}
