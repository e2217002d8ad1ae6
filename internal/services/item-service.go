package services

import (
	"context"
	"time"

	"github.com/Robou/miniloc/internal/dto"
	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/internal/repositories"
	"github.com/Robou/miniloc/pkg/apperrors"

	"go.uber.org/zap"
)

type ItemServiceInterface interface {
	SaveEquipment(ctx context.Context, payload dto.EquipmentDTO) (uint64, error)
	SaveBook(ctx context.Context, payload dto.BookDTO) (uint64, error)
}

// ItemService écrit les fiches du catalogue. La présence d'un identifiant
// dans la charge utile bascule en mise à jour.
type ItemService struct {
	items   repositories.ItemRepositoryInterface
	catalog CatalogServiceInterface
	logger  *zap.Logger
}

func NewItemService(items repositories.ItemRepositoryInterface, catalog CatalogServiceInterface,
	logger *zap.Logger) ItemServiceInterface {
	return &ItemService{items: items, catalog: catalog, logger: logger}
}

// parseMonthYear convertit une date MM/AAAA en date au premier du mois.
// Le format a déjà été validé par la règle month_year.
func parseMonthYear(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("01/2006", value)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("La date de fabrication doit être au format MM/AAAA")
	}
	date := time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, time.UTC)
	return &date, nil
}

func (s *ItemService) SaveEquipment(ctx context.Context, payload dto.EquipmentDTO) (uint64, error) {
	manufacturingDate, err := parseMonthYear(payload.ManufacturingDate.String)
	if err != nil {
		return 0, err
	}

	item := entities.Item{
		Kind:      entities.ItemKindEquipment,
		Available: true,
		Equipment: &entities.EquipmentFields{
			Designation:       payload.Designation,
			Type:              payload.Type.String,
			Color:             payload.Color.String,
			Manufacturer:      payload.Manufacturer.String,
			Model:             payload.Model.String,
			Size:              payload.Size.String,
			ManufacturerID:    payload.ManufacturerID.String,
			ClubID:            payload.ClubID.String,
			ManufacturingDate: manufacturingDate,
			OperationalStatus: payload.OperationalStatus.String,
			IsEPI:             payload.IsEPI,
			UsageNotes:        payload.UsageNotes.String,
		},
	}

	id, err := s.save(ctx, item, payload.ID.Uint64, payload.ID.Valid)
	if err != nil {
		return 0, err
	}
	s.catalog.InvalidateCatalog(ctx, entities.ModeEquipment)
	return id, nil
}

func (s *ItemService) SaveBook(ctx context.Context, payload dto.BookDTO) (uint64, error) {
	item := entities.Item{
		Kind:      entities.ItemKindBook,
		Available: true,
		Book: &entities.BookFields{
			Title:           payload.Title,
			Author:          payload.Author.String,
			Category:        payload.Category.String,
			Publisher:       payload.Publisher.String,
			PublicationYear: payload.PublicationYear.Int,
			Description:     payload.Description.String,
			Keywords:        payload.Keywords.String,
			ISBN:            payload.ISBN.String,
			Type:            payload.Type.String,
			StorageLocation: payload.StorageLocation.String,
		},
	}

	id, err := s.save(ctx, item, payload.ID.Uint64, payload.ID.Valid)
	if err != nil {
		return 0, err
	}
	s.catalog.InvalidateCatalog(ctx, entities.ModeBooks)
	return id, nil
}

func (s *ItemService) save(ctx context.Context, item entities.Item, id uint64, update bool) (uint64, error) {
	if update {
		if err := s.items.UpdateItem(ctx, id, item); err != nil {
			return 0, err
		}
		s.logger.Info("Fiche mise à jour", zap.Uint64("id", id), zap.String("kind", string(item.Kind)))
		return id, nil
	}

	created, err := s.items.CreateItem(ctx, item)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Fiche créée", zap.Uint64("id", created), zap.String("kind", string(item.Kind)))
	return created, nil
}
