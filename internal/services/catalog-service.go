package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/internal/repositories"
	"github.com/Robou/miniloc/pkg/utils"

	"go.uber.org/zap"
)

// Filter applique la recherche au catalogue. Les critères avancés, quand
// ils sont renseignés, priment entièrement sur la recherche simple. Les
// champs texte sont comparés par sous-chaîne insensible à la casse, les
// champs énumérés, booléens et numériques par égalité stricte. L'ordre
// d'entrée est conservé.
func Filter(items []entities.Item, mode entities.Mode, search string, criteria map[string]string) []entities.Item {
	defined := make(map[string]string)
	for field, value := range criteria {
		if strings.TrimSpace(value) != "" {
			defined[field] = value
		}
	}

	out := make([]entities.Item, 0, len(items))
	for _, item := range items {
		if len(defined) > 0 {
			if matchesCriteria(item, defined) {
				out = append(out, item)
			}
			continue
		}
		if matchesSearch(item, mode, search) {
			out = append(out, item)
		}
	}
	return out
}

func matchesCriteria(item entities.Item, criteria map[string]string) bool {
	for field, wanted := range criteria {
		value, exact, ok := fieldValue(item, field)
		if !ok {
			return false
		}
		if exact {
			if !strings.EqualFold(value, wanted) {
				return false
			}
		} else if !strings.Contains(strings.ToLower(value), strings.ToLower(wanted)) {
			return false
		}
	}
	return true
}

func matchesSearch(item entities.Item, mode entities.Mode, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, field := range searchableFields(mode) {
		value, _, ok := fieldValue(item, field)
		if ok && strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

func searchableFields(mode entities.Mode) []string {
	if mode == entities.ModeBooks {
		return []string{"title", "author", "type", "category", "publisher",
			"publication_year", "isbn", "storage_location", "keywords", "description"}
	}
	return []string{"designation", "type", "color", "manufacturer", "model",
		"operational_status", "manufacturer_id", "club_id", "usage_notes"}
}

// fieldValue renvoie la valeur textuelle d'un champ et indique si la
// comparaison doit être exacte plutôt que par sous-chaîne.
func fieldValue(item entities.Item, field string) (value string, exact bool, ok bool) {
	switch item.Kind {
	case entities.ItemKindEquipment:
		if item.Equipment == nil {
			return "", false, false
		}
		e := item.Equipment
		switch field {
		case "designation":
			return e.Designation, false, true
		case "type":
			return e.Type, false, true
		case "color":
			return e.Color, false, true
		case "manufacturer":
			return e.Manufacturer, false, true
		case "model":
			return e.Model, false, true
		case "size":
			return e.Size, false, true
		case "manufacturer_id":
			return e.ManufacturerID, false, true
		case "club_id":
			return e.ClubID, false, true
		case "usage_notes":
			return e.UsageNotes, false, true
		case "operational_status":
			return e.OperationalStatus, true, true
		case "is_epi":
			return strconv.FormatBool(e.IsEPI), true, true
		case "available":
			return strconv.FormatBool(item.Available), true, true
		}
	case entities.ItemKindBook:
		if item.Book == nil {
			return "", false, false
		}
		b := item.Book
		switch field {
		case "title":
			return b.Title, false, true
		case "author":
			return b.Author, false, true
		case "category":
			return b.Category, true, true
		case "publisher":
			return b.Publisher, false, true
		case "description":
			return b.Description, false, true
		case "keywords":
			return b.Keywords, false, true
		case "isbn":
			return b.ISBN, false, true
		case "type":
			return b.Type, false, true
		case "storage_location":
			return b.StorageLocation, false, true
		case "publication_year":
			if b.PublicationYear == 0 {
				return "", true, true
			}
			return strconv.Itoa(b.PublicationYear), true, true
		case "available":
			return strconv.FormatBool(item.Available), true, true
		}
	}
	return "", false, false
}

type CatalogServiceInterface interface {
	GetItems(ctx context.Context, mode entities.Mode, query utils.SearchQuery) ([]entities.Item, error)
	InvalidateCatalog(ctx context.Context, mode entities.Mode)
}

// CatalogService liste le catalogue avec un cache redis par mode,
// invalidé à chaque écriture d'article, emprunt ou retour.
type CatalogService struct {
	items  repositories.ItemRepositoryInterface
	cache  repositories.CacheRepositoryInterface
	ttl    time.Duration
	logger *zap.Logger
}

func NewCatalogService(items repositories.ItemRepositoryInterface, cache repositories.CacheRepositoryInterface,
	ttl time.Duration, logger *zap.Logger) CatalogServiceInterface {
	return &CatalogService{items: items, cache: cache, ttl: ttl, logger: logger}
}

func catalogKey(mode entities.Mode) string {
	return "catalog:" + string(mode)
}

func (s *CatalogService) GetItems(ctx context.Context, mode entities.Mode, query utils.SearchQuery) ([]entities.Item, error) {
	if !mode.Valid() {
		return nil, entities.ErrInvalidMode
	}

	items, err := s.loadItems(ctx, mode)
	if err != nil {
		return nil, err
	}
	return Filter(items, mode, query.Search, query.Criteria), nil
}

func (s *CatalogService) loadItems(ctx context.Context, mode entities.Mode) ([]entities.Item, error) {
	if cached, err := s.cache.Get(ctx, catalogKey(mode)); err == nil && cached != "" {
		var items []entities.Item
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			return items, nil
		}
	}

	items, err := s.items.GetItems(ctx, mode)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		if err := s.cache.Set(ctx, catalogKey(mode), data, s.ttl); err != nil {
			s.logger.Warn("Mise en cache du catalogue impossible", zap.Error(err))
		}
	}
	return items, nil
}

func (s *CatalogService) InvalidateCatalog(ctx context.Context, mode entities.Mode) {
	if err := s.cache.Del(ctx, catalogKey(mode)); err != nil {
		s.logger.Warn("Invalidation du cache catalogue impossible", zap.Error(err))
	}
}
