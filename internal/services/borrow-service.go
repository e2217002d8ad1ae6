package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Robou/miniloc/internal/cart"
	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/internal/repositories"
	"github.com/Robou/miniloc/internal/security/seclog"
	"github.com/Robou/miniloc/pkg/apperrors"
	"github.com/Robou/miniloc/pkg/sanitize"

	"go.uber.org/zap"
)

// BorrowerInfo porte les informations saisies au moment de l'emprunt.
// RentalPrice reste une chaîne : il n'est transmis que s'il est non vide,
// et uniquement en mode matériel.
type BorrowerInfo struct {
	Name           string
	Email          string
	RentalPrice    string
	SupervisorName string
}

// BorrowErrors agrège les échecs par article d'une confirmation d'emprunt.
type BorrowErrors []string

func (e BorrowErrors) Error() string {
	return strings.Join(e, "\n")
}

type BorrowServiceInterface interface {
	ConfirmBorrow(ctx context.Context, sessionID string, info BorrowerInfo) error
	ReturnItem(ctx context.Context, mode entities.Mode, borrowID uint64, confirmed bool) error
	GetBorrows(ctx context.Context, mode entities.Mode) ([]entities.Borrow, error)
}

type BorrowService struct {
	borrows repositories.BorrowRepositoryInterface
	cart    *cart.Store
	catalog CatalogServiceInterface
	seclog  *seclog.Logger
	logger  *zap.Logger
}

func NewBorrowService(borrows repositories.BorrowRepositoryInterface, cartStore *cart.Store,
	catalog CatalogServiceInterface, securityLog *seclog.Logger, logger *zap.Logger) BorrowServiceInterface {
	return &BorrowService{
		borrows: borrows,
		cart:    cartStore,
		catalog: catalog,
		seclog:  securityLog,
		logger:  logger,
	}
}

// ConfirmBorrow enregistre un emprunt par article du panier, dans l'ordre
// du panier, sans s'arrêter au premier échec. Si au moins un article a
// échoué, les erreurs sont renvoyées ensemble et le panier est conservé
// pour correction. Un succès complet vide le panier et invalide les
// caches. Les articles déjà empruntés lors d'un échec partiel ne sont pas
// annulés.
func (s *BorrowService) ConfirmBorrow(ctx context.Context, sessionID string, info BorrowerInfo) error {
	if sanitize.LooksLikeScript(info.Name) {
		s.seclog.LogXSSAttempt(info.Name)
	}

	name := sanitize.Text(info.Name)
	if name == "" {
		return apperrors.NewInvalidInputError("Le nom de l'emprunteur est obligatoire")
	}

	items := s.cart.Items(sessionID)
	if len(items) == 0 {
		return apperrors.NewInvalidInputError("Le panier est vide")
	}
	mode := s.cart.Mode(sessionID)

	params := repositories.CreateBorrowParams{Name: name}
	if email := sanitize.Email(info.Email); email != "" {
		params.Email = &email
	}
	if mode == entities.ModeEquipment {
		if raw := strings.TrimSpace(info.RentalPrice); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return apperrors.NewInvalidInputError("Le prix de location est invalide")
			}
			params.RentalPrice = &price
		}
		if supervisor := sanitize.Text(info.SupervisorName); supervisor != "" {
			params.SupervisorName = &supervisor
		}
	}

	errs := make(BorrowErrors, 0)
	for _, item := range items {
		itemParams := params
		itemParams.ItemID = item.ID

		result, err := s.borrows.CreateBorrow(ctx, mode, itemParams)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Erreur technique pour %s: %s", item.DisplayName(), err.Error()))
			continue
		}
		if !result.Success {
			errs = append(errs, fmt.Sprintf("%s: %s", item.DisplayName(), result.Error))
		}
	}

	if len(errs) > 0 {
		return errs
	}

	s.cart.Clear(sessionID)
	s.catalog.InvalidateCatalog(ctx, mode)
	s.logger.Info("Emprunts enregistrés",
		zap.String("mode", string(mode)), zap.Int("count", len(items)))
	return nil
}

// ReturnItem clôt un emprunt. Sans confirmation explicite, aucun appel
// n'est émis.
func (s *BorrowService) ReturnItem(ctx context.Context, mode entities.Mode, borrowID uint64, confirmed bool) error {
	if !confirmed {
		return apperrors.NewInvalidInputError("Le retour doit être confirmé")
	}
	if !mode.Valid() {
		return entities.ErrInvalidMode
	}

	result, err := s.borrows.ReturnBorrow(ctx, mode, borrowID)
	if err != nil {
		return apperrors.NewHttpError(500, "Erreur technique lors du retour", err, nil)
	}
	if !result.Success {
		return apperrors.NewInvalidInputError("Retour impossible : %s", result.Error)
	}

	s.catalog.InvalidateCatalog(ctx, mode)
	return nil
}

func (s *BorrowService) GetBorrows(ctx context.Context, mode entities.Mode) ([]entities.Borrow, error) {
	if !mode.Valid() {
		return nil, entities.ErrInvalidMode
	}
	return s.borrows.GetBorrows(ctx, mode)
}
