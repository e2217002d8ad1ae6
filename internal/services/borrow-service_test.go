package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Robou/miniloc/internal/cart"
	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/internal/repositories"
	"github.com/Robou/miniloc/internal/security/seclog"
	"github.com/Robou/miniloc/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBorrowFixture(t *testing.T) (*fakeBorrowRepo, *cart.Store, *fakeCatalog, BorrowServiceInterface) {
	t.Helper()
	repo := newFakeBorrowRepo()
	cartStore := cart.NewStore()
	catalog := &fakeCatalog{}
	securityLog := seclog.New(&memSeclogStore{}, 500, zap.NewNop())
	svc := NewBorrowService(repo, cartStore, catalog, securityLog, zap.NewNop())
	return repo, cartStore, catalog, svc
}

func fillCart(t *testing.T, store *cart.Store, session string, items ...entities.Item) {
	t.Helper()
	for _, item := range items {
		require.NoError(t, store.Add(session, item))
	}
}

func TestConfirmBorrowFullSuccessClearsCart(t *testing.T) {
	repo, cartStore, catalog, svc := newBorrowFixture(t)
	fillCart(t, cartStore, "s1",
		equipment(1, "Corde 60m", "corde", "bon"),
		equipment(2, "Casque", "casque", "bon"))

	err := svc.ConfirmBorrow(context.Background(), "s1", BorrowerInfo{Name: "Alice Martin"})

	require.NoError(t, err)
	assert.Empty(t, cartStore.Items("s1"))
	require.Len(t, repo.calls, 2)
	assert.Equal(t, uint64(1), repo.calls[0].ItemID)
	assert.Equal(t, uint64(2), repo.calls[1].ItemID)
	assert.Equal(t, []entities.Mode{entities.ModeEquipment}, catalog.invalidated)
}

func TestConfirmBorrowCollectsFailuresAndKeepsCart(t *testing.T) {
	repo, cartStore, _, svc := newBorrowFixture(t)
	fillCart(t, cartStore, "s1",
		equipment(1, "Corde 60m", "corde", "bon"),
		equipment(2, "Casque", "casque", "bon"),
		equipment(3, "Baudrier", "baudrier", "bon"))
	repo.failures[2] = "indisponible"

	err := svc.ConfirmBorrow(context.Background(), "s1", BorrowerInfo{Name: "Alice Martin"})

	var borrowErrs BorrowErrors
	require.ErrorAs(t, err, &borrowErrs)
	require.Len(t, borrowErrs, 1)
	assert.Equal(t, "Casque: indisponible", borrowErrs[0])

	// Le 3e article a quand même été tenté, et le panier est conservé.
	assert.Len(t, repo.calls, 3)
	assert.Len(t, cartStore.Items("s1"), 3)
}

func TestConfirmBorrowTransportErrorMessage(t *testing.T) {
	repo, cartStore, _, svc := newBorrowFixture(t)
	fillCart(t, cartStore, "s1", equipment(1, "Corde 60m", "corde", "bon"))
	repo.transportErr[1] = errors.New("connexion perdue")

	err := svc.ConfirmBorrow(context.Background(), "s1", BorrowerInfo{Name: "Alice Martin"})

	var borrowErrs BorrowErrors
	require.ErrorAs(t, err, &borrowErrs)
	require.Len(t, borrowErrs, 1)
	assert.Equal(t, "Erreur technique pour Corde 60m: connexion perdue", borrowErrs[0])
}

func TestConfirmBorrowFallbackDisplayName(t *testing.T) {
	repo, cartStore, _, svc := newBorrowFixture(t)
	item := entities.Item{
		Kind:      entities.ItemKindEquipment,
		ID:        1,
		Available: true,
		Equipment: &entities.EquipmentFields{},
	}
	fillCart(t, cartStore, "s1", item)
	repo.failures[1] = "indisponible"

	err := svc.ConfirmBorrow(context.Background(), "s1", BorrowerInfo{Name: "Alice Martin"})

	var borrowErrs BorrowErrors
	require.ErrorAs(t, err, &borrowErrs)
	assert.Equal(t, "Article: indisponible", borrowErrs[0])
}

func TestConfirmBorrowRequiresName(t *testing.T) {
	repo, cartStore, _, svc := newBorrowFixture(t)
	fillCart(t, cartStore, "s1", equipment(1, "Corde 60m", "corde", "bon"))

	err := svc.ConfirmBorrow(context.Background(), "s1", BorrowerInfo{Name: "   "})

	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, repo.calls)
}

func TestConfirmBorrowEmptyCart(t *testing.T) {
	repo, _, _, svc := newBorrowFixture(t)

	err := svc.ConfirmBorrow(context.Background(), "s1", BorrowerInfo{Name: "Alice Martin"})

	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, repo.calls)
}

func TestConfirmBorrowEquipmentOptionalFields(t *testing.T) {
	repo, cartStore, _, svc := newBorrowFixture(t)
	fillCart(t, cartStore, "s1", equipment(1, "Corde 60m", "corde", "bon"))

	err := svc.ConfirmBorrow(context.Background(), "s1", BorrowerInfo{
		Name:           "Alice Martin",
		Email:          "Alice@Club.FR",
		RentalPrice:    "12.50",
		SupervisorName: "Bob Durand",
	})

	require.NoError(t, err)
	require.Len(t, repo.calls, 1)
	call := repo.calls[0]
	require.NotNil(t, call.Email)
	assert.Equal(t, "alice@club.fr", *call.Email)
	require.NotNil(t, call.RentalPrice)
	assert.Equal(t, 12.50, *call.RentalPrice)
	require.NotNil(t, call.SupervisorName)
	assert.Equal(t, "Bob Durand", *call.SupervisorName)
}

func TestConfirmBorrowEmptyPriceOmitted(t *testing.T) {
	repo, cartStore, _, svc := newBorrowFixture(t)
	fillCart(t, cartStore, "s1", equipment(1, "Corde 60m", "corde", "bon"))

	err := svc.ConfirmBorrow(context.Background(), "s1", BorrowerInfo{Name: "Alice Martin", RentalPrice: ""})

	require.NoError(t, err)
	assert.Nil(t, repo.calls[0].RentalPrice)
}

func TestConfirmBorrowInvalidPrice(t *testing.T) {
	repo, cartStore, _, svc := newBorrowFixture(t)
	fillCart(t, cartStore, "s1", equipment(1, "Corde 60m", "corde", "bon"))

	err := svc.ConfirmBorrow(context.Background(), "s1", BorrowerInfo{Name: "Alice Martin", RentalPrice: "douze"})

	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, repo.calls)
}

func TestReturnItemRequiresConfirmation(t *testing.T) {
	repo, _, _, svc := newBorrowFixture(t)

	err := svc.ReturnItem(context.Background(), entities.ModeEquipment, 7, false)

	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, repo.returned)
}

func TestReturnItemSuccessInvalidatesCatalog(t *testing.T) {
	repo, _, catalog, svc := newBorrowFixture(t)

	err := svc.ReturnItem(context.Background(), entities.ModeBooks, 7, true)

	require.NoError(t, err)
	assert.Equal(t, []uint64{7}, repo.returned)
	assert.Equal(t, []entities.Mode{entities.ModeBooks}, catalog.invalidated)
}

func TestReturnItemApplicationFailure(t *testing.T) {
	repo, _, catalog, svc := newBorrowFixture(t)
	repo.returnRes = &repositories.RPCResult{Success: false, Error: "emprunt introuvable"}

	err := svc.ReturnItem(context.Background(), entities.ModeEquipment, 7, true)

	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Message, "emprunt introuvable")
	assert.Empty(t, catalog.invalidated)
}
