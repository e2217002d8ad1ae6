package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const bookCSVHeader = "title,author,category,publisher,publication_year,description,keywords,isbn,type,storage_location,available"

func TestImportBooksCSV(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewImportService(repo, zap.NewNop())

	csv := bookCSVHeader + "\n" +
		"Topo Chartreuse,Durand,topo randonnée,Glénat,2019,,,978-2-7234,topo,Étagère A,true\n"

	inserted, err := svc.Import(context.Background(), entities.ModeBooks, "livres.csv", strings.NewReader(csv))

	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, entities.ModeBooks, repo.batchMode)
	require.Len(t, repo.batchRows, 1)

	row := repo.batchRows[0]
	assert.Equal(t, "Topo Chartreuse", row["title"])
	assert.Equal(t, 2019, row["publication_year"])
	assert.Equal(t, true, row["available"])
	_, hasDescription := row["description"]
	assert.False(t, hasDescription)
}

func TestImportReportsMissingColumns(t *testing.T) {
	svc := NewImportService(newFakeItemRepo(), zap.NewNop())

	csv := "title,author\nTopo Chartreuse,Durand\n"

	_, err := svc.Import(context.Background(), entities.ModeBooks, "livres.csv", strings.NewReader(csv))

	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Message, "Colonnes manquantes")
	assert.Contains(t, invalid.Message, "category")
	assert.Contains(t, invalid.Message, "isbn")
}

func TestImportIgnoresIDAndCreatedAtColumns(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewImportService(repo, zap.NewNop())

	csv := "id,created_at," + bookCSVHeader + "\n" +
		"42,2024-01-01,Topo Vercors,Martin,topo escalade,,,,,,,,true\n"

	_, err := svc.Import(context.Background(), entities.ModeBooks, "livres.csv", strings.NewReader(csv))

	require.NoError(t, err)
	row := repo.batchRows[0]
	_, hasID := row["id"]
	_, hasCreatedAt := row["created_at"]
	assert.False(t, hasID)
	assert.False(t, hasCreatedAt)
	assert.Equal(t, "Topo Vercors", row["title"])
}

func TestImportEquipmentBooleanParsing(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewImportService(repo, zap.NewNop())

	csv := "designation,is_epi,type,color,manufacturer,model,size,manufacturer_id,club_id,manufacturing_date,operational_status,usage_notes,available\n" +
		"Corde 60m,true,corde,,,,,,,2021-06-01,bon,,false\n"

	_, err := svc.Import(context.Background(), entities.ModeEquipment, "materiel.csv", strings.NewReader(csv))

	require.NoError(t, err)
	row := repo.batchRows[0]
	assert.Equal(t, true, row["is_epi"])
	assert.Equal(t, false, row["available"])
}

func TestImportRejectsUnknownExtension(t *testing.T) {
	svc := NewImportService(newFakeItemRepo(), zap.NewNop())

	_, err := svc.Import(context.Background(), entities.ModeBooks, "livres.pdf", strings.NewReader("x"))

	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
}

func TestImportEmptyFile(t *testing.T) {
	svc := NewImportService(newFakeItemRepo(), zap.NewNop())

	_, err := svc.Import(context.Background(), entities.ModeBooks, "livres.csv", strings.NewReader(""))

	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
}

func TestImportHeaderOnlyFile(t *testing.T) {
	svc := NewImportService(newFakeItemRepo(), zap.NewNop())

	_, err := svc.Import(context.Background(), entities.ModeBooks, "livres.csv", strings.NewReader(bookCSVHeader+"\n"))

	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Message, "Aucune ligne")
}
