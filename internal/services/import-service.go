package services

import (
	"context"
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Robou/miniloc/internal/entities"
	"github.com/Robou/miniloc/internal/repositories"
	"github.com/Robou/miniloc/pkg/apperrors"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var expectedColumns = map[entities.Mode][]string{
	entities.ModeEquipment: {"designation", "is_epi", "type", "color", "manufacturer",
		"model", "size", "manufacturer_id", "club_id", "manufacturing_date",
		"operational_status", "usage_notes", "available"},
	entities.ModeBooks: {"title", "author", "category", "publisher", "publication_year",
		"description", "keywords", "isbn", "type", "storage_location", "available"},
}

var boolColumns = map[string]bool{"is_epi": true, "available": true}
var intColumns = map[string]bool{"publication_year": true}

type ImportServiceInterface interface {
	Import(ctx context.Context, mode entities.Mode, filename string, file io.Reader) (int, error)
}

// ImportService charge un fichier CSV ou XLSX dans la table du mode via
// la fonction d'import en lot correspondante. Toutes les colonnes
// attendues doivent figurer dans l'en-tête ; id et created_at sont
// ignorées.
type ImportService struct {
	items  repositories.ItemRepositoryInterface
	logger *zap.Logger
}

func NewImportService(items repositories.ItemRepositoryInterface, logger *zap.Logger) ImportServiceInterface {
	return &ImportService{items: items, logger: logger}
}

func (s *ImportService) Import(ctx context.Context, mode entities.Mode, filename string, file io.Reader) (int, error) {
	if !mode.Valid() {
		return 0, entities.ErrInvalidMode
	}

	var records [][]string
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(file)
	case ".xlsx":
		records, err = readXLSX(file)
	default:
		return 0, apperrors.NewInvalidInputError("Format de fichier non pris en charge (CSV ou XLSX attendu)")
	}
	if err != nil {
		return 0, apperrors.NewInvalidInputError("Fichier illisible : %s", err.Error())
	}

	if len(records) == 0 {
		return 0, apperrors.NewInvalidInputError("Le fichier est vide")
	}

	header := make([]string, len(records[0]))
	present := make(map[string]int)
	for i, name := range records[0] {
		normalized := strings.ToLower(strings.TrimSpace(name))
		header[i] = normalized
		present[normalized] = i
	}

	missing := make([]string, 0)
	for _, column := range expectedColumns[mode] {
		if _, ok := present[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return 0, apperrors.NewInvalidInputError("Colonnes manquantes : %s", strings.Join(missing, ", "))
	}

	rows := make([]map[string]interface{}, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]interface{})
		for i, raw := range record {
			if i >= len(header) {
				break
			}
			column := header[i]
			if column == "id" || column == "created_at" {
				continue
			}
			value := strings.TrimSpace(raw)
			if value == "" {
				continue
			}
			switch {
			case boolColumns[column]:
				parsed, err := strconv.ParseBool(strings.ToLower(value))
				if err != nil {
					return 0, apperrors.NewInvalidInputError("Valeur booléenne invalide dans la colonne %s : %s", column, value)
				}
				row[column] = parsed
			case intColumns[column]:
				parsed, err := strconv.Atoi(value)
				if err != nil {
					return 0, apperrors.NewInvalidInputError("Valeur numérique invalide dans la colonne %s : %s", column, value)
				}
				row[column] = parsed
			default:
				row[column] = value
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return 0, apperrors.NewInvalidInputError("Aucune ligne à importer")
	}

	result, err := s.items.BatchImport(ctx, mode, rows)
	if err != nil {
		return 0, apperrors.NewHttpError(500, "Erreur technique lors de l'import", err, nil)
	}
	if !result.Success {
		return 0, apperrors.NewInvalidInputError("Import refusé : %s", result.Error)
	}

	s.logger.Info("Import terminé", zap.String("mode", string(mode)), zap.Int("inserted", result.Inserted))
	return result.Inserted, nil
}

func readCSV(file io.Reader) ([][]string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func readXLSX(file io.Reader) ([][]string, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, err
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, io.EOF
	}
	return workbook.GetRows(sheets[0])
}
