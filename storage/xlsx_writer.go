package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"rally-metrics/models"
)

var xlsxHeaders = []string{
	"Name", "Rank", "Team",
	"Games Won", "Games Lost", "Games Won Percent",
	"Pts Won", "Pts Lost", "Pts Won Percent",
}

// ExportXLSX writes the players to a single-sheet workbook at outputPath.
func ExportXLSX(players []*models.PlayerStatistic, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("xlsx: header %s: %w", cell, err)
		}
	}

	for i, p := range players {
		values := []any{
			p.Name, p.Rank, p.Team,
			p.GamesWon, p.GamesLost, p.GamesWonPercent,
			p.PtsWon, p.PtsLost, p.PtsWonPercent,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("xlsx: cell %s: %w", cell, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("xlsx: create output dir: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", outputPath, err)
	}
	return nil
}
