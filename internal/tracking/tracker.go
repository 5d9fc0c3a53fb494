// Package tracking reconciles booked calls into the applications
// spreadsheet.
package tracking

import (
	"context"
	"fmt"
	"strings"

	"creator-funnel/internal/common/errors"
	"creator-funnel/internal/common/logger"
	"creator-funnel/internal/integrations/sheets"
)

// Tracker marks an applicant's row in the sheet once they book a call.
type Tracker struct {
	client        *sheets.Client
	spreadsheetID string
	sheetName     string
	logger        logger.Logger
}

func NewTracker(client *sheets.Client, spreadsheetID, sheetName string, log logger.Logger) *Tracker {
	return &Tracker{
		client:        client,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        log.WithFields(map[string]interface{}{"component": "tracking"}),
	}
}

// MarkCallBooked finds the row whose Email cell matches email and
// writes a check into the Call Booked column, plus "Call Booked" into
// the Status column when the sheet has one. Matching is
// case-insensitive on trimmed values and scans every cell, since form
// exports shift columns over time.
func (t *Tracker) MarkCallBooked(ctx context.Context, email string) error {
	readRange := t.sheetName + "!A:ZZ"
	grid, err := t.client.GetValues(ctx, t.spreadsheetID, readRange)
	if err != nil {
		return errors.NewSheetUpdateFailedError(err)
	}

	rows := make([][]string, 0, len(grid))
	for _, row := range grid {
		if !rowEmpty(row) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return errors.NewSheetColumnsMissingError("sheet has no header row")
	}

	header := rows[0]
	emailCol := findColumn(header, "email")
	bookedCol := findColumn(header, "call booked")
	statusCol := findColumn(header, "status")
	if emailCol < 0 || bookedCol < 0 {
		return errors.NewSheetColumnsMissingError(
			fmt.Sprintf("missing Email or Call Booked column in header: %v", header))
	}

	target := normalize(email)
	rowIndex := -1
	for i := 1; i < len(rows); i++ {
		for _, cell := range rows[i] {
			if normalize(cell) == target {
				rowIndex = i
				break
			}
		}
		if rowIndex >= 0 {
			break
		}
	}
	if rowIndex < 0 {
		return errors.NewSheetRowNotFoundError(email)
	}

	// Sheet rows are 1-based and include the header.
	sheetRow := rowIndex + 1
	updates := []sheets.CellUpdate{
		{Range: fmt.Sprintf("%s!%s%d", t.sheetName, columnLetter(bookedCol), sheetRow), Value: "✓"},
	}
	if statusCol >= 0 {
		updates = append(updates, sheets.CellUpdate{
			Range: fmt.Sprintf("%s!%s%d", t.sheetName, columnLetter(statusCol), sheetRow),
			Value: "Call Booked",
		})
	}
	if err := t.client.BatchUpdate(ctx, t.spreadsheetID, updates); err != nil {
		return errors.NewSheetUpdateFailedError(err)
	}

	t.logger.Info("marked call booked", map[string]interface{}{
		"email": email,
		"row":   sheetRow,
	})
	return nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func findColumn(header []string, name string) int {
	for i, cell := range header {
		if normalize(cell) == name {
			return i
		}
	}
	return -1
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// columnLetter converts a zero-based column index to A1 letters.
func columnLetter(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}
