package partners

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []interface{}{
	"id",
	"telegram_id",
	"username",
	"restaurant_name",
	"owner_name",
	"owner_email",
	"owner_phone",
	"whatsapp_updates",
	"primary_contact",
	"cuisine_type",
	"operation_hours",
	"avg_meal_cost",
	"has_license",
	"has_food_safety_cert",
	"status",
	"created_at",
}

// ExportXLSX renders applications into a single-sheet workbook.
func ExportXLSX(apps []Application) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Applications"
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := exportHeader
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, a := range apps {
		row := []interface{}{
			a.ID,
			a.TelegramID,
			a.Username,
			a.RestaurantName,
			a.OwnerName,
			a.OwnerEmail,
			a.OwnerPhone,
			yesNo(a.WhatsappUpdates),
			a.PrimaryContact,
			a.CuisineType,
			a.OperationHours,
			a.AvgMealCost,
			yesNo(a.HasLicense),
			yesNo(a.HasFoodSafetyCert),
			string(a.Status),
			a.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
