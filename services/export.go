package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Dosada05/fight-events/models"
)

const registrationsSheet = "Registrations"

var registrationHeaders = []any{
	"ID", "Type", "First name", "Last name", "Email", "Phone", "Date of birth",
	"Gender", "Weight class", "Age class", "Club", "Trainers", "Status", "Registered at",
}

func writeRegistrationsXLSX(w io.Writer, eventName string, regs []models.Registration) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registrationsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: eventName + " registrations"}); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}
	if err := f.SetSheetRow(registrationsSheet, "A1", &registrationHeaders); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, r := range regs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		dob := ""
		if r.DateOfBirth != nil {
			dob = r.DateOfBirth.Format("2006-01-02")
		}
		row := []any{
			r.ID, string(r.Type), r.FirstName, r.LastName, r.Email, strOrEmpty(r.Phone), dob,
			strOrEmpty(r.Gender), strOrEmpty(r.WeightClass), strOrEmpty(r.AgeClass), strOrEmpty(r.Club),
			strings.Join(r.Trainers, ", "), string(r.Status), r.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(registrationsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(registrationsSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
