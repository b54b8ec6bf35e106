package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/nobarid/nobar-backend/internal/app/repository"
	"github.com/nobarid/nobar-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

type ExportService interface {
	ExportLicensesXLSX() (*bytes.Buffer, string, error)
}

type exportService struct {
	licenseRepo repository.LicenseRepository
}

func NewExportService(licenseRepo repository.LicenseRepository) ExportService {
	return &exportService{licenseRepo: licenseRepo}
}

var licenseExportHeader = []string{
	"Venue Code", "Business Name", "Owner", "Email", "Province", "City",
	"Tier", "Base Price", "VAT", "Fee", "Total", "Order ID", "Payment Type", "Paid At",
}

// ExportLicensesXLSX renders all paid licenses as a spreadsheet and returns
// the file contents with a timestamped filename.
func (s *exportService) ExportLicensesXLSX() (*bytes.Buffer, string, error) {
	licenses, err := s.licenseRepo.FindAllPaid()
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Licenses"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, title := range licenseExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, "", err
		}
	}

	for row, license := range licenses {
		paidAt := ""
		if license.PaidAt != nil {
			paidAt = license.PaidAt.Format(time.RFC3339)
		}
		values := []interface{}{
			license.Venue.Code,
			license.Venue.BusinessName,
			license.Venue.OwnerName,
			license.Venue.Email,
			license.Venue.Province,
			license.Venue.City,
			license.Tier,
			license.BasePrice,
			license.VAT,
			license.Fee,
			license.TotalPrice,
			license.OrderID,
			license.PaymentType,
			paidAt,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write xlsx: %w", err)
	}

	filename := fmt.Sprintf("licenses_%s.xlsx", time.Now().Format("20060102_150405"))
	logger.Info("License export generated", map[string]interface{}{
		"rows":     len(licenses),
		"filename": filename,
	})
	return buf, filename, nil
}
