package services

import (
	"bytes"
	"context"
	"fmt"

	"fabtech_dashboard/internal/catalog"
	"fabtech_dashboard/internal/models"
	"fabtech_dashboard/internal/repository"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Measurements"

var exportHeaders = []string{
	"Design", "Variant", "Rate", "Quantity", "Amount",
	"Location", "Floor", "W1", "W2", "W3", "H1", "H2", "H3",
	"Granite", "Colour", "Lock", "Mosquito window", "Glass", "Note",
}

type ExportService interface {
	Measurements(ctx context.Context, customerID string) ([]byte, error)
}

type exportService struct {
	measurementRepo repository.MeasurementRepository
	logger          *zap.Logger
}

func NewExportService(measurementRepo repository.MeasurementRepository, logger *zap.Logger) ExportService {
	return &exportService{measurementRepo: measurementRepo, logger: logger}
}

// exportRate prefers the current price list; rows whose variant has since
// been withdrawn keep the rate they were saved with.
func exportRate(m models.Measurement) int {
	if rate, err := catalog.Rate(m.DesignSelection, m.DesignRef); err == nil {
		return rate
	}
	return m.DesignRate
}

// Measurements renders the customer's measurements as an xlsx workbook.
func (s *exportService) Measurements(ctx context.Context, customerID string) ([]byte, error) {
	measurements, err := s.measurementRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(exportHeaders))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, m := range measurements {
		rate := exportRate(m)
		row := []any{
			catalog.Label(m.DesignSelection), m.DesignRef, rate, m.Quantity, rate * m.Quantity,
			m.Location, m.FloorNumber, m.W1, m.W2, m.W3, m.H1, m.H2, m.H3,
			m.Granite, m.Colour, m.Lock, m.MosquitoWindow, m.Glass, m.Note,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "B", 28); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Measurements exported",
		zap.String("customer_id", customerID),
		zap.Int("rows", len(measurements)),
	)
	return buf.Bytes(), nil
}
