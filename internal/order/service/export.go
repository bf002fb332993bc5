package service

import (
	"context"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Orders"

var exportHeader = []any{
	"Order ID", "Date", "Product", "Quantity", "Unit Price", "Total",
	"Consumer", "Email", "Mobile", "Address", "Payment",
}

// ExportByFarmer renders the farmer's orders as a single sheet workbook.
func (s *Service) ExportByFarmer(ctx context.Context, farmerID string) ([]byte, error) {
	items, err := s.farmerOrders(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", "K1", bold); err != nil {
		return nil, err
	}

	for i, o := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			o.ID.String(),
			o.Date.UTC().Format("2006-01-02 15:04"),
			o.ProductName,
			o.Quantity.InexactFloat64(),
			o.UnitPrice.InexactFloat64(),
			o.TotalPrice.InexactFloat64(),
			o.ConsumerName,
			o.ConsumerEmail,
			o.ConsumerMobile,
			o.Address,
			o.PaymentMethod,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "K", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	s.log.Debug("orders exported", zap.String("farmer_id", farmerID), zap.Int("rows", len(items)))
	return buf.Bytes(), nil
}
