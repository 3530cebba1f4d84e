package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/config"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
)

// Repository defines the catalog read operations supported by the Google
// Sheets adapter.
type Repository interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// GoogleSheetRepository implements the Repository interface using the official
// Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	catalogRange  string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		catalogRange:  cfg.CatalogRange,
		logger:        logger,
	}, nil
}

// FetchProducts reads the catalog range and converts its rows into products.
// Rows without a SKU or with unparseable numbers are skipped, not fatal.
func (r *GoogleSheetRepository) FetchProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := r.ReadRange(ctx, r.catalogRange)
	if err != nil {
		return nil, err
	}

	products := parseRows(rows, r.logger)
	r.logger.Info("catalog fetched from sheet",
		zap.Int("rows", len(rows)),
		zap.Int("products", len(products)))
	return products, nil
}

// ReadRange fetches a rectangular data range from the spreadsheet.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	return resp.Values, nil
}

// Catalog columns, in sheet order.
const (
	colSKU = iota
	colName
	colBrand
	colCategory
	colMRP
	colCurrentPrice
	colCostPrice
	colDeliveryCost
	colStock
	colSales7
	colSales30
)

func parseRows(rows [][]interface{}, logger *zap.Logger) []models.Product {
	if logger == nil {
		logger = zap.NewNop()
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		sku := strings.TrimSpace(fmt.Sprint(cell(row, colSKU)))
		if sku == "" {
			continue
		}

		p := models.Product{
			SKU:      sku,
			Name:     strings.TrimSpace(fmt.Sprint(cell(row, colName))),
			Brand:    strings.TrimSpace(fmt.Sprint(cell(row, colBrand))),
			Category: strings.TrimSpace(fmt.Sprint(cell(row, colCategory))),
		}

		var err error
		if p.MRP, err = parseFloat(cell(row, colMRP)); err != nil {
			logger.Debug("skip catalog row with invalid mrp", zap.String("sku", sku), zap.Error(err))
			continue
		}
		if p.CurrentPrice, err = parseFloat(cell(row, colCurrentPrice)); err != nil {
			logger.Debug("skip catalog row with invalid price", zap.String("sku", sku), zap.Error(err))
			continue
		}
		if p.CostPrice, err = parseFloat(cell(row, colCostPrice)); err != nil {
			logger.Debug("skip catalog row with invalid cost", zap.String("sku", sku), zap.Error(err))
			continue
		}
		if p.DeliveryCost, err = parseFloat(cell(row, colDeliveryCost)); err != nil {
			logger.Debug("skip catalog row with invalid delivery cost", zap.String("sku", sku), zap.Error(err))
			continue
		}
		if p.Stock, err = parseInt(cell(row, colStock)); err != nil {
			logger.Debug("skip catalog row with invalid stock", zap.String("sku", sku), zap.Error(err))
			continue
		}
		if p.SalesLast7Days, err = parseInt(cell(row, colSales7)); err != nil {
			logger.Debug("skip catalog row with invalid 7d sales", zap.String("sku", sku), zap.Error(err))
			continue
		}
		if p.SalesLast30Days, err = parseInt(cell(row, colSales30)); err != nil {
			logger.Debug("skip catalog row with invalid 30d sales", zap.String("sku", sku), zap.Error(err))
			continue
		}

		products = append(products, p)
	}
	return products
}

func cell(row []interface{}, index int) interface{} {
	if index >= len(row) {
		return ""
	}
	return row[index]
}

// parseFloat reads a sheet cell as a number. Blank cells count as zero;
// currency symbols and thousands separators are tolerated.
func parseFloat(value interface{}) (float64, error) {
	str := strings.TrimSpace(fmt.Sprint(value))
	str = strings.TrimLeft(str, "£$€")
	str = strings.ReplaceAll(str, ",", "")
	if str == "" {
		return 0, nil
	}
	return strconv.ParseFloat(str, 64)
}

// parseInt reads a sheet cell as a whole number, tolerating float formatting.
func parseInt(value interface{}) (int, error) {
	str := strings.TrimSpace(fmt.Sprint(value))
	str = strings.ReplaceAll(str, ",", "")
	if str == "" {
		return 0, nil
	}
	if parsed, err := strconv.Atoi(str); err == nil {
		return parsed, nil
	}
	parsed, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, err
	}
	return int(parsed), nil
}
