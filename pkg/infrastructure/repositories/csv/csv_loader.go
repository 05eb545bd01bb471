package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// MergedOrdersFile is the canonical order CSV written after merging batches.
// When present it shadows every other CSV export in the directory.
const MergedOrdersFile = "orders.csv"

// Loader handles loading catalog descriptions and sale prices from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDescriptions reads catalog descriptions from every order CSV export in
// dir. The first non-empty description seen for an item id wins.
func (l *Loader) LoadDescriptions(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		if entry.Name() == MergedOrdersFile {
			files = []string{entry.Name()}
			break
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	descriptions := make(map[string]string)
	for _, name := range files {
		file, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to open orders file %s: %w", name, err)
		}
		err = l.ReadDescriptions(file, descriptions)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("orders CSV %s: %w", name, err)
		}
	}

	return descriptions, nil
}

// ReadDescriptions adds descriptions from one order CSV export to into,
// keeping entries already present. Order header rows carry no item number
// and are skipped.
func (l *Loader) ReadDescriptions(r io.Reader, into map[string]string) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	itemCol := columnIndex(header, "item number")
	descCol := columnIndex(header, "item description")
	if itemCol < 0 || descCol < 0 {
		return fmt.Errorf("header must contain 'Item Number' and 'Item Description', got %v", header)
	}

	for row := 2; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		if itemCol >= len(record) || descCol >= len(record) {
			continue
		}

		itemID := strings.TrimSpace(record[itemCol])
		desc := strings.TrimSpace(record[descCol])
		if itemID == "" || desc == "" {
			continue
		}
		if _, exists := into[itemID]; !exists {
			into[itemID] = desc
		}
	}
}

// LoadPrices loads per-target sale prices from a target_id,price CSV
func (l *Loader) LoadPrices(filename string) (map[string]decimal.Decimal, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open prices file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read prices CSV: %w", err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("prices CSV must have a header row")
	}

	expectedHeader := []string{"target_id", "price"}
	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("prices CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
	}

	prices := make(map[string]decimal.Decimal, len(records)-1)
	for i, record := range records[1:] {
		targetID := strings.TrimSpace(record[0])
		if targetID == "" {
			return nil, fmt.Errorf("prices CSV row %d: target_id cannot be empty", i+2)
		}

		price, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("prices CSV row %d: invalid price: %s", i+2, record[1])
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("prices CSV row %d: price cannot be negative, got %s", i+2, price)
		}

		prices[targetID] = price
	}

	return prices, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if normalizeColumn(actual[i]) != col {
			return false
		}
	}

	return true
}

func columnIndex(header []string, name string) int {
	for i, col := range header {
		if normalizeColumn(col) == name {
			return i
		}
	}
	return -1
}

func normalizeColumn(col string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
}
