package bricklink

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vsinha/brickbuild/pkg/domain/entities"
)

// MergedOrdersFile is the canonical export written after merging batches.
// When present in a directory it shadows every other XML export.
const MergedOrdersFile = "orders.xml"

type ordersDocument struct {
	XMLName xml.Name       `xml:"ORDERS"`
	Orders  []orderElement `xml:"ORDER"`
}

type orderElement struct {
	OrderID        string        `xml:"ORDERID"`
	OrderDate      string        `xml:"ORDERDATE"`
	Seller         string        `xml:"SELLER"`
	OrderTotal     string        `xml:"ORDERTOTAL"`
	BaseGrandTotal string        `xml:"BASEGRANDTOTAL"`
	Shipping       string        `xml:"ORDERSHIPPING"`
	AddCharge1     string        `xml:"ORDERADDCHRG1"`
	AddCharge2     string        `xml:"ORDERADDCHRG2"`
	Items          []itemElement `xml:"ITEM"`
}

type itemElement struct {
	ItemID      string `xml:"ITEMID"`
	ItemType    string `xml:"ITEMTYPE"`
	Color       string `xml:"COLOR"`
	Qty         string `xml:"QTY"`
	Price       string `xml:"PRICE"`
	Condition   string `xml:"CONDITION"`
	Description string `xml:"DESCRIPTION"`
}

// ParseOrders decodes an order export. Orders with malformed numeric fields
// are skipped and reported in the joined error; the rest are returned.
func ParseOrders(r io.Reader) ([]entities.Order, error) {
	var doc ordersDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode orders XML: %w", err)
	}

	orders := make([]entities.Order, 0, len(doc.Orders))
	var errs []error
	for i, elem := range doc.Orders {
		order, err := elem.toOrder()
		if err != nil {
			errs = append(errs, fmt.Errorf("order %d (%s): %w", i+1, strings.TrimSpace(elem.OrderID), err))
			continue
		}
		orders = append(orders, order)
	}

	return orders, errors.Join(errs...)
}

// LoadOrders reads every XML export in dir. If the merged export exists only
// that file is read.
func LoadOrders(dir string) ([]entities.Order, error) {
	files, err := exportFiles(dir, ".xml", MergedOrdersFile)
	if err != nil {
		return nil, err
	}

	var orders []entities.Order
	var errs []error
	for _, path := range files {
		parsed, err := parseOrdersFile(path)
		if err != nil {
			errs = append(errs, err)
		}
		orders = append(orders, parsed...)
	}

	return orders, errors.Join(errs...)
}

func parseOrdersFile(path string) ([]entities.Order, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open orders file %s: %w", path, err)
	}
	defer file.Close()

	orders, err := ParseOrders(file)
	if err != nil {
		return orders, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return orders, nil
}

// exportFiles lists files with ext in dir sorted by name. A present merged
// file replaces the listing.
func exportFiles(dir, ext, merged string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		if merged != "" && entry.Name() == merged {
			return []string{filepath.Join(dir, merged)}, nil
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(files)
	return files, nil
}

func (e orderElement) toOrder() (entities.Order, error) {
	orderTotal, err := parseAmount("ORDERTOTAL", e.OrderTotal)
	if err != nil {
		return entities.Order{}, err
	}
	grandTotal, err := parseAmount("BASEGRANDTOTAL", e.BaseGrandTotal)
	if err != nil {
		return entities.Order{}, err
	}
	shipping, err := parseAmount("ORDERSHIPPING", e.Shipping)
	if err != nil {
		return entities.Order{}, err
	}
	charge1, err := parseAmount("ORDERADDCHRG1", e.AddCharge1)
	if err != nil {
		return entities.Order{}, err
	}
	charge2, err := parseAmount("ORDERADDCHRG2", e.AddCharge2)
	if err != nil {
		return entities.Order{}, err
	}

	// A grand total already folds in every order-level charge, so the
	// remainder beyond shipping is carried as additional charges.
	additional := charge1.Add(charge2)
	if strings.TrimSpace(e.BaseGrandTotal) != "" {
		additional = grandTotal.Sub(orderTotal).Sub(shipping)
	}

	order := entities.Order{
		OrderID:           strings.TrimSpace(e.OrderID),
		OrderDate:         ParseOrderDate(e.OrderDate),
		Seller:            strings.TrimSpace(e.Seller),
		Shipping:          shipping,
		AdditionalCharges: additional,
		Lines:             make([]entities.OrderLine, 0, len(e.Items)),
	}

	for i, item := range e.Items {
		line, err := item.toLine()
		if err != nil {
			return entities.Order{}, fmt.Errorf("item %d: %w", i+1, err)
		}
		order.Lines = append(order.Lines, line)
	}

	return order, nil
}

func (e itemElement) toLine() (entities.OrderLine, error) {
	qty, err := parseQuantity("QTY", e.Qty)
	if err != nil {
		return entities.OrderLine{}, err
	}
	price, err := parseAmount("PRICE", e.Price)
	if err != nil {
		return entities.OrderLine{}, err
	}

	// unknown type codes stay unknown and are rejected at ingestion
	itemType, _ := entities.ParseItemType(e.ItemType)

	return entities.OrderLine{
		ItemID:      strings.TrimSpace(e.ItemID),
		ItemType:    itemType,
		Color:       entities.ParseColor(e.Color),
		Quantity:    qty,
		UnitPrice:   price,
		Condition:   strings.TrimSpace(e.Condition),
		Description: strings.TrimSpace(e.Description),
	}, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &entities.DataIntegrityError{Field: field, Reason: fmt.Sprintf("invalid amount %q", raw)}
	}
	return amount, nil
}

func parseQuantity(field, raw string) (entities.Quantity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	qty, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &entities.DataIntegrityError{Field: field, Reason: fmt.Sprintf("invalid quantity %q", raw)}
	}
	return entities.Quantity(qty), nil
}
