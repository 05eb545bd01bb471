package bricklink

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vsinha/brickbuild/pkg/domain/entities"
)

var orderDateLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// ParseOrderDate accepts the date layouts found in marketplace exports.
// Unrecognised or blank input yields the zero time.
func ParseOrderDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// MergeOrders combines export batches into one list with a single entry per
// order id. When an id repeats, the copy with the later order date wins and
// equal dates keep the first copy seen. Orders without an id cannot be
// matched and are all kept. The result is sorted newest first, ties broken
// by order id descending; undated orders sort last.
func MergeOrders(batches ...[]entities.Order) []entities.Order {
	return mergeByID(batches, func(o entities.Order) (string, time.Time) {
		return o.OrderID, o.OrderDate
	})
}

// RawOrder is an ORDER element kept byte for byte. Only the id and date are
// read, so orders with malformed fields still merge and are reported when
// the merged file is parsed.
type RawOrder struct {
	OrderID   string
	OrderDate time.Time
	InnerXML  string
}

type rawOrdersDocument struct {
	XMLName xml.Name          `xml:"ORDERS"`
	Orders  []rawOrderElement `xml:"ORDER"`
}

type rawOrderElement struct {
	OrderID   string `xml:"ORDERID"`
	OrderDate string `xml:"ORDERDATE"`
	Inner     string `xml:",innerxml"`
}

type rawOrderOutput struct {
	XMLName xml.Name `xml:"ORDER"`
	Inner   string   `xml:",innerxml"`
}

type rawOrdersOutput struct {
	XMLName xml.Name `xml:"ORDERS"`
	Orders  []rawOrderOutput
}

// ParseRawOrders reads the ORDER elements of an export without interpreting
// their fields
func ParseRawOrders(r io.Reader) ([]RawOrder, error) {
	var doc rawOrdersDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode orders XML: %w", err)
	}

	orders := make([]RawOrder, 0, len(doc.Orders))
	for _, elem := range doc.Orders {
		orders = append(orders, RawOrder{
			OrderID:   strings.TrimSpace(elem.OrderID),
			OrderDate: ParseOrderDate(elem.OrderDate),
			InnerXML:  elem.Inner,
		})
	}
	return orders, nil
}

// LoadRawOrderBatches reads every XML export in dir except the merged file,
// one batch per file in file name order. Unreadable files are reported in
// the joined error.
func LoadRawOrderBatches(dir string) ([][]RawOrder, error) {
	files, err := exportFiles(dir, ".xml", "")
	if err != nil {
		return nil, err
	}

	var batches [][]RawOrder
	var errs []error
	for _, path := range files {
		if filepath.Base(path) == MergedOrdersFile {
			continue
		}
		orders, err := parseRawOrdersFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(orders) > 0 {
			batches = append(batches, orders)
		}
	}

	return batches, errors.Join(errs...)
}

func parseRawOrdersFile(path string) ([]RawOrder, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open orders file %s: %w", path, err)
	}
	defer file.Close()

	orders, err := ParseRawOrders(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return orders, nil
}

// MergeRawOrders merges raw order elements with the same rules as MergeOrders
func MergeRawOrders(batches ...[]RawOrder) []RawOrder {
	return mergeByID(batches, func(o RawOrder) (string, time.Time) {
		return o.OrderID, o.OrderDate
	})
}

// WriteRawOrders writes orders as an export with each element's content
// unchanged
func WriteRawOrders(w io.Writer, orders []RawOrder) error {
	doc := rawOrdersOutput{Orders: make([]rawOrderOutput, 0, len(orders))}
	for _, order := range orders {
		doc.Orders = append(doc.Orders, rawOrderOutput{Inner: order.InnerXML})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if err := xml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode orders XML: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

type datedEntry[T any] struct {
	item T
	id   string
	date time.Time
}

func mergeByID[T any](batches [][]T, identify func(T) (string, time.Time)) []T {
	var entries []datedEntry[T]
	index := make(map[string]int)

	for _, batch := range batches {
		for _, item := range batch {
			id, date := identify(item)
			entry := datedEntry[T]{item: item, id: id, date: date}
			if id == "" {
				entries = append(entries, entry)
				continue
			}
			if i, ok := index[id]; ok {
				if date.After(entries[i].date) {
					entries[i] = entry
				}
				continue
			}
			index[id] = len(entries)
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].date.Equal(entries[j].date) {
			return entries[i].date.After(entries[j].date)
		}
		return entries[i].id > entries[j].id
	})

	merged := make([]T, len(entries))
	for i, entry := range entries {
		merged[i] = entry.item
	}
	return merged
}
