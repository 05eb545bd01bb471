package bricklink

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vsinha/brickbuild/pkg/domain/entities"
)

type wantedDocument struct {
	XMLName xml.Name            `xml:"INVENTORY"`
	Items   []wantedItemElement `xml:"ITEM"`
}

type wantedItemElement struct {
	ItemID   string  `xml:"ITEMID"`
	ItemType string  `xml:"ITEMTYPE"`
	Color    string  `xml:"COLOR"`
	MinQty   *string `xml:"MINQTY"`
}

// ParseWantedList turns a wanted-list export into a build target named title.
// Lines without MINQTY need one unit; a part line without MINQTY marks the
// list as a loose-parts build, so only its parts limit and consume stock.
// Any malformed line rejects the whole list.
func ParseWantedList(title string, r io.Reader) (entities.BuildTarget, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return entities.BuildTarget{}, &entities.DataIntegrityError{Field: "target_id", Reason: "wanted list title cannot be empty"}
	}

	var doc wantedDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return entities.BuildTarget{}, fmt.Errorf("failed to decode wanted list %s: %w", title, err)
	}

	target := entities.BuildTarget{
		TargetID:   title,
		Components: make([]entities.Component, 0, len(doc.Items)),
	}

	for i, item := range doc.Items {
		record := fmt.Sprintf("wanted list %s line %d", title, i+1)

		comp, looseQty, err := item.toComponent()
		if err != nil {
			var integrity *entities.DataIntegrityError
			if errors.As(err, &integrity) {
				integrity.Record = record
			}
			return entities.BuildTarget{}, err
		}
		if looseQty && comp.ItemType.IsPart() {
			target.PartsOnly = true
		}
		target.Components = append(target.Components, *comp)
	}

	return target, nil
}

// LoadWantedLists parses every XML wanted list in dir, ordered by file name.
// Each file becomes one target titled by its base name. Rejected lists are
// reported in the joined error.
func LoadWantedLists(dir string) ([]entities.BuildTarget, error) {
	files, err := exportFiles(dir, ".xml", "")
	if err != nil {
		return nil, err
	}

	targets := make([]entities.BuildTarget, 0, len(files))
	var errs []error
	for _, path := range files {
		title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		target, err := parseWantedFile(title, path)
		if err != nil {
			errs = append(errs, &WantedListError{Title: title, Err: err})
			continue
		}
		targets = append(targets, target)
	}

	return targets, errors.Join(errs...)
}

// WantedListError names a wanted list that was dropped as a whole
type WantedListError struct {
	Title string
	Err   error
}

func (e *WantedListError) Error() string {
	return fmt.Sprintf("wanted list %s rejected: %v", e.Title, e.Err)
}

func (e *WantedListError) Unwrap() error {
	return e.Err
}

// RejectedWantedLists collects the lists reported in an error returned by
// LoadWantedLists
func RejectedWantedLists(err error) []*WantedListError {
	if err == nil {
		return nil
	}
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	var rejected []*WantedListError
	for _, e := range errs {
		var listErr *WantedListError
		if errors.As(e, &listErr) {
			rejected = append(rejected, listErr)
		}
	}
	return rejected
}

func parseWantedFile(title, path string) (entities.BuildTarget, error) {
	file, err := os.Open(path)
	if err != nil {
		return entities.BuildTarget{}, fmt.Errorf("failed to open wanted list %s: %w", path, err)
	}
	defer file.Close()

	return ParseWantedList(title, file)
}

// toComponent reports whether the quantity was defaulted
func (e wantedItemElement) toComponent() (*entities.Component, bool, error) {
	itemType, ok := entities.ParseItemType(e.ItemType)
	if !ok {
		return nil, false, &entities.DataIntegrityError{
			Field:  "item_type",
			Reason: fmt.Sprintf("unknown item type %q", strings.TrimSpace(e.ItemType)),
		}
	}

	qty := entities.Quantity(1)
	defaulted := e.MinQty == nil
	if !defaulted {
		raw := strings.TrimSpace(*e.MinQty)
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false, &entities.DataIntegrityError{Field: "min_qty", Reason: fmt.Sprintf("invalid quantity %q", raw)}
		}
		qty = entities.Quantity(parsed)
	}

	color := entities.NoColor
	if !itemType.IsAssembly() {
		color = entities.ParseColor(e.Color)
	}

	comp, err := entities.NewComponent(itemType, strings.TrimSpace(e.ItemID), color, qty)
	if err != nil {
		return nil, false, err
	}
	return comp, defaulted, nil
}
