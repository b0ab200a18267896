package catalog

import (
	"strconv"
	"strings"

	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/pkg/util"
)

// skuPrefix is the prefix used for generated product codes
const skuPrefix = "FM"

// Editor tabs. Validation errors report the tab owning the failing
// field so the dashboard can focus it.
const (
	TabBasicInfo = iota
	TabPricing
	TabInventory
	TabImages
	TabAttributes
	TabDescription
)

// AttributeRow is one free-form key/value row of the attribute editor.
// Rows keep their entry order; empty keys are dropped at persistence
// time and later duplicate keys overwrite earlier ones.
type AttributeRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProductDraft is the in-memory aggregate behind the product editor.
// Currency fields hold the formatted display strings the author typed;
// raw numeric values only exist on the persisted record.
type ProductDraft struct {
	ID          uint   `json:"id"` // zero while creating
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  *uint  `json:"category_id"`

	Status model.ProductStatus `json:"status"`
	SKU    string              `json:"sku"`
	Tags   []string            `json:"tags"`

	Price           string `json:"price"`
	CompareAtPrice  string `json:"compare_at_price"`
	DiscountedPrice string `json:"discounted_price"`

	TrackInventory bool              `json:"track_inventory"`
	StockQuantity  *int              `json:"stock_quantity"`
	StockStatus    model.StockStatus `json:"stock_status"`

	Weight     string `json:"weight"`
	WeightUnit string `json:"weight_unit"`

	Attributes []AttributeRow `json:"attributes"`

	ImageURL string `json:"image_url"` // existing primary image (edit mode)
}

// NewDraft returns an empty draft with the editor defaults
func NewDraft() *ProductDraft {
	return &ProductDraft{
		Status:         model.StatusPublished,
		StockStatus:    model.StockInStock,
		TrackInventory: true,
		WeightUnit:     model.WeightUnits[0],
	}
}

// DraftFromProduct pre-populates a draft from a persisted product for
// edit mode
func DraftFromProduct(p *model.Product) *ProductDraft {
	draft := &ProductDraft{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		CategoryID:     p.CategoryID,
		Status:         p.Status,
		SKU:            p.SKU,
		Tags:           append([]string(nil), p.Tags...),
		Price:          util.FormatCurrencyInput(strconv.FormatFloat(p.Price, 'f', -1, 64)),
		TrackInventory: p.TracksInventory(),
		StockStatus:    p.StockStatus,
		WeightUnit:     p.WeightUnit,
		ImageURL:       p.ImageURL,
	}

	if p.CompareAtPrice != nil {
		draft.CompareAtPrice = util.FormatCurrencyInput(strconv.FormatFloat(*p.CompareAtPrice, 'f', -1, 64))
	}
	if p.DiscountedPrice != nil {
		draft.DiscountedPrice = util.FormatCurrencyInput(strconv.FormatFloat(*p.DiscountedPrice, 'f', -1, 64))
	}
	if p.StockQuantity != nil {
		qty := *p.StockQuantity
		draft.StockQuantity = &qty
	}
	if p.Weight != nil {
		draft.Weight = strconv.FormatFloat(*p.Weight, 'f', -1, 64)
	}
	if draft.Status == "" {
		draft.Status = model.StatusPublished
	}
	if draft.StockStatus == "" {
		draft.StockStatus = model.StockInStock
	}
	if draft.WeightUnit == "" {
		draft.WeightUnit = model.WeightUnits[0]
	}

	for key, value := range p.Attributes {
		draft.Attributes = append(draft.Attributes, AttributeRow{Key: key, Value: value})
	}

	return draft
}

// AddTags splits raw comma-separated input and unions the result into
// the tag set, preserving first-occurrence order
func (d *ProductDraft) AddTags(raw string) {
	for _, tag := range util.SplitTags(raw) {
		if !d.hasTag(tag) {
			d.Tags = append(d.Tags, tag)
		}
	}
}

// RemoveTag drops one tag; unknown tags are a no-op
func (d *ProductDraft) RemoveTag(tag string) {
	for i, t := range d.Tags {
		if t == tag {
			d.Tags = append(d.Tags[:i], d.Tags[i+1:]...)
			return
		}
	}
}

func (d *ProductDraft) hasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate checks the draft before anything is written. An empty map
// means valid. Attribute and tag contents are accepted as-is; SKU and
// category references are not checked against the database.
func (d *ProductDraft) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = "Name is required"
	}
	if d.Price == "" || util.ParseCurrency(d.Price) <= 0 {
		errs["price"] = "Price must be a number greater than zero"
	}
	if d.TrackInventory && (d.StockQuantity == nil || *d.StockQuantity < 0) {
		errs["stock_quantity"] = "Enter a valid quantity"
	}

	return errs
}

// FieldTab maps a field name to the editor tab that owns it
func FieldTab(field string) int {
	switch field {
	case "price", "compare_at_price", "discounted_price":
		return TabPricing
	case "stock_quantity", "stock_status", "weight", "weight_unit":
		return TabInventory
	case "description":
		return TabDescription
	default:
		return TabBasicInfo
	}
}

// FirstErrorTab returns the lowest tab that holds a failing field, so
// the editor can focus where the author needs to look first
func FirstErrorTab(fieldErrors map[string]string) int {
	tab := -1
	for field := range fieldErrors {
		t := FieldTab(field)
		if tab == -1 || t < tab {
			tab = t
		}
	}
	if tab == -1 {
		return TabBasicInfo
	}
	return tab
}

// BuildRecord constructs the canonical persisted payload from the
// draft: trimmed name, parsed currency values, generated SKU when
// blank, attribute rows collapsed into a map with empty keys dropped,
// and quantity nulled out when inventory tracking is off.
func (d *ProductDraft) BuildRecord(storeID uint) *model.Product {
	record := &model.Product{
		ID:          d.ID,
		StoreID:     storeID,
		CategoryID:  d.CategoryID,
		Name:        strings.TrimSpace(d.Name),
		Description: d.Description,
		Status:      d.Status,
		SKU:         d.SKU,
		Price:       parseDisplayCurrency(d.Price),
		StockStatus: d.StockStatus,
		ImageURL:    d.ImageURL,
	}

	if record.Status == "" {
		record.Status = model.StatusPublished
	}
	if record.StockStatus == "" {
		record.StockStatus = model.StockInStock
	}
	if record.SKU == "" {
		record.SKU = util.GenerateCode(skuPrefix)
	}

	if v := parseDisplayCurrency(d.CompareAtPrice); v > 0 {
		record.CompareAtPrice = &v
	}
	if v := parseDisplayCurrency(d.DiscountedPrice); v > 0 {
		record.DiscountedPrice = &v
	}

	if d.Weight != "" {
		if w, err := strconv.ParseFloat(d.Weight, 64); err == nil && w > 0 {
			record.Weight = &w
			if model.IsValidWeightUnit(d.WeightUnit) {
				record.WeightUnit = d.WeightUnit
			} else {
				record.WeightUnit = model.WeightUnits[0]
			}
		}
	}

	if d.TrackInventory {
		qty := 0
		if d.StockQuantity != nil {
			qty = *d.StockQuantity
		}
		record.StockQuantity = &qty
	}

	if len(d.Tags) > 0 {
		seen := make(map[string]bool, len(d.Tags))
		for _, tag := range d.Tags {
			if !seen[tag] {
				seen[tag] = true
				record.Tags = append(record.Tags, tag)
			}
		}
	}

	attrs := make(model.StringMap)
	for _, row := range d.Attributes {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			continue
		}
		attrs[key] = row.Value
	}
	if len(attrs) > 0 {
		record.Attributes = attrs
	}

	return record
}

// parseDisplayCurrency canonicalizes raw input through the display
// formatter before parsing, so over-long fractions are truncated the
// same way the editor truncates them on each keystroke
func parseDisplayCurrency(raw string) float64 {
	return util.ParseCurrency(util.FormatCurrencyInput(raw))
}
