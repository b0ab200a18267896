package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filemart/filemart-backend/internal/app/model"
)

func validDraft() *ProductDraft {
	d := NewDraft()
	d.Name = "Ceramic Mug"
	d.Price = "12,500"
	qty := 3
	d.StockQuantity = &qty
	return d
}

func TestProductDraft_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*ProductDraft)
		wantFields []string
	}{
		{
			name:       "Valid draft",
			mutate:     func(d *ProductDraft) {},
			wantFields: nil,
		},
		{
			name:       "Blank name",
			mutate:     func(d *ProductDraft) { d.Name = "   " },
			wantFields: []string{"name"},
		},
		{
			name:       "Missing price",
			mutate:     func(d *ProductDraft) { d.Price = "" },
			wantFields: []string{"price"},
		},
		{
			name:       "Non-numeric price parses to zero",
			mutate:     func(d *ProductDraft) { d.Price = "abc" },
			wantFields: []string{"price"},
		},
		{
			name: "Tracking on without quantity",
			mutate: func(d *ProductDraft) {
				d.TrackInventory = true
				d.StockQuantity = nil
			},
			wantFields: []string{"stock_quantity"},
		},
		{
			name: "Tracking off ignores quantity",
			mutate: func(d *ProductDraft) {
				d.TrackInventory = false
				d.StockQuantity = nil
			},
			wantFields: nil,
		},
		{
			name: "Negative quantity",
			mutate: func(d *ProductDraft) {
				qty := -1
				d.StockQuantity = &qty
			},
			wantFields: []string{"stock_quantity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(draft)

			errs := draft.Validate()
			assert.Len(t, errs, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, errs, field)
			}
		})
	}
}

func TestFirstErrorTab(t *testing.T) {
	assert.Equal(t, TabBasicInfo, FirstErrorTab(map[string]string{"name": "required"}))
	assert.Equal(t, TabPricing, FirstErrorTab(map[string]string{"price": "required"}))
	assert.Equal(t, TabInventory, FirstErrorTab(map[string]string{"stock_quantity": "required"}))

	// Lowest tab wins when several fields fail
	assert.Equal(t, TabBasicInfo, FirstErrorTab(map[string]string{
		"price": "required",
		"name":  "required",
	}))
	assert.Equal(t, TabPricing, FirstErrorTab(map[string]string{
		"stock_quantity": "required",
		"price":          "required",
	}))

	assert.Equal(t, TabBasicInfo, FirstErrorTab(nil))
}

func TestProductDraft_BuildRecord(t *testing.T) {
	draft := validDraft()
	draft.Name = "  Ceramic Mug  "
	draft.Price = "12,500.509"
	draft.CompareAtPrice = "15,000"
	draft.DiscountedPrice = ""
	draft.Tags = []string{"kitchen", "ceramic", "kitchen"}
	draft.Attributes = []AttributeRow{
		{Key: " color ", Value: "blue"},
		{Key: "", Value: "ignored"},
		{Key: "color", Value: "navy"},
		{Key: "size", Value: "M"},
	}
	draft.Weight = "350"
	draft.WeightUnit = "g"

	record := draft.BuildRecord(7)

	assert.Equal(t, uint(7), record.StoreID)
	assert.Equal(t, "Ceramic Mug", record.Name)
	assert.InDelta(t, 12500.50, record.Price, 0.001)
	require.NotNil(t, record.CompareAtPrice)
	assert.InDelta(t, 15000, *record.CompareAtPrice, 0.001)
	assert.Nil(t, record.DiscountedPrice)

	// Duplicate tags collapse, order preserved
	assert.Equal(t, model.StringArray{"kitchen", "ceramic"}, record.Tags)

	// Empty attribute keys dropped, later duplicates overwrite
	assert.Equal(t, "navy", record.Attributes["color"])
	assert.Equal(t, "M", record.Attributes["size"])
	assert.Len(t, record.Attributes, 2)

	require.NotNil(t, record.Weight)
	assert.InDelta(t, 350, *record.Weight, 0.001)
	assert.Equal(t, "g", record.WeightUnit)

	require.NotNil(t, record.StockQuantity)
	assert.Equal(t, 3, *record.StockQuantity)
}

func TestProductDraft_BuildRecord_GeneratesSKU(t *testing.T) {
	draft := validDraft()
	draft.SKU = ""

	record := draft.BuildRecord(1)
	assert.True(t, strings.HasPrefix(record.SKU, "FM-"))
	assert.Len(t, record.SKU, len("FM-")+6)

	// Explicit SKU is kept as-is
	draft.SKU = "CUSTOM-1"
	record = draft.BuildRecord(1)
	assert.Equal(t, "CUSTOM-1", record.SKU)
}

func TestProductDraft_BuildRecord_UntrackedInventory(t *testing.T) {
	draft := validDraft()
	draft.TrackInventory = false
	qty := 42
	draft.StockQuantity = &qty

	record := draft.BuildRecord(1)
	assert.Nil(t, record.StockQuantity, "quantity must not persist when tracking is off")
}

func TestProductDraft_Tags(t *testing.T) {
	draft := NewDraft()
	draft.AddTags("kitchen, ceramic ,, kitchen")
	assert.Equal(t, []string{"kitchen", "ceramic"}, draft.Tags)

	draft.AddTags("ceramic, handmade")
	assert.Equal(t, []string{"kitchen", "ceramic", "handmade"}, draft.Tags)

	draft.RemoveTag("ceramic")
	assert.Equal(t, []string{"kitchen", "handmade"}, draft.Tags)

	draft.RemoveTag("missing")
	assert.Equal(t, []string{"kitchen", "handmade"}, draft.Tags)
}

func TestDraftFromProduct_RoundTrip(t *testing.T) {
	compareAt := 15000.0
	weight := 350.0
	qty := 3
	categoryID := uint(4)

	original := &model.Product{
		ID:             9,
		StoreID:        7,
		CategoryID:     &categoryID,
		Name:           "Ceramic Mug",
		Description:    "Hand thrown",
		Status:         model.StatusPublished,
		SKU:            "FM-AB12CD",
		Tags:           model.StringArray{"kitchen", "ceramic"},
		Price:          12500,
		CompareAtPrice: &compareAt,
		Weight:         &weight,
		WeightUnit:     "g",
		StockQuantity:  &qty,
		StockStatus:    model.StockInStock,
		Attributes:     model.StringMap{"color": "navy"},
		ImageURL:       "https://cdn.example.com/products/7/1.png",
	}

	draft := DraftFromProduct(original)
	assert.Equal(t, "12,500", draft.Price)
	assert.Equal(t, "15,000", draft.CompareAtPrice)
	assert.True(t, draft.TrackInventory)

	// Saving an untouched draft reproduces every field
	record := draft.BuildRecord(original.StoreID)
	assert.Equal(t, original.Name, record.Name)
	assert.Equal(t, original.SKU, record.SKU)
	assert.Equal(t, original.Description, record.Description)
	assert.Equal(t, original.CategoryID, record.CategoryID)
	assert.Equal(t, original.Tags, record.Tags)
	assert.InDelta(t, original.Price, record.Price, 0.001)
	require.NotNil(t, record.CompareAtPrice)
	assert.InDelta(t, *original.CompareAtPrice, *record.CompareAtPrice, 0.001)
	require.NotNil(t, record.Weight)
	assert.InDelta(t, *original.Weight, *record.Weight, 0.001)
	require.NotNil(t, record.StockQuantity)
	assert.Equal(t, *original.StockQuantity, *record.StockQuantity)
	assert.Equal(t, original.Attributes, record.Attributes)
	assert.Equal(t, original.ImageURL, record.ImageURL)
}
