package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"listforge/internal/types"
)

// ConditionIDs maps human-readable condition labels to marketplace
// condition codes. Unknown labels fall back to DefaultConditionID.
var ConditionIDs = map[string]string{
	"New":         "1000",
	"New (Other)": "1500",
	"Used":        "3000",
}

const (
	DefaultConditionID  = "3000"
	DefaultFormat       = "FixedPrice"
	DurationFixedPrice  = "GTC"
	DurationAuction     = "Days_7"
	DefaultQuantity     = "1"
	DefaultShippingType = "Flat"
	DefaultPostagePaid  = "Buyer"
)

// fixedSpecifics are the grading columns that are filled from dedicated seed
// fields rather than from scraped attributes. Order matters only for
// readability; each entry is schema-guarded.
var fixedSpecifics = []struct {
	column string
	seed   string
}{
	{"C:Card Condition", "CardCondition"},
	{"CD:Professional Grader - (ID: 27501)", "ProfessionalGrader"},
	{"CD:Grade - (ID: 27502)", "Grade"},
	{"CDA:Certification Number - (ID: 27503)", "CertNumber"},
}

// Reconcile merges a seed row, scraped listing data and rewritten text into
// one positional output row matching schema. Every column rule is guarded by
// the schema: a column absent from the template is simply never populated.
// The function is pure; neither seed nor scraped is modified.
func Reconcile(schema []string, seed types.SeedRow, scraped *types.ScrapedListing, title, description string) []string {
	row := make(map[string]string, len(schema))
	has := make(map[string]bool, len(schema))
	for _, h := range schema {
		row[h] = ""
		has[h] = true
	}

	for _, h := range schema {
		if strings.HasPrefix(h, "*Action(") {
			row[h] = "Add"
			break
		}
	}

	if has["CustomLabel"] {
		row["CustomLabel"] = seed.Get("CustomLabel")
	}
	if has["*Category"] {
		row["*Category"] = scraped.CategoryID
	}
	if has["*Title"] {
		row["*Title"] = title
	}
	if has["*ConditionID"] {
		row["*ConditionID"] = conditionID(seed.First("Condition", "ConditionOverride"))
	}
	if has["*Description"] {
		row["*Description"] = description
	}

	// Format is resolved once and drives the duration rule even when the
	// template has no *Format column.
	format := seed.First("FormatOverride")
	if format == "" {
		format = DefaultFormat
	}
	if has["*Format"] {
		row["*Format"] = format
	}
	if has["*Duration"] {
		if format == DefaultFormat {
			row["*Duration"] = DurationFixedPrice
		} else if d := seed.First("DurationOverride"); d != "" {
			row["*Duration"] = d
		} else {
			row["*Duration"] = DurationAuction
		}
	}

	if has["*StartPrice"] {
		if price, ok := resolvePrice(seed, scraped); ok {
			row["*StartPrice"] = fmt.Sprintf("%.2f", price)
		}
	}
	if has["*Quantity"] {
		qty := seed.First("Quantity", "QuantityOverride")
		if qty == "" {
			qty = DefaultQuantity
		}
		row["*Quantity"] = qty
	}

	if has["PictureURL"] {
		pic := seed.Get("PhotoURL")
		if pic == "" {
			pic = scraped.FirstImage()
		}
		row["PictureURL"] = pic
	}

	shipType := seed.First("ShippingType", "ShippingTypeOverride")
	if shipType == "" {
		shipType = DefaultShippingType
	}
	if has["ShippingType"] {
		row["ShippingType"] = shipType
	}
	if has["*Location"] {
		row["*Location"] = seed.Get("LocationOverride")
	}
	if shipType == DefaultShippingType {
		if has["ShippingService-1:Option"] {
			row["ShippingService-1:Option"] = seed.First("FlatService", "ShippingService1_Option")
		}
		if has["ShippingService-1:Cost"] {
			row["ShippingService-1:Cost"] = seed.First("FlatCost", "ShippingService1_Cost")
		}
	}

	if has["*ReturnsAcceptedOption"] {
		row["*ReturnsAcceptedOption"] = "ReturnsAccepted"
	}
	if has["ShippingCostPaidByOption"] {
		row["ShippingCostPaidByOption"] = seed.GetDefault("PostagePaidBy", DefaultPostagePaid)
	}

	for _, fs := range fixedSpecifics {
		if has[fs.column] {
			if v := seed.Get(fs.seed); v != "" {
				row[fs.column] = v
			}
		}
	}

	// Free-form item-specific columns are filled from scraped attributes,
	// but never overwrite a cell already populated above.
	for _, h := range schema {
		if !strings.HasPrefix(h, "C:") || row[h] != "" {
			continue
		}
		key := strings.TrimSpace(strings.TrimPrefix(h, "C:"))
		if v := scraped.ItemSpecifics[key]; v != "" {
			row[h] = v
		}
	}

	out := make([]string, len(schema))
	for i, h := range schema {
		out[i] = row[h]
	}
	return out
}

// conditionID resolves a seed condition label to a marketplace code.
func conditionID(label string) string {
	if id, ok := ConditionIDs[label]; ok {
		return id
	}
	return DefaultConditionID
}

// resolvePrice prefers an explicit seed price over the scraped one. A seed
// value that does not parse is ignored rather than erroring the row.
func resolvePrice(seed types.SeedRow, scraped *types.ScrapedListing) (float64, bool) {
	if raw := seed.First("Price", "PriceOverride"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v, true
		}
	}
	if scraped.HasPrice {
		return scraped.Price, true
	}
	return 0, false
}
