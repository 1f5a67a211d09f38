package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"listforge/internal/storage"
	"listforge/internal/types"
)

// AllowedValues carries the enumerations a seed table is checked against.
type AllowedValues struct {
	ReturnsAccepted    []string          `json:"ReturnsAcceptedOverride"`
	ShippingType       []string          `json:"ShippingTypeOverride"`
	ShippingCostPaidBy []string          `json:"ShippingCostPaidByOverride"`
	ConditionToID      map[string]string `json:"ConditionOverride_to_ConditionID"`
}

// DefaultAllowedValues returns the built-in enumerations, used when no
// allowed-values file is supplied.
func DefaultAllowedValues() *AllowedValues {
	return &AllowedValues{
		ReturnsAccepted:    []string{"ReturnsAccepted", "ReturnsNotAccepted"},
		ShippingType:       []string{"Flat", "Calculated"},
		ShippingCostPaidBy: []string{"Buyer", "Seller"},
		ConditionToID: map[string]string{
			"New":         "1000",
			"New (Other)": "1500",
			"Used":        "3000",
		},
	}
}

// LoadAllowedValues reads an allowed-values JSON file.
func LoadAllowedValues(path string) (*AllowedValues, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read allowed values: %w", err)
	}
	var av AllowedValues
	if err := json.Unmarshal(data, &av); err != nil {
		return nil, fmt.Errorf("parse allowed values: %w", err)
	}
	return &av, nil
}

// Issue is one validation finding. Row 0 marks a file-level issue; data rows
// are numbered as in a spreadsheet, header included, so the first data row
// is 2.
type Issue struct {
	Row   int
	Field string
	Issue string
}

var returnsWithinPattern = regexp.MustCompile(`^Days_\d+$`)

// dimensionFields are required and must be numeric for Calculated shipping.
var dimensionFields = []string{
	"Weight_lbs", "Weight_oz", "Depth_in", "Length_in", "Width_in",
	"WeightMajor_lbs", "WeightMinor_oz", "PackageDepth_in", "PackageLength_in", "PackageWidth_in",
}

// Validate checks every seed row against the allowed values and the numeric
// and format constraints the bulk uploader enforces.
func Validate(rows []types.SeedRow, columns []string, allowed *AllowedValues) []Issue {
	var issues []Issue
	add := func(row int, field, msg string) {
		issues = append(issues, Issue{Row: row, Field: field, Issue: msg})
	}

	hasCol := make(map[string]bool, len(columns))
	for _, c := range columns {
		hasCol[c] = true
	}
	if !hasCol["URL"] {
		add(0, "URL", "Missing required column in seed file")
	}

	for idx, row := range rows {
		n := idx + 2

		if row.Get("URL") == "" {
			add(n, "URL", "URL is required")
		}

		if po := row.First("Price", "PriceOverride"); po != "" {
			v, err := strconv.ParseFloat(po, 64)
			if err != nil {
				add(n, "Price", "Must be numeric")
			} else if v <= 0 {
				add(n, "Price", "Must be > 0")
			}
		}

		if qo := row.First("Quantity", "QuantityOverride"); qo != "" {
			v, err := strconv.Atoi(qo)
			if err != nil || v < 0 {
				add(n, "Quantity", "Must be an integer >= 1")
			} else if v < 1 {
				add(n, "Quantity", "Must be >= 1")
			}
		}

		if sc := row.First("FlatCost", "ShippingService1_Cost"); sc != "" {
			v, err := strconv.ParseFloat(sc, 64)
			if err != nil {
				add(n, "FlatCost", "Must be numeric")
			} else if v < 0 {
				add(n, "FlatCost", "Must be >= 0")
			}
		}

		if rw := row.Get("ReturnsWithinOverride"); rw != "" && !returnsWithinPattern.MatchString(rw) {
			add(n, "ReturnsWithinOverride", "Use format Days_30, Days_60, etc.")
		}

		checkEnum(add, n, "ReturnsAcceptedOverride", row.Get("ReturnsAcceptedOverride"), allowed.ReturnsAccepted)
		checkEnum(add, n, "ShippingType", row.Get("ShippingType"), allowed.ShippingType)
		checkEnum(add, n, "ShippingCostPaidByOverride", row.Get("ShippingCostPaidByOverride"), allowed.ShippingCostPaidBy)

		if row.Get("ShippingType") == "Calculated" {
			for _, f := range dimensionFields {
				if !hasCol[f] {
					continue
				}
				v := row.Get(f)
				if v == "" {
					add(n, f, "Required for Calculated shipping")
					continue
				}
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					add(n, f, "Must be numeric")
				}
			}
		}

		if cond := row.First("Condition", "ConditionOverride"); cond != "" {
			if _, ok := allowed.ConditionToID[cond]; !ok {
				add(n, "Condition", fmt.Sprintf("Unknown condition '%s'. Allowed: %s",
					cond, strings.Join(conditionLabels(allowed), ", ")))
			}
		}
	}

	return issues
}

func checkEnum(add func(int, string, string), row int, field, val string, allowed []string) {
	if val == "" {
		return
	}
	for _, a := range allowed {
		if val == a {
			return
		}
	}
	add(row, field, fmt.Sprintf("Value '%s' not in allowed: %v", val, allowed))
}

func conditionLabels(allowed *AllowedValues) []string {
	labels := make([]string, 0, len(allowed.ConditionToID))
	for k := range allowed.ConditionToID {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// WriteReport writes the validation findings as a CSV report.
func WriteReport(path string, issues []Issue) error {
	rows := make([][]string, 0, len(issues))
	for _, is := range issues {
		rows = append(rows, []string{strconv.Itoa(is.Row), is.Field, is.Issue})
	}
	return storage.WriteCSV(path, []string{"row", "field", "issue"}, rows)
}
