package types

import (
	"reflect"
	"testing"
)

func TestScrapedListingDefaults(t *testing.T) {
	l := NewScrapedListing()
	if l.Title != "" || l.HasPrice || l.CategoryID != "" {
		t.Errorf("non-empty defaults: %+v", l)
	}
	if l.Images == nil || l.ItemSpecifics == nil {
		t.Error("collections must be initialized")
	}
	if l.FirstImage() != "" {
		t.Errorf("FirstImage on empty listing = %q", l.FirstImage())
	}
}

func TestAddImageDedupesFirstSeen(t *testing.T) {
	l := NewScrapedListing()
	l.AddImage("http://img/1.jpg")
	l.AddImage("http://img/2.jpg")
	l.AddImage("http://img/1.jpg")

	want := []string{"http://img/1.jpg", "http://img/2.jpg"}
	if !reflect.DeepEqual(l.Images, want) {
		t.Errorf("Images = %v, want %v", l.Images, want)
	}
	if l.FirstImage() != "http://img/1.jpg" {
		t.Errorf("FirstImage = %q", l.FirstImage())
	}
}

func TestSetSpecific(t *testing.T) {
	l := NewScrapedListing()
	l.SetSpecific(" Brand: ", " WotC ")
	l.SetSpecific("Brand", "Wizards")
	l.SetSpecific("", "dropped")
	l.SetSpecific("Empty", "  ")

	if len(l.ItemSpecifics) != 1 {
		t.Errorf("ItemSpecifics = %v", l.ItemSpecifics)
	}
	if l.ItemSpecifics["Brand"] != "Wizards" {
		t.Errorf("Brand = %q, want last write", l.ItemSpecifics["Brand"])
	}
}

func TestSeedRowAccessors(t *testing.T) {
	row := SeedRow{"URL": " http://x/1 ", "Empty": "", "Price": "", "PriceOverride": "9.99"}

	if row.URL() != "http://x/1" {
		t.Errorf("URL = %q", row.URL())
	}
	if row.Get("Missing") != "" {
		t.Errorf("Get(Missing) = %q", row.Get("Missing"))
	}
	if row.First("Price", "PriceOverride") != "9.99" {
		t.Errorf("First = %q", row.First("Price", "PriceOverride"))
	}

	// A present-but-empty column suppresses the default; an absent one
	// does not.
	if row.GetDefault("Empty", "fallback") != "" {
		t.Error("present-but-empty column returned the default")
	}
	if row.GetDefault("Missing", "fallback") != "fallback" {
		t.Error("absent column did not return the default")
	}
}

func TestPreviewRowValues(t *testing.T) {
	p := PreviewRow{
		URL:            "http://x/1",
		TitleScraped:   "ab",
		TitleOptimized: "abcd",
	}
	vals := p.Values()
	if len(vals) != len(PreviewColumns) {
		t.Fatalf("values = %d columns, header = %d", len(vals), len(PreviewColumns))
	}
	if vals[3] != "2" || vals[4] != "4" {
		t.Errorf("title lengths = %q / %q", vals[3], vals[4])
	}
}
