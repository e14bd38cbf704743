package entities

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func sampleDocument() Document {
	one := 1
	return Document{
		Sections: []Section{
			{ID: "s1", Name: "Dairy", Order: &one, Collapse: true},
			{ID: "s2", Name: "Misc"}, // no order on purpose
		},
		Products: []Product{
			{ID: "p1", Name: "Milk", Section: "s1", Icon: "milk", Image: "/img/milk.png", Created: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		},
		MainCart: MainCart{Products: map[string]CartItem{
			"p1": {ID: "p1", Quantity: 2, Checked: true},
		}},
		Carts: []Cart{
			{ID: "c1", Name: "Weekend", Products: []CartItem{{ID: "p1", Quantity: 1}}},
		},
	}
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	original := sampleDocument()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Document
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip lost fields:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	original := sampleDocument()
	clone := original.Clone()

	clone.Products[0].Name = "Changed"
	*clone.Sections[0].Order = 9
	clone.MainCart.Products["p2"] = CartItem{ID: "p2"}
	clone.Carts[0].Products[0].Quantity = 99

	if original.Products[0].Name != "Milk" {
		t.Fatalf("clone shares product slice")
	}
	if *original.Sections[0].Order != 1 {
		t.Fatalf("clone shares section order pointer")
	}
	if _, ok := original.MainCart.Products["p2"]; ok {
		t.Fatalf("clone shares main-cart map")
	}
	if original.Carts[0].Products[0].Quantity != 1 {
		t.Fatalf("clone shares cart item slice")
	}
}

func TestSectionRank(t *testing.T) {
	two := 2
	if got := (Section{Order: &two}).Rank(); got != 2 {
		t.Fatalf("expected rank 2, got %d", got)
	}
	if got := (Section{}).Rank(); got != UnrankedOrder {
		t.Fatalf("expected unranked sentinel %d, got %d", UnrankedOrder, got)
	}
}

func TestNormalizeInitializesCollections(t *testing.T) {
	var doc Document
	doc.Normalize()
	if doc.Sections == nil || doc.Products == nil || doc.MainCart.Products == nil || doc.Carts == nil {
		t.Fatalf("normalize left nil collections: %+v", doc)
	}
}
