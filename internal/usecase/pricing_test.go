package usecase

import (
	"testing"

	"github.com/polkiloo/orderflow/internal/domain/model"
)

func TestResolveLineItem(t *testing.T) {
	menu := []model.MenuItem{
		{ID: 1, Name: "Margherita", Price: 900, Available: true},
		{ID: 2, Name: " Cola ", Price: 250, Available: false},
	}

	cases := []struct {
		name    string
		req     model.RequestedItem
		want    model.LineItem
		matched bool
	}{
		{
			name:    "by id ignores client price and name",
			req:     model.RequestedItem{ItemID: 1, Name: "whatever", Qty: 2, Price: 1},
			want:    model.LineItem{MenuItemID: 1, Name: "Margherita", Qty: 2, UnitPrice: 900},
			matched: true,
		},
		{
			name:    "by name case insensitive and trimmed",
			req:     model.RequestedItem{Name: "  COLA", Qty: 1, Price: 5},
			want:    model.LineItem{MenuItemID: 2, Name: " Cola ", Qty: 1, UnitPrice: 250},
			matched: true,
		},
		{
			name:    "unknown id falls through to name",
			req:     model.RequestedItem{ItemID: 99, Name: "margherita", Qty: 1},
			want:    model.LineItem{MenuItemID: 1, Name: "Margherita", Qty: 1, UnitPrice: 900},
			matched: true,
		},
		{
			name:    "client price as last resort",
			req:     model.RequestedItem{Name: " Calzone ", Qty: 3, Price: 1100},
			want:    model.LineItem{Name: "Calzone", Qty: 3, UnitPrice: 1100},
			matched: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, matched := ResolveLineItem(tc.req, menu)
			if matched != tc.matched {
				t.Fatalf("matched = %v, want %v", matched, tc.matched)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestResolveLineItemEmptyMenu(t *testing.T) {
	got, matched := ResolveLineItem(model.RequestedItem{ItemID: 1, Qty: 1, Price: 10}, nil)
	if matched {
		t.Fatal("expected no match")
	}
	if got.Name != "" || got.UnitPrice != 10 {
		t.Fatalf("unexpected item %+v", got)
	}
}
