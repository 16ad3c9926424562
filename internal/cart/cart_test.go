package cart

import (
	"testing"
)

func testItem(productID, optionID string) Item {
	return Item{
		ProductID:          productID,
		OptionID:           optionID,
		PriceCentsSnapshot: 1999,
		NameSnapshot:       "Walnut Coaster Set",
	}
}

func TestAddItemCoalescesSamePair(t *testing.T) {
	c := NewCart("biz-1", AnonOwner("anon-1"))
	c.AddItem(testItem("prod-a", "opt-1"), 2)
	c.AddItem(testItem("prod-a", "opt-1"), 3)

	if len(c.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c.Items))
	}
	if c.Items[0].Qty != 5 {
		t.Errorf("qty = %d, want 5", c.Items[0].Qty)
	}
}

func TestAddItemDistinctOptionsStaySeparate(t *testing.T) {
	c := NewCart("biz-1", AnonOwner("anon-1"))
	c.AddItem(testItem("prod-a", "opt-1"), 1)
	c.AddItem(testItem("prod-a", "opt-2"), 1)
	c.AddItem(testItem("prod-a", ""), 1)

	if len(c.Items) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(c.Items))
	}
}

func TestAddItemNonPositiveQtyDefaultsToOne(t *testing.T) {
	c := NewCart("biz-1", AnonOwner("anon-1"))
	c.AddItem(testItem("prod-a", ""), 0)
	c.AddItem(testItem("prod-b", ""), -4)

	for _, item := range c.Items {
		if item.Qty != 1 {
			t.Errorf("item %s qty = %d, want 1", item.ProductID, item.Qty)
		}
	}
}

func TestUpdateItemQtyToZeroRemovesLine(t *testing.T) {
	c := NewCart("biz-1", UserOwner("user-1"))
	c.AddItem(testItem("prod-a", ""), 2)
	c.AddItem(testItem("prod-b", ""), 1)

	c.UpdateItemQty("prod-a", "", 0)

	if len(c.Items) != 1 {
		t.Fatalf("expected 1 line after zero update, got %d", len(c.Items))
	}
	if c.Items[0].ProductID != "prod-b" {
		t.Errorf("wrong line removed: %s", c.Items[0].ProductID)
	}
}

func TestUpdateItemQtyClampsNegative(t *testing.T) {
	c := NewCart("biz-1", UserOwner("user-1"))
	c.AddItem(testItem("prod-a", ""), 2)
	c.UpdateItemQty("prod-a", "", -5)

	if len(c.Items) != 0 {
		t.Fatalf("negative qty should remove the line, got %d lines", len(c.Items))
	}
}

func TestUpdateItemQtyMissingLineIsNoop(t *testing.T) {
	c := NewCart("biz-1", UserOwner("user-1"))
	c.AddItem(testItem("prod-a", ""), 2)
	c.UpdateItemQty("prod-missing", "", 9)

	if len(c.Items) != 1 || c.Items[0].Qty != 2 {
		t.Errorf("no-op update changed the cart: %+v", c.Items)
	}
}

func TestMergeGuestItemsAdditive(t *testing.T) {
	user := NewCart("biz-1", UserOwner("user-1"))
	user.AddItem(testItem("prod-a", ""), 1)
	user.AddItem(testItem("prod-b", ""), 1)

	guest := NewCart("biz-1", AnonOwner("anon-1"))
	guest.AddItem(testItem("prod-a", ""), 2)

	MergeGuestItems(user, guest)

	if len(user.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(user.Items))
	}
	byProduct := map[string]int64{}
	for _, item := range user.Items {
		byProduct[item.ProductID] = item.Qty
	}
	if byProduct["prod-a"] != 3 {
		t.Errorf("shared line qty = %d, want 3", byProduct["prod-a"])
	}
	if byProduct["prod-b"] != 1 {
		t.Errorf("non-shared line qty = %d, want 1", byProduct["prod-b"])
	}
}

func TestMergePreservesGuestSnapshots(t *testing.T) {
	user := NewCart("biz-1", UserOwner("user-1"))

	guest := NewCart("biz-1", AnonOwner("anon-1"))
	guest.AddItem(Item{
		ProductID:          "prod-c",
		PriceCentsSnapshot: 450,
		NameSnapshot:       "price at add time",
	}, 1)

	MergeGuestItems(user, guest)

	if user.Items[0].PriceCentsSnapshot != 450 {
		t.Errorf("merge must not touch price snapshots, got %d", user.Items[0].PriceCentsSnapshot)
	}
	if user.Items[0].NameSnapshot != "price at add time" {
		t.Errorf("merge must carry the guest name snapshot, got %q", user.Items[0].NameSnapshot)
	}
}

func TestSubtotalCents(t *testing.T) {
	c := NewCart("biz-1", UserOwner("user-1"))
	c.AddItem(Item{ProductID: "a", PriceCentsSnapshot: 1000}, 2)
	c.AddItem(Item{ProductID: "b", PriceCentsSnapshot: 250}, 1)

	if got := c.SubtotalCents(); got != 2250 {
		t.Errorf("SubtotalCents() = %d, want 2250", got)
	}
}
