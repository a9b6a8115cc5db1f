package wizard

import (
	"reflect"
	"testing"
)

func TestGroupByDepartment(t *testing.T) {
	order := []string{"Produce", "Meat", "Dairy"}
	items := []GroceryItemDraft{
		{Name: "Milk", Department: "Dairy"},
		{Name: "Apples", Department: "Produce"},
		{Name: "Chicken", Department: "Meat"},
		{Name: "Bananas", Department: "Produce"},
		{Name: "Gone", Department: "Produce", Removed: true},
	}

	groups := GroupByDepartment(items, order)

	gotDepts := make([]string, len(groups))
	for i, g := range groups {
		gotDepts[i] = g.Department
	}
	if !reflect.DeepEqual(gotDepts, []string{"Produce", "Meat", "Dairy"}) {
		t.Fatalf("department order = %v", gotDepts)
	}

	// Items alphabetical within a department, removed items dropped
	produce := groups[0].Items
	if len(produce) != 2 || produce[0].Name != "Apples" || produce[1].Name != "Bananas" {
		t.Errorf("produce items = %+v", produce)
	}
}

// Departments missing from the walk order sort after every known one,
// alphabetically among themselves.
func TestGroupByDepartmentUnknownDepartments(t *testing.T) {
	order := []string{"Produce", "Dairy"}
	items := []GroceryItemDraft{
		{Name: "Candles", Department: "Seasonal"},
		{Name: "Milk", Department: "Dairy"},
		{Name: "Screws", Department: "Hardware"},
	}

	groups := GroupByDepartment(items, order)

	gotDepts := make([]string, len(groups))
	for i, g := range groups {
		gotDepts[i] = g.Department
	}
	if !reflect.DeepEqual(gotDepts, []string{"Dairy", "Hardware", "Seasonal"}) {
		t.Errorf("department order = %v", gotDepts)
	}
}

func TestGroupByStoreThenDepartment(t *testing.T) {
	order := []string{"Produce", "Dairy"}
	items := []GroceryItemDraft{
		{Name: "Milk", Department: "Dairy", Store: "Costco"},
		{Name: "Apples", Department: "Produce", Store: "Aldi"},
		{Name: "Batteries", Department: "Other"},
		{Name: "Cheese", Department: "Dairy", Store: "Aldi"},
	}

	groups := GroupByStoreThenDepartment(items, order, nil)

	gotStores := make([]string, len(groups))
	for i, g := range groups {
		gotStores[i] = g.Store
	}
	// Stores alphabetical; items without a store come last
	if !reflect.DeepEqual(gotStores, []string{"Aldi", "Costco", ""}) {
		t.Fatalf("store order = %v", gotStores)
	}

	aldi := groups[0].Departments
	if len(aldi) != 2 || aldi[0].Department != "Produce" || aldi[1].Department != "Dairy" {
		t.Errorf("aldi departments = %+v", aldi)
	}
}

// A store with its own walk order overrides the reference order just
// for that store.
func TestGroupByStoreOverrides(t *testing.T) {
	order := []string{"Produce", "Dairy"}
	items := []GroceryItemDraft{
		{Name: "Milk", Department: "Dairy", Store: "Costco"},
		{Name: "Apples", Department: "Produce", Store: "Costco"},
		{Name: "Yogurt", Department: "Dairy", Store: "Aldi"},
		{Name: "Pears", Department: "Produce", Store: "Aldi"},
	}
	overrides := map[string][]string{"Costco": {"Dairy", "Produce"}}

	groups := GroupByStoreThenDepartment(items, order, overrides)

	for _, g := range groups {
		depts := make([]string, len(g.Departments))
		for i, d := range g.Departments {
			depts[i] = d.Department
		}
		switch g.Store {
		case "Costco":
			if !reflect.DeepEqual(depts, []string{"Dairy", "Produce"}) {
				t.Errorf("costco departments = %v", depts)
			}
		case "Aldi":
			if !reflect.DeepEqual(depts, []string{"Produce", "Dairy"}) {
				t.Errorf("aldi departments = %v", depts)
			}
		}
	}
}

func TestUncheckedCount(t *testing.T) {
	items := []GroceryItemDraft{
		{Name: "a"},
		{Name: "b", Checked: true},
		{Name: "c", Removed: true},
		{Name: "d"},
	}
	if got := UncheckedCount(items); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}
