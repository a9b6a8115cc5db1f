package wizard

import "sort"

// DepartmentGroup is one section of a sorted shopping list.
type DepartmentGroup struct {
	Department string             `json:"department"`
	Items      []GroceryItemDraft `json:"items"`
}

// StoreGroup holds one store's items, already grouped by department.
type StoreGroup struct {
	Store       string            `json:"store"`
	Departments []DepartmentGroup `json:"departments"`
}

// GroupByDepartment groups items by department and orders the groups
// by the reference walk order. Departments missing from the order sort
// after all known ones, alphabetically; items within a department sort
// alphabetically by name. Removed items are dropped.
func GroupByDepartment(items []GroceryItemDraft, order []string) []DepartmentGroup {
	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}

	byDept := map[string][]GroceryItemDraft{}
	for _, item := range items {
		if item.Removed {
			continue
		}
		byDept[item.Department] = append(byDept[item.Department], item)
	}

	groups := make([]DepartmentGroup, 0, len(byDept))
	for dept, deptItems := range byDept {
		sort.Slice(deptItems, func(i, j int) bool {
			return deptItems[i].Name < deptItems[j].Name
		})
		groups = append(groups, DepartmentGroup{Department: dept, Items: deptItems})
	}

	sort.Slice(groups, func(i, j int) bool {
		ri, iKnown := rank[groups[i].Department]
		rj, jKnown := rank[groups[j].Department]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return groups[i].Department < groups[j].Department
		}
	})
	return groups
}

// GroupByStoreThenDepartment groups items by store name first (items
// with no store form a final group), then by department within each
// store. overrides maps a store name to its own department walk
// order; stores without an override use the reference order.
func GroupByStoreThenDepartment(items []GroceryItemDraft, order []string, overrides map[string][]string) []StoreGroup {
	byStore := map[string][]GroceryItemDraft{}
	for _, item := range items {
		if item.Removed {
			continue
		}
		byStore[item.Store] = append(byStore[item.Store], item)
	}

	names := make([]string, 0, len(byStore))
	for name := range byStore {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := byStore[""]; ok {
		names = append(names, "")
	}

	groups := make([]StoreGroup, 0, len(names))
	for _, name := range names {
		storeOrder := order
		if override, ok := overrides[name]; ok && len(override) > 0 {
			storeOrder = override
		}
		groups = append(groups, StoreGroup{
			Store:       name,
			Departments: GroupByDepartment(byStore[name], storeOrder),
		})
	}
	return groups
}

// UncheckedCount counts the items still left to pick up.
func UncheckedCount(items []GroceryItemDraft) int {
	n := 0
	for _, item := range items {
		if !item.Removed && !item.Checked {
			n++
		}
	}
	return n
}
