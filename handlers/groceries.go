package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hearth/database"
	"hearth/models"
	"hearth/wizard"
)

// ListGroceryLists returns every finalized grocery list, newest first
func ListGroceryLists(c *fiber.Ctx) error {
	var lists []models.GroceryList
	if result := database.DB.Order("created_at DESC").Find(&lists); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch grocery lists",
		})
	}

	return c.JSON(lists)
}

// GetGroceryList returns one list with its items
func GetGroceryList(c *fiber.Ctx) error {
	list, errResp := groceryListByParam(c)
	if list == nil {
		return errResp
	}

	return c.JSON(list)
}

// GroupedGroceryList returns a list's items grouped for shopping: by
// department, or by store then department with ?by=store.
func GroupedGroceryList(c *fiber.Ctx) error {
	list, errResp := groceryListByParam(c)
	if list == nil {
		return errResp
	}

	drafts := itemsAsDrafts(list.Items)
	order := departmentWalkOrder()

	if c.Query("by") == "store" {
		groups := wizard.GroupByStoreThenDepartment(drafts, order, StoreOrderOverrides())
		return c.JSON(fiber.Map{
			"groups":    groups,
			"unchecked": wizard.UncheckedCount(drafts),
		})
	}

	groups := wizard.GroupByDepartment(drafts, order)
	return c.JSON(fiber.Map{
		"groups":    groups,
		"unchecked": wizard.UncheckedCount(drafts),
	})
}

// AddGroceryListItem appends a manual item to a finalized list
func AddGroceryListItem(c *fiber.Ctx) error {
	list, errResp := groceryListByParam(c)
	if list == nil {
		return errResp
	}

	var input models.GroceryItemInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}
	if input.Department == "" {
		input.Department = "Other"
	}

	item := models.GroceryItem{
		ListID:     list.ID,
		Name:       input.Name,
		Department: input.Department,
		Quantity:   input.Quantity,
		StoreID:    input.StoreID,
		Manual:     true,
	}
	if result := database.DB.Create(&item); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add item",
		})
	}

	BroadcastListUpdate(list.ID, "item_added", item)
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateGroceryListItem patches an item; the common case is the
// in-store check-off, which is pushed to every open copy of the list.
func UpdateGroceryListItem(c *fiber.Ctx) error {
	list, errResp := groceryListByParam(c)
	if list == nil {
		return errResp
	}

	itemID, err := strconv.ParseUint(c.Params("itemID"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid item ID",
		})
	}

	var item models.GroceryItem
	if result := database.DB.Where("list_id = ?", list.ID).First(&item, itemID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Item not found",
		})
	}

	var input models.GroceryItemInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Name != "" {
		item.Name = input.Name
	}
	if input.Department != "" {
		item.Department = input.Department
	}
	if input.Quantity != "" {
		item.Quantity = input.Quantity
	}
	if input.StoreID != nil {
		item.StoreID = input.StoreID
	}
	if input.Checked != nil {
		item.Checked = *input.Checked
	}
	if input.Removed != nil {
		item.Removed = *input.Removed
	}

	if result := database.DB.Save(&item); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update item",
		})
	}

	BroadcastListUpdate(list.ID, "item_updated", item)
	return c.JSON(item)
}

// DeleteGroceryListItem removes an item from a finalized list
func DeleteGroceryListItem(c *fiber.Ctx) error {
	list, errResp := groceryListByParam(c)
	if list == nil {
		return errResp
	}

	itemID, err := strconv.ParseUint(c.Params("itemID"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid item ID",
		})
	}

	var item models.GroceryItem
	if result := database.DB.Where("list_id = ?", list.ID).First(&item, itemID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Item not found",
		})
	}

	if result := database.DB.Delete(&item); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete item",
		})
	}

	BroadcastListUpdate(list.ID, "item_deleted", item)
	return c.SendStatus(fiber.StatusNoContent)
}

func groceryListByParam(c *fiber.Ctx) (*models.GroceryList, error) {
	listID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid list ID",
		})
	}

	var list models.GroceryList
	if result := database.DB.Preload("Items").First(&list, listID); result.Error != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Grocery list not found",
		})
	}

	return &list, nil
}

// itemsAsDrafts converts persisted items to the shape the grouping
// helpers take, resolving store ids back to names.
func itemsAsDrafts(items []models.GroceryItem) []wizard.GroceryItemDraft {
	var stores []models.Store
	database.DB.Find(&stores)
	names := make(map[uint]string, len(stores))
	for _, s := range stores {
		names[s.ID] = s.Name
	}

	drafts := make([]wizard.GroceryItemDraft, 0, len(items))
	for _, item := range items {
		draft := wizard.GroceryItemDraft{
			ID:         strconv.FormatUint(uint64(item.ID), 10),
			Name:       item.Name,
			Department: item.Department,
			Quantity:   item.Quantity,
			Manual:     item.Manual,
			Staple:     item.Staple,
			Checked:    item.Checked,
			Removed:    item.Removed,
		}
		if item.StoreID != nil {
			draft.Store = names[*item.StoreID]
		}
		drafts = append(drafts, draft)
	}
	return drafts
}
