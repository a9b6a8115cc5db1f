package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"hearth/database"
	"hearth/models"
)

// ListDepartments returns departments in walk order
func ListDepartments(c *fiber.Ctx) error {
	var departments []models.Department
	if result := database.DB.Order("sort_order").Find(&departments); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch departments",
		})
	}

	return c.JSON(departments)
}

// CreateDepartment creates a new department, appended to the walk
// order unless a position is given.
func CreateDepartment(c *fiber.Ctx) error {
	var input models.DepartmentInput
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

	sortOrder := 0
	if input.SortOrder != nil {
		sortOrder = *input.SortOrder
	} else {
		var max int64
		database.DB.Model(&models.Department{}).Count(&max)
		sortOrder = int(max)
	}

	department := models.Department{
		Name:      input.Name,
		SortOrder: sortOrder,
	}

	if result := database.DB.Create(&department); result.Error != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Failed to create department",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(department)
}

// UpdateDepartment updates a department's name or position
func UpdateDepartment(c *fiber.Ctx) error {
	departmentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid department ID",
		})
	}

	var department models.Department
	if result := database.DB.First(&department, departmentID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Department not found",
		})
	}

	var input models.DepartmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Name != "" {
		department.Name = input.Name
	}
	if input.SortOrder != nil {
		department.SortOrder = *input.SortOrder
	}

	if result := database.DB.Save(&department); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update department",
		})
	}

	return c.JSON(department)
}

// DeleteDepartment deletes a department; ingredients in it fall back
// to "Other".
func DeleteDepartment(c *fiber.Ctx) error {
	departmentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid department ID",
		})
	}

	var department models.Department
	if result := database.DB.First(&department, departmentID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Department not found",
		})
	}

	database.DB.Model(&models.Ingredient{}).Where("department = ?", department.Name).Update("department", "Other")

	if result := database.DB.Delete(&department); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete department",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListStores returns all stores with their department overrides
func ListStores(c *fiber.Ctx) error {
	var stores []models.Store
	if result := database.DB.Preload("Orders", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order")
	}).Order("name").Find(&stores); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch stores",
		})
	}

	return c.JSON(stores)
}

// CreateStore creates a store, optionally with a department walk
// order of its own.
func CreateStore(c *fiber.Ctx) error {
	var input models.StoreInput
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

	store := models.Store{Name: input.Name}
	for i, dept := range input.Orders {
		store.Orders = append(store.Orders, models.StoreDepartment{
			Department: dept,
			SortOrder:  i,
		})
	}

	if result := database.DB.Create(&store); result.Error != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Failed to create store",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(store)
}

// UpdateStore updates a store; a provided order list replaces the old
// override wholesale.
func UpdateStore(c *fiber.Ctx) error {
	storeID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid store ID",
		})
	}

	var store models.Store
	if result := database.DB.First(&store, storeID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Store not found",
		})
	}

	var input models.StoreInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Name != "" {
		store.Name = input.Name
	}
	if input.Orders != nil {
		database.DB.Where("store_id = ?", store.ID).Delete(&models.StoreDepartment{})
		store.Orders = nil
		for i, dept := range input.Orders {
			store.Orders = append(store.Orders, models.StoreDepartment{
				StoreID:    store.ID,
				Department: dept,
				SortOrder:  i,
			})
		}
	}

	if result := database.DB.Save(&store); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update store",
		})
	}

	return c.JSON(store)
}

// DeleteStore deletes a store and clears it from grocery items
func DeleteStore(c *fiber.Ctx) error {
	storeID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid store ID",
		})
	}

	var store models.Store
	if result := database.DB.First(&store, storeID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Store not found",
		})
	}

	database.DB.Model(&models.GroceryItem{}).Where("store_id = ?", storeID).Update("store_id", nil)
	database.DB.Where("store_id = ?", storeID).Delete(&models.StoreDepartment{})

	if result := database.DB.Delete(&store); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete store",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// StoreOrderOverrides collects every store's override as name -> walk
// order, for the grouped-list views.
func StoreOrderOverrides() map[string][]string {
	var stores []models.Store
	database.DB.Preload("Orders", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order")
	}).Find(&stores)

	overrides := map[string][]string{}
	for _, store := range stores {
		if len(store.Orders) == 0 {
			continue
		}
		order := make([]string, len(store.Orders))
		for i, row := range store.Orders {
			order[i] = row.Department
		}
		overrides[store.Name] = order
	}
	return overrides
}
