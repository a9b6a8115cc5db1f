package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"hearth/database"
	"hearth/models"
)

// ListIngredients returns all ingredients
func ListIngredients(c *fiber.Ctx) error {
	var ingredients []models.Ingredient
	if result := database.DB.Order("name").Find(&ingredients); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch ingredients",
		})
	}

	return c.JSON(ingredients)
}

// CreateIngredient creates a new ingredient
func CreateIngredient(c *fiber.Ctx) error {
	var input models.IngredientInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}
	if input.Department == "" {
		input.Department = "Other"
	}

	var existing models.Ingredient
	if result := database.DB.Where("LOWER(name) = LOWER(?)", input.Name).First(&existing); result.Error == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Ingredient already exists",
		})
	}

	ingredient := models.Ingredient{
		Name:       input.Name,
		Department: input.Department,
	}

	if result := database.DB.Create(&ingredient); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create ingredient",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(ingredient)
}

// UpdateIngredient updates an existing ingredient
func UpdateIngredient(c *fiber.Ctx) error {
	ingredientID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid ingredient ID",
		})
	}

	var ingredient models.Ingredient
	if result := database.DB.First(&ingredient, ingredientID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Ingredient not found",
		})
	}

	var input models.IngredientInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Name != "" {
		ingredient.Name = strings.TrimSpace(input.Name)
	}
	if input.Department != "" {
		ingredient.Department = input.Department
	}

	if result := database.DB.Save(&ingredient); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update ingredient",
		})
	}

	return c.JSON(ingredient)
}

// DeleteIngredient deletes an ingredient that no recipe or staple
// still references.
func DeleteIngredient(c *fiber.Ctx) error {
	ingredientID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid ingredient ID",
		})
	}

	var ingredient models.Ingredient
	if result := database.DB.First(&ingredient, ingredientID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Ingredient not found",
		})
	}

	var refs int64
	database.DB.Model(&models.RecipeIngredient{}).Where("ingredient_id = ?", ingredientID).Count(&refs)
	if refs > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Ingredient is used by recipes; merge it instead",
		})
	}
	database.DB.Model(&models.StapleItem{}).Where("ingredient_id = ?", ingredientID).Count(&refs)
	if refs > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Ingredient is used by staples; merge it instead",
		})
	}

	if result := database.DB.Delete(&ingredient); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete ingredient",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// MergeIngredient folds a duplicate ingredient into the canonical
// one: recipe rows and staples are re-pointed, then the duplicate is
// removed.
func MergeIngredient(c *fiber.Ctx) error {
	keepID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid ingredient ID",
		})
	}
	dupID, err := strconv.ParseUint(c.Params("dupID"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid duplicate ID",
		})
	}
	if keepID == dupID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot merge an ingredient into itself",
		})
	}

	var keep, dup models.Ingredient
	if result := database.DB.First(&keep, keepID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Ingredient not found",
		})
	}
	if result := database.DB.First(&dup, dupID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Duplicate ingredient not found",
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RecipeIngredient{}).Where("ingredient_id = ?", dup.ID).Update("ingredient_id", keep.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.StapleItem{}).Where("ingredient_id = ?", dup.ID).Update("ingredient_id", keep.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&dup).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to merge ingredients",
		})
	}

	return c.JSON(keep)
}
