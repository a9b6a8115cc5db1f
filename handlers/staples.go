package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hearth/database"
	"hearth/models"
)

// ListStaples returns the household's recurring grocery entries
func ListStaples(c *fiber.Ctx) error {
	var staples []models.StapleItem
	if result := database.DB.Preload("Ingredient").Find(&staples); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch staples",
		})
	}

	return c.JSON(staples)
}

// CreateStaple adds a recurring grocery entry
func CreateStaple(c *fiber.Ctx) error {
	var input models.StapleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var ingredient models.Ingredient
	if result := database.DB.First(&ingredient, input.IngredientID); result.Error != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown ingredient",
		})
	}

	var existing models.StapleItem
	if result := database.DB.Where("ingredient_id = ?", input.IngredientID).First(&existing); result.Error == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Staple already exists for this ingredient",
		})
	}

	staple := models.StapleItem{
		IngredientID: input.IngredientID,
		Quantity:     input.Quantity,
		Unit:         input.Unit,
	}

	if result := database.DB.Create(&staple); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create staple",
		})
	}

	database.DB.Preload("Ingredient").First(&staple, staple.ID)
	return c.Status(fiber.StatusCreated).JSON(staple)
}

// UpdateStaple updates a staple's quantity or unit
func UpdateStaple(c *fiber.Ctx) error {
	stapleID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid staple ID",
		})
	}

	var staple models.StapleItem
	if result := database.DB.First(&staple, stapleID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Staple not found",
		})
	}

	var input models.StapleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Quantity != 0 {
		staple.Quantity = input.Quantity
	}
	if input.Unit != "" {
		staple.Unit = input.Unit
	}

	if result := database.DB.Save(&staple); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update staple",
		})
	}

	database.DB.Preload("Ingredient").First(&staple, staple.ID)
	return c.JSON(staple)
}

// DeleteStaple removes a recurring grocery entry
func DeleteStaple(c *fiber.Ctx) error {
	stapleID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid staple ID",
		})
	}

	var staple models.StapleItem
	if result := database.DB.First(&staple, stapleID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Staple not found",
		})
	}

	if result := database.DB.Delete(&staple); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete staple",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
