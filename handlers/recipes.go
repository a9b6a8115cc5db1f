package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"hearth/database"
	"hearth/middleware"
	"hearth/models"
	"hearth/services"
)

// RecipeClipper is set at startup; import requests fail cleanly when
// no AI key is configured.
var RecipeClipper *services.Clipper

// ListRecipes returns the recipe catalog, optionally filtered by
// category or a name substring.
func ListRecipes(c *fiber.Ctx) error {
	query := database.DB.Preload("Ingredients.Ingredient")

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("q"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var recipes []models.Recipe
	if result := query.Order("name").Find(&recipes); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch recipes",
		})
	}

	return c.JSON(recipes)
}

// GetRecipe returns a single recipe by ID
func GetRecipe(c *fiber.Ctx) error {
	recipeID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recipe ID",
		})
	}

	var recipe models.Recipe
	if result := database.DB.Preload("Ingredients.Ingredient").First(&recipe, recipeID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Recipe not found",
		})
	}

	return c.JSON(recipe)
}

// CreateRecipe creates a new recipe
func CreateRecipe(c *fiber.Ctx) error {
	var input models.RecipeInput
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
	if input.TimeRating < models.TimeRatingQuick || input.TimeRating > models.TimeRatingInvolved {
		input.TimeRating = models.TimeRatingAverage
	}

	recipe := models.Recipe{
		Name:         input.Name,
		SourceURL:    input.SourceURL,
		Instructions: input.Instructions,
		TimeRating:   input.TimeRating,
		Category:     input.Category,
		Tags:         input.Tags,
	}

	rows, err := resolveIngredients(input.Ingredients)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	recipe.Ingredients = rows

	if result := database.DB.Create(&recipe); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create recipe",
		})
	}

	database.DB.Preload("Ingredients.Ingredient").First(&recipe, recipe.ID)
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// UpdateRecipe updates an existing recipe
func UpdateRecipe(c *fiber.Ctx) error {
	recipeID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recipe ID",
		})
	}

	var recipe models.Recipe
	if result := database.DB.First(&recipe, recipeID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Recipe not found",
		})
	}

	var input models.RecipeInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if input.Name != "" {
		recipe.Name = input.Name
	}
	if input.SourceURL != "" {
		recipe.SourceURL = input.SourceURL
	}
	if input.Instructions != "" {
		recipe.Instructions = input.Instructions
	}
	if input.TimeRating >= models.TimeRatingQuick && input.TimeRating <= models.TimeRatingInvolved {
		recipe.TimeRating = input.TimeRating
	}
	if input.Category != "" {
		recipe.Category = input.Category
	}
	if input.Tags != "" {
		recipe.Tags = input.Tags
	}

	// A provided ingredient list replaces the old one wholesale
	if input.Ingredients != nil {
		rows, err := resolveIngredients(input.Ingredients)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		database.DB.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{})
		for i := range rows {
			rows[i].RecipeID = recipe.ID
		}
		recipe.Ingredients = rows
	}

	if result := database.DB.Save(&recipe); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update recipe",
		})
	}

	database.DB.Preload("Ingredients.Ingredient").First(&recipe, recipe.ID)
	return c.JSON(recipe)
}

// DeleteRecipe deletes a recipe
func DeleteRecipe(c *fiber.Ctx) error {
	recipeID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recipe ID",
		})
	}

	var recipe models.Recipe
	if result := database.DB.First(&recipe, recipeID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Recipe not found",
		})
	}

	database.DB.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{})
	if result := database.DB.Delete(&recipe); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete recipe",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type ImportRequest struct {
	URL string `json:"url"`
}

// ImportRecipe fetches a recipe page and files the AI-extracted
// recipe into the catalog.
func ImportRecipe(c *fiber.Ctx) error {
	if RecipeClipper == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Recipe import is not configured",
		})
	}

	var req ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "URL must start with http:// or https://",
		})
	}

	extracted, err := RecipeClipper.ClipURL(c.Context(), req.URL)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	specs := make([]models.RecipeIngredientSpec, len(extracted.Ingredients))
	for i, ing := range extracted.Ingredients {
		specs[i] = models.RecipeIngredientSpec{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		}
	}
	rows, err := resolveIngredients(specs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	recipe := models.Recipe{
		Name:         extracted.Name,
		SourceURL:    req.URL,
		Instructions: strings.Join(extracted.Instructions, "\n"),
		TimeRating:   extracted.TimeRating,
		Category:     extracted.Category,
		Ingredients:  rows,
	}

	if result := database.DB.Create(&recipe); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save imported recipe",
		})
	}

	userID := middleware.GetUserID(c)
	username := middleware.GetUsername(c)
	services.LogActivity(userID, username, models.ActivityRecipeImport, &recipe.ID, "Imported: "+recipe.Name, c.IP())

	database.DB.Preload("Ingredients.Ingredient").First(&recipe, recipe.ID)
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// resolveIngredients turns ingredient specs into join rows, matching
// free-text names case-insensitively and creating ingredients that
// do not exist yet.
func resolveIngredients(specs []models.RecipeIngredientSpec) ([]models.RecipeIngredient, error) {
	rows := make([]models.RecipeIngredient, 0, len(specs))
	for _, spec := range specs {
		ingredientID := spec.IngredientID
		if ingredientID == 0 {
			name := strings.TrimSpace(spec.Name)
			if name == "" {
				return nil, fiber.NewError(fiber.StatusBadRequest, "ingredient name is required")
			}
			var ingredient models.Ingredient
			result := database.DB.Where("LOWER(name) = LOWER(?)", name).First(&ingredient)
			if result.Error != nil {
				ingredient = models.Ingredient{Name: name, Department: "Other"}
				if err := database.DB.Create(&ingredient).Error; err != nil {
					return nil, err
				}
			}
			ingredientID = ingredient.ID
		}
		rows = append(rows, models.RecipeIngredient{
			IngredientID: ingredientID,
			Quantity:     spec.Quantity,
			Unit:         spec.Unit,
			Note:         spec.Note,
		})
	}
	return rows, nil
}
