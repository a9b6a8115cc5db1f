package handlers

import (
	"hearth/config"
	"hearth/database"
	"hearth/middleware"
	"hearth/models"
	"hearth/services"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type SetupRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// CheckSetup returns whether the initial setup has been completed
func CheckSetup(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"setup_complete": database.IsSetupComplete(),
	})
}

// Setup creates the initial parent account
func Setup(c *fiber.Ctx) error {
	// Check if setup already complete
	if database.IsSetupComplete() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Setup already complete",
		})
	}

	var req SetupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Validate input
	if len(req.Username) < 3 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username must be at least 3 characters",
		})
	}
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password must be at least 8 characters",
		})
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	// Create the first member (always a parent)
	user := models.User{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleParent,
	}

	if result := database.DB.Create(&user); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	// Default settings row
	database.DB.FirstOrCreate(&models.Settings{}, models.Settings{ID: 1})

	// Generate token
	token, err := generateToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		Token: token,
		User:  user,
	})
}

// Login authenticates a household member and returns a JWT token
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Find user
	var user models.User
	if result := database.DB.Where("username = ?", req.Username).First(&user); result.Error != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	// Generate token
	token, err := generateToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	// Log successful login
	services.LogActivity(user.ID, user.Username, models.ActivityLogin, nil, "", c.IP())

	return c.JSON(AuthResponse{
		Token: token,
		User:  user,
	})
}

// GetCurrentUser returns the currently authenticated member
func GetCurrentUser(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var user models.User
	if result := database.DB.First(&user, userID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(user.ToResponse())
}

// ListMembers returns every household member
func ListMembers(c *fiber.Ctx) error {
	var users []models.User
	if result := database.DB.Order("display_name").Find(&users); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch members",
		})
	}

	responses := make([]models.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}

	return c.JSON(responses)
}

// CreateMember creates a new household member (parent only)
func CreateMember(c *fiber.Ctx) error {
	var input models.UserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Validate input
	if len(input.Username) < 3 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Username must be at least 3 characters",
		})
	}
	if len(input.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password must be at least 8 characters",
		})
	}
	if input.Role != models.RoleParent && input.Role != models.RoleChild {
		input.Role = models.RoleChild
	}
	if input.DisplayName == "" {
		input.DisplayName = input.Username
	}

	// Check if username exists
	var existing models.User
	if result := database.DB.Where("username = ?", input.Username).First(&existing); result.Error == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Username already exists",
		})
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user := models.User{
		Username:     input.Username,
		DisplayName:  input.DisplayName,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
	}
	if input.Color != "" {
		user.Color = input.Color
	}

	if result := database.DB.Create(&user); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create member",
		})
	}

	// Children get an allowance account from day one
	if user.Role == models.RoleChild {
		database.DB.Create(&models.AllowanceAccount{UserID: user.ID})
	}

	currentUserID := middleware.GetUserID(c)
	currentUsername := middleware.GetUsername(c)
	services.LogActivity(currentUserID, currentUsername, models.ActivityMemberCreate, &user.ID, "Added member: "+user.Username, c.IP())

	return c.Status(fiber.StatusCreated).JSON(user.ToResponse())
}

// UpdateMember updates a household member (parent only)
func UpdateMember(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member ID",
		})
	}

	var user models.User
	if result := database.DB.First(&user, userID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	var input models.UserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Update username if provided
	if input.Username != "" && input.Username != user.Username {
		if len(input.Username) < 3 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Username must be at least 3 characters",
			})
		}
		var existing models.User
		if result := database.DB.Where("username = ? AND id != ?", input.Username, userID).First(&existing); result.Error == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Username already exists",
			})
		}
		user.Username = input.Username
	}

	if input.DisplayName != "" {
		user.DisplayName = input.DisplayName
	}
	if input.Color != "" {
		user.Color = input.Color
	}

	// Update password if provided
	if input.Password != "" {
		if len(input.Password) < 8 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Password must be at least 8 characters",
			})
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to hash password",
			})
		}
		user.PasswordHash = string(hashedPassword)
	}

	// Update role if provided
	if input.Role == models.RoleParent || input.Role == models.RoleChild {
		user.Role = input.Role
	}

	if result := database.DB.Save(&user); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update member",
		})
	}

	currentUserID := middleware.GetUserID(c)
	currentUsername := middleware.GetUsername(c)
	services.LogActivity(currentUserID, currentUsername, models.ActivityMemberUpdate, &user.ID, "Updated member: "+user.Username, c.IP())

	return c.JSON(user.ToResponse())
}

// DeleteMember deletes a household member (parent only)
func DeleteMember(c *fiber.Ctx) error {
	currentUserID := middleware.GetUserID(c)
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member ID",
		})
	}

	// Prevent self-deletion
	if uint(userID) == currentUserID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot delete your own account",
		})
	}

	var user models.User
	if result := database.DB.First(&user, userID); result.Error != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	// Drop the member's allowance account and event assignments
	database.DB.Where("user_id = ?", userID).Delete(&models.AllowanceAccount{})
	database.DB.Where("user_id = ?", userID).Delete(&models.EventAssignment{})

	deletedUsername := user.Username
	deletedID := user.ID
	if result := database.DB.Delete(&user); result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete member",
		})
	}

	currentUsername := middleware.GetUsername(c)
	services.LogActivity(currentUserID, currentUsername, models.ActivityMemberDelete, &deletedID, "Removed member: "+deletedUsername, c.IP())

	return c.SendStatus(fiber.StatusNoContent)
}

func generateToken(user *models.User) (string, error) {
	cfg := config.GetConfig()

	claims := middleware.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.SessionDurationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}
