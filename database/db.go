package database

import (
	"hearth/config"
	"hearth/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() error {
	cfg := config.GetConfig()
	return ConnectAt(cfg.DatabasePath)
}

// ConnectAt opens the database at an explicit path; tests use
// ":memory:".
func ConnectAt(path string) error {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	// Auto-migrate models
	err = DB.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Ingredient{},
		&models.Department{},
		&models.Store{},
		&models.StoreDepartment{},
		&models.WeeklyPlan{},
		&models.Meal{},
		&models.WizardDraft{},
		&models.GroceryList{},
		&models.GroceryItem{},
		&models.StapleItem{},
		&models.AllowanceAccount{},
		&models.AllowanceTransaction{},
		&models.CalendarEvent{},
		&models.EventAssignment{},
		&models.Settings{},
		&models.ActivityLog{},
	)
	if err != nil {
		return err
	}

	seedDepartments()
	return nil
}

func IsSetupComplete() bool {
	var count int64
	DB.Model(&models.User{}).Count(&count)
	return count > 0
}

// seedDepartments loads the reference walk order into an empty
// departments table so a fresh install sorts lists sensibly.
func seedDepartments() {
	var count int64
	DB.Model(&models.Department{}).Count(&count)
	if count > 0 {
		return
	}
	for i, name := range models.DepartmentOrder() {
		DB.Create(&models.Department{Name: name, SortOrder: i})
	}
}
