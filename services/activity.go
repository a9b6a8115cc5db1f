package services

import (
	"hearth/database"
	"hearth/models"
)

// LogActivity creates an activity log entry
func LogActivity(userID uint, username string, action models.ActivityAction, targetID *uint, details string, ipAddress string) {
	entry := models.ActivityLog{
		UserID:    userID,
		Username:  username,
		Action:    action,
		TargetID:  targetID,
		Details:   details,
		IPAddress: ipAddress,
	}

	// Fire and forget - don't block on activity logging
	go func() {
		database.DB.Create(&entry)
	}()
}

// LogActivitySync creates an activity log entry synchronously
func LogActivitySync(userID uint, username string, action models.ActivityAction, targetID *uint, details string, ipAddress string) error {
	entry := models.ActivityLog{
		UserID:    userID,
		Username:  username,
		Action:    action,
		TargetID:  targetID,
		Details:   details,
		IPAddress: ipAddress,
	}

	return database.DB.Create(&entry).Error
}
