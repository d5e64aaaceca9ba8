package models_test

import (
	"testing"
	"time"

	"taskify/backend/internal/models"

	"github.com/gofrs/uuid"
)

func TestTask_Fields(t *testing.T) {
	due := time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC)
	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      uuid.Must(uuid.NewV4()),
		Title:       "Test Task",
		Description: "Test Description",
		DueDate:     &due,
		Status:      models.StatusPending,
		Priority:    models.PriorityMedium,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if task.Title != "Test Task" {
		t.Errorf("Expected title 'Test Task', got '%s'", task.Title)
	}

	if task.Status != models.StatusPending {
		t.Errorf("Expected status 'pending', got '%s'", task.Status)
	}

	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Errorf("Expected due date %v, got %v", due, task.DueDate)
	}
}

func TestTaskStatus_Valid(t *testing.T) {
	valid := []models.TaskStatus{
		models.StatusPending,
		models.StatusInProgress,
		models.StatusCompleted,
	}

	for _, status := range valid {
		if !status.Valid() {
			t.Errorf("Expected status '%s' to be valid", status)
		}
	}

	invalid := []models.TaskStatus{"", "done", "cancelled", "Pending"}
	for _, status := range invalid {
		if status.Valid() {
			t.Errorf("Expected status '%s' to be invalid", status)
		}
	}
}

func TestTaskPriority_Valid(t *testing.T) {
	valid := []models.TaskPriority{
		models.PriorityLow,
		models.PriorityMedium,
		models.PriorityHigh,
	}

	for _, priority := range valid {
		if !priority.Valid() {
			t.Errorf("Expected priority '%s' to be valid", priority)
		}
	}

	if models.TaskPriority("critical").Valid() {
		t.Error("Expected priority 'critical' to be invalid")
	}
}

func TestTaskPriority_Rank(t *testing.T) {
	if !(models.PriorityLow.Rank() < models.PriorityMedium.Rank()) {
		t.Error("Expected low to rank below medium")
	}
	if !(models.PriorityMedium.Rank() < models.PriorityHigh.Rank()) {
		t.Error("Expected medium to rank below high")
	}
	if models.TaskPriority("unknown").Rank() != 0 {
		t.Errorf("Expected unknown priority to rank 0, got %d", models.TaskPriority("unknown").Rank())
	}
}

func TestUser_Fields(t *testing.T) {
	user := models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: "testuser",
		Email:    "test@example.com",
		Password: "hashedpassword",
	}

	if user.Username != "testuser" {
		t.Errorf("Expected username 'testuser', got '%s'", user.Username)
	}

	if user.Email != "test@example.com" {
		t.Errorf("Expected email 'test@example.com', got '%s'", user.Email)
	}
}
