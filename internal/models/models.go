package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Admission statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidAdmissionStatus reports whether status is one of the admission statuses
func ValidAdmissionStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// User represents a portal account
type User struct {
	BaseModel
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role" gorm:"not null;default:user;index"`
	UpdatedAt    time.Time `json:"-" gorm:"autoUpdateTime"`
}

// Admission is an application submitted through the public admissions form
type Admission struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	StudentName    string    `json:"student_name" gorm:"not null"`
	ParentName     string    `json:"parent_name" gorm:"not null"`
	Email          string    `json:"email" gorm:"not null"`
	Phone          string    `json:"phone" gorm:"not null"`
	Grade          string    `json:"grade" gorm:"not null"`
	DOB            string    `json:"dob" gorm:"column:dob"`
	Address        string    `json:"address"`
	PreviousSchool string    `json:"previous_school"`
	Status         string    `json:"status" gorm:"not null;default:pending;index"`
	SubmittedAt    time.Time `json:"submitted_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates the admission ULID and defaults its status
func (a *Admission) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = ulid.Make().String()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

// Contact is a message submitted through the contact form
type Contact struct {
	BaseModel
	Name    string `json:"name" gorm:"not null"`
	Email   string `json:"email" gorm:"not null"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" gorm:"type:text"`
}

// GalleryImage is an image shown in the public gallery
type GalleryImage struct {
	BaseModel
	Title      string `json:"title" gorm:"not null"`
	ImageURL   string `json:"image_url" gorm:"not null"`
	Category   string `json:"category" gorm:"not null;default:campus"`
	UploadedBy string `json:"uploaded_by"`
}

// Announcement is a notice published on the site and dashboard
type Announcement struct {
	BaseModel
	Title     string `json:"title" gorm:"not null"`
	Content   string `json:"content" gorm:"type:text"`
	Category  string `json:"category" gorm:"not null;default:general"`
	IsActive  bool   `json:"is_active" gorm:"not null;index"`
	CreatedBy string `json:"created_by"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&User{}, &Admission{}, &Contact{}, &GalleryImage{}, &Announcement{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}
