// Package seed bootstraps a fresh database with the admin account and the
// default gallery and announcements.
package seed

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/gurukulschool/portal/internal/auth"
	"github.com/gurukulschool/portal/internal/models"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is the seed content for public pages
type Fixtures struct {
	Gallery []struct {
		Title    string `yaml:"title"`
		ImageURL string `yaml:"image_url"`
		Category string `yaml:"category"`
	} `yaml:"gallery"`
	Announcements []struct {
		Title    string `yaml:"title"`
		Content  string `yaml:"content"`
		Category string `yaml:"category"`
	} `yaml:"announcements"`
}

// Result reports what a Run created
type Result struct {
	AdminCreated  bool
	Gallery       int
	Announcements int
}

// ParseFixtures decodes a fixtures document
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &f, nil
}

// Run seeds db. Each collection is only seeded when it is empty, so Run is
// safe to call on every start.
func Run(db *gorm.DB, adminEmail, adminPassword string, zlog zerolog.Logger) (*Result, error) {
	fixtures, err := ParseFixtures(defaultFixtures)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	var admin models.User
	err = db.Where("email = ?", adminEmail).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := auth.HashPassword(adminPassword)
		if err != nil {
			return nil, err
		}
		admin = models.User{
			Email:        adminEmail,
			PasswordHash: hash,
			Name:         "Admin",
			Phone:        "+91 1234567890",
			Role:         models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			return nil, fmt.Errorf("failed to create admin user: %w", err)
		}
		result.AdminCreated = true
		zlog.Info().Str("email", adminEmail).Msg("Created admin user")
	case err != nil:
		return nil, fmt.Errorf("failed to look up admin user: %w", err)
	}

	var count int64
	if err := db.Model(&models.GalleryImage{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count gallery images: %w", err)
	}
	if count == 0 {
		for _, g := range fixtures.Gallery {
			image := &models.GalleryImage{
				Title:      g.Title,
				ImageURL:   g.ImageURL,
				Category:   g.Category,
				UploadedBy: adminEmail,
			}
			if err := db.Create(image).Error; err != nil {
				return nil, fmt.Errorf("failed to create gallery image: %w", err)
			}
		}
		result.Gallery = len(fixtures.Gallery)
		zlog.Info().Int("count", result.Gallery).Msg("Created gallery images")
	}

	if err := db.Model(&models.Announcement{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count announcements: %w", err)
	}
	if count == 0 {
		for _, a := range fixtures.Announcements {
			announcement := &models.Announcement{
				Title:     a.Title,
				Content:   a.Content,
				Category:  a.Category,
				IsActive:  true,
				CreatedBy: adminEmail,
			}
			if err := db.Create(announcement).Error; err != nil {
				return nil, fmt.Errorf("failed to create announcement: %w", err)
			}
		}
		result.Announcements = len(fixtures.Announcements)
		zlog.Info().Int("count", result.Announcements).Msg("Created announcements")
	}

	return result, nil
}
