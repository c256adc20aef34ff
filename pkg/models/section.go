package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Section groups articles.
type Section struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Section) TableName() string { return "sections" }

func (s *Section) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Create validates and stores the section.
func (s *Section) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(s,
		validation.Field(&s.Name, validation.Required),
	); err != nil {
		return err
	}
	return db.Create(s).Error
}

// Get retrieves a section by ID.
func (s *Section) Get(db *gorm.DB, id uuid.UUID) error {
	return db.First(s, "id = ?", id).Error
}

// AllSections lists every section.
func AllSections(db *gorm.DB) ([]Section, error) {
	var sections []Section
	err := db.Find(&sections).Error
	return sections, err
}

// Rename updates the section name.
func (s *Section) Rename(db *gorm.DB, name string) error {
	if err := validation.Validate(name, validation.Required); err != nil {
		return err
	}
	if err := db.Model(s).Update("name", name).Error; err != nil {
		return err
	}
	return s.Get(db, s.ID)
}

// Delete removes the section by ID.
func (s *Section) Delete(db *gorm.DB, id uuid.UUID) error {
	if err := s.Get(db, id); err != nil {
		return err
	}
	return db.Delete(s).Error
}
