package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag labels articles. Names are unique.
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Tag) TableName() string { return "tags" }

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Create validates and stores the tag.
func (t *Tag) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(t,
		validation.Field(&t.Name, validation.Required),
	); err != nil {
		return err
	}
	return db.Create(t).Error
}

// Get retrieves a tag by ID.
func (t *Tag) Get(db *gorm.DB, id uuid.UUID) error {
	return db.First(t, "id = ?", id).Error
}

// AllTags lists every tag.
func AllTags(db *gorm.DB) ([]Tag, error) {
	var tags []Tag
	err := db.Find(&tags).Error
	return tags, err
}

// Rename updates the tag name.
func (t *Tag) Rename(db *gorm.DB, name string) error {
	if err := validation.Validate(name, validation.Required); err != nil {
		return err
	}
	if err := db.Model(t).Update("name", name).Error; err != nil {
		return err
	}
	return t.Get(db, t.ID)
}

// Delete removes the tag by ID.
func (t *Tag) Delete(db *gorm.DB, id uuid.UUID) error {
	if err := t.Get(db, id); err != nil {
		return err
	}
	return db.Delete(t).Error
}

// TagsByIDs resolves tag references, preserving input order.
func TagsByIDs(db *gorm.DB, ids []uuid.UUID) ([]Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []Tag
	if err := db.Find(&tags, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}
	ordered := make([]Tag, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}
