package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a threaded comment on an article. Top-level comments have a
// nil ParentID; replies reference their parent comment.
type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID uuid.UUID  `gorm:"type:uuid;not null;index" json:"articleId"`
	Content   string     `gorm:"not null" json:"content"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"userId,omitempty"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parentId,omitempty"`
	Upvotes   int64      `gorm:"not null;default:0" json:"upvotes"`
	Downvotes int64      `gorm:"not null;default:0" json:"downvotes"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Create validates and stores the comment.
func (c *Comment) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.ArticleID, validation.Required),
		validation.Field(&c.Content, validation.Required),
	); err != nil {
		return err
	}
	return db.Create(c).Error
}

// Get retrieves a comment by ID.
func (c *Comment) Get(db *gorm.DB, id uuid.UUID) error {
	return db.First(c, "id = ?", id).Error
}

// TopLevelComments lists an article's comments that are not replies.
func TopLevelComments(db *gorm.DB, articleID uuid.UUID) ([]Comment, error) {
	var comments []Comment
	err := db.
		Where("article_id = ? AND parent_id IS NULL", articleID).
		Find(&comments).
		Error
	return comments, err
}

// Replies lists the direct replies to a comment.
func Replies(db *gorm.DB, parentID uuid.UUID) ([]Comment, error) {
	var comments []Comment
	err := db.Where("parent_id = ?", parentID).Find(&comments).Error
	return comments, err
}

// Vote applies an up or down vote to the comment.
func (c *Comment) Vote(db *gorm.DB, up bool) error {
	column := "downvotes"
	if up {
		column = "upvotes"
	}
	if err := db.Model(c).UpdateColumn(column, gorm.Expr(column+" + 1")).Error; err != nil {
		return err
	}
	return c.Get(db, c.ID)
}

// Delete removes the comment by ID.
func (c *Comment) Delete(db *gorm.DB, id uuid.UUID) error {
	if err := c.Get(db, id); err != nil {
		return err
	}
	return db.Delete(c).Error
}
