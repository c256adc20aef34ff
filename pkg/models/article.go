package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article lifecycle status values. Transitions between them are explicit
// operations, never implied by content edits.
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// Article is a wiki article. Content mutations are expected to go through
// the versioning engine so the prior title/content is snapshotted first.
type Article struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	Content   string     `gorm:"not null" json:"content"`
	SectionID *uuid.UUID `gorm:"type:uuid;index" json:"sectionId,omitempty"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"userId,omitempty"`

	// Tags keep their association order via the join table.
	Tags []Tag `gorm:"many2many:article_tags" json:"tags"`

	Attachments []Attachment `gorm:"constraint:OnDelete:CASCADE" json:"attachments"`

	Status    string    `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Views     int64     `gorm:"not null;default:0" json:"views"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Attachment is a stored file reference owned by an article.
type Attachment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID  uuid.UUID `gorm:"type:uuid;not null;index" json:"articleId"`
	URL        string    `gorm:"not null" json:"url"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func (Article) TableName() string    { return "articles" }
func (Attachment) TableName() string { return "article_attachments" }

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = ArticleStatusDraft
	}
	return nil
}

func (at *Attachment) BeforeCreate(tx *gorm.DB) error {
	if at.ID == uuid.Nil {
		at.ID = uuid.New()
	}
	if at.UploadedAt.IsZero() {
		at.UploadedAt = time.Now()
	}
	return nil
}

// Create validates and stores the article. Status defaults to draft.
func (a *Article) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(a,
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.Content, validation.Required),
		validation.Field(&a.Status, validation.In("", ArticleStatusDraft, ArticleStatusPublished)),
	); err != nil {
		return err
	}
	return db.Create(a).Error
}

// Get retrieves an article by ID with its tags and attachments.
func (a *Article) Get(db *gorm.DB, id uuid.UUID) error {
	return db.
		Preload("Tags").
		Preload("Attachments").
		First(a, "id = ?", id).
		Error
}

// AllArticles lists every article in store default order.
func AllArticles(db *gorm.DB) ([]Article, error) {
	var articles []Article
	err := db.
		Preload("Tags").
		Preload("Attachments").
		Find(&articles).
		Error
	return articles, err
}

// UpdateFields applies only the given columns and stamps updated_at.
// Callers build the map from the fields actually present in the request.
func (a *Article) UpdateFields(db *gorm.DB, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	if err := db.Model(a).Updates(fields).Error; err != nil {
		return err
	}
	return a.Get(db, a.ID)
}

// Delete removes the article by ID.
func (a *Article) Delete(db *gorm.DB, id uuid.UUID) error {
	if err := a.Get(db, id); err != nil {
		return err
	}
	return db.Delete(a).Error
}

// SetStatus stamps a status transition without touching content.
func (a *Article) SetStatus(db *gorm.DB, status string) error {
	return a.UpdateFields(db, map[string]interface{}{"status": status})
}

// IncrementViews bumps the view counter without stamping updated_at.
func IncrementViews(db *gorm.DB, id uuid.UUID) error {
	res := db.Model(&Article{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountArticles returns the total number of articles.
func CountArticles(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&Article{}).Count(&n).Error
	return n, err
}

// TopArticlesByViews returns the n most viewed articles.
func TopArticlesByViews(db *gorm.DB, n int) ([]Article, error) {
	var articles []Article
	err := db.Order("views DESC").Limit(n).Find(&articles).Error
	return articles, err
}

// RecentlyUpdatedArticles returns the n most recently updated articles.
func RecentlyUpdatedArticles(db *gorm.DB, n int) ([]Article, error) {
	var articles []Article
	err := db.Order("updated_at DESC").Limit(n).Find(&articles).Error
	return articles, err
}

// ArticleFilter is the advanced search filter. Zero values are skipped.
type ArticleFilter struct {
	TitleContains string
	TagID         *uuid.UUID
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// SearchArticles runs an equality/substring-filtered query against the
// store. Ranking is intentionally whatever the store returns.
func SearchArticles(db *gorm.DB, f ArticleFilter) ([]Article, error) {
	q := db.Model(&Article{})
	if f.TitleContains != "" {
		q = q.Where("title LIKE ?", "%"+f.TitleContains+"%")
	}
	if f.TagID != nil {
		q = q.Joins("JOIN article_tags ON article_tags.article_id = articles.id").
			Where("article_tags.tag_id = ?", *f.TagID)
	}
	if f.CreatedFrom != nil {
		q = q.Where("articles.created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("articles.created_at <= ?", *f.CreatedTo)
	}

	var articles []Article
	err := q.Find(&articles).Error
	return articles, err
}

// AddAttachment appends a stored file reference to the article.
func (a *Article) AddAttachment(db *gorm.DB, att *Attachment) error {
	att.ArticleID = a.ID
	if err := db.Create(att).Error; err != nil {
		return err
	}
	return a.Get(db, a.ID)
}
