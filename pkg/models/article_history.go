package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleHistory is an immutable snapshot of an article's title and content
// captured before a mutation. Ordered by snapshot time the records form the
// article's audit trail. Records are never updated after creation.
type ArticleHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID uuid.UUID `gorm:"type:uuid;not null;index:idx_article_history_article" json:"articleId"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_article_history_created" json:"createdAt"`
}

func (ArticleHistory) TableName() string { return "article_histories" }

func (h *ArticleHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// Create stores the snapshot.
func (h *ArticleHistory) Create(db *gorm.DB) error {
	return db.Create(h).Error
}

// Get retrieves a snapshot by ID.
func (h *ArticleHistory) Get(db *gorm.DB, id uuid.UUID) error {
	return db.First(h, "id = ?", id).Error
}

// HistoryForArticle returns all snapshots for an article ordered by
// snapshot time, oldest first.
func HistoryForArticle(db *gorm.DB, articleID uuid.UUID) ([]ArticleHistory, error) {
	var records []ArticleHistory
	err := db.
		Where("article_id = ?", articleID).
		Order("created_at ASC").
		Find(&records).
		Error
	return records, err
}

// CountHistoryForArticle returns the number of snapshots for an article.
func CountHistoryForArticle(db *gorm.DB, articleID uuid.UUID) (int64, error) {
	var n int64
	err := db.Model(&ArticleHistory{}).
		Where("article_id = ?", articleID).
		Count(&n).
		Error
	return n, err
}
