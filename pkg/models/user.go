package models

import (
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"
)

// User is a registered account. PasswordHash is a bcrypt hash and is never
// serialized.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`

	// Favorites holds the user's favorite articles via a join table.
	Favorites []Article `gorm:"many2many:user_favorites" json:"-"`

	// SettingsJSON stores free-form per-user settings as a JSON blob.
	SettingsJSON string `gorm:"default:'{}'" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.SettingsJSON == "" {
		u.SettingsJSON = "{}"
	}
	return nil
}

// Create validates and stores the user. The caller hashes the password.
func (u *User) Create(db *gorm.DB) error {
	if err := validation.ValidateStruct(u,
		validation.Field(&u.Username, validation.Required),
		validation.Field(&u.Email, validation.Required, is.Email),
		validation.Field(&u.PasswordHash, validation.Required),
	); err != nil {
		return err
	}
	return db.Create(u).Error
}

// Get retrieves a user by ID.
func (u *User) Get(db *gorm.DB, id uuid.UUID) error {
	return db.First(u, "id = ?", id).Error
}

// GetByEmail retrieves a user by email.
func (u *User) GetByEmail(db *gorm.DB, email string) error {
	return db.First(u, "email = ?", email).Error
}

// UpdatePassword replaces the stored password hash.
func (u *User) UpdatePassword(db *gorm.DB, hash string) error {
	return db.Model(u).Update("password_hash", hash).Error
}

// FavoriteArticles returns the user's favorite articles.
func (u *User) FavoriteArticles(db *gorm.DB) ([]Article, error) {
	var articles []Article
	err := db.Model(u).Association("Favorites").Find(&articles)
	return articles, err
}

// ToggleFavorite adds the article to the user's favorites if absent,
// removes it if present. Reports whether it is now a favorite.
func (u *User) ToggleFavorite(db *gorm.DB, article *Article) (bool, error) {
	count := db.Model(u).Where("id = ?", article.ID).Association("Favorites").Count()
	if count > 0 {
		if err := db.Model(u).Association("Favorites").Delete(article); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := db.Model(u).Association("Favorites").Append(article); err != nil {
		return false, err
	}
	return true, nil
}

// UserSettings is the recognized shape of the per-user settings blob.
// Unknown keys round-trip through Extra.
type UserSettings struct {
	Theme         string                 `json:"theme,omitempty" mapstructure:"theme"`
	Notifications bool                   `json:"notifications,omitempty" mapstructure:"notifications"`
	Extra         map[string]interface{} `json:"extra,omitempty" mapstructure:",remain"`
}

// Settings decodes the stored settings blob.
func (u *User) Settings() (*UserSettings, error) {
	raw := map[string]interface{}{}
	if u.SettingsJSON != "" {
		if err := json.Unmarshal([]byte(u.SettingsJSON), &raw); err != nil {
			return nil, err
		}
	}
	var settings UserSettings
	if err := mapstructure.Decode(raw, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings replaces the settings blob with the given object.
func (u *User) UpdateSettings(db *gorm.DB, settings map[string]interface{}) error {
	blob, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := db.Model(u).Update("settings_json", string(blob)).Error; err != nil {
		return err
	}
	u.SettingsJSON = string(blob)
	return nil
}
