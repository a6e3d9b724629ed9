package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence. Uniqueness that the application relied
// on check-then-create for (email, reference-entity names) is enforced with
// unique indexes here.
type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Photo        string
	Address      string
	Role         int       `gorm:"not null;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time
}

type WriterModel struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	Biography string
	Photo     string
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

type CategoryModel struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	Photo     string
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

type PublicationModel struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	Photo     string
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

type BookModel struct {
	ID            string `gorm:"primaryKey"`
	Title         string `gorm:"not null"`
	Description   string `gorm:"type:text"`
	Photo         string
	Price         float64 `gorm:"not null"`
	Discount      float64
	Stock         int
	AuthorID      string  `gorm:"not null;index"`
	CategoryID    *string `gorm:"index"`
	PublicationID *string `gorm:"index"`
	Author        *WriterModel
	Category      *CategoryModel
	Publication   *PublicationModel
	Reviews       []ReviewModel `gorm:"foreignKey:BookID"`
	CreatedAt     time.Time     `gorm:"not null;index"`
	UpdatedAt     time.Time
}

type ReviewModel struct {
	ID        string    `gorm:"primaryKey"`
	UserID    string    `gorm:"not null;index"`
	BookID    string    `gorm:"not null;index"`
	Content   string    `gorm:"type:text;not null"`
	Rating    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type OrderModel struct {
	ID           string `gorm:"primaryKey"`
	UserID       string `gorm:"not null;index"`
	User         *UserModel
	Items        []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	OrderDetails datatypes.JSON   `gorm:"type:jsonb"`
	Status       string           `gorm:"not null;index"`
	CreatedAt    time.Time        `gorm:"not null;index"`
	UpdatedAt    time.Time        `gorm:"not null;index"`
}

type OrderItemModel struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	OrderID  string `gorm:"not null;index"`
	BookID   string `gorm:"not null;index"`
	Quantity int    `gorm:"not null"`
	Book     *BookModel
}

type ResetTokenModel struct {
	UserID    string `gorm:"primaryKey"`
	TokenHash string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"not null;index"`
}
