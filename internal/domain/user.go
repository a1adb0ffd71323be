package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// BeforeCreate assigns the store identifier. IDs never change afterwards.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// List returns one page ordered by created_at descending plus the
	// total row count.
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	// Search matches query as a case-insensitive substring of name or
	// email, ordered by created_at descending.
	Search(ctx context.Context, query string) ([]User, error)
	Update(ctx context.Context, u *User) error
	// Delete reports whether a row was actually removed.
	Delete(ctx context.Context, id string) (bool, error)
}
