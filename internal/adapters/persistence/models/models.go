package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleVendedor   Role = "VENDEDOR"
	RoleTrabajador Role = "TRABAJADOR"
	RoleComprador  Role = "COMPRADOR"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleVendedor, RoleTrabajador, RoleComprador:
		return true
	}
	return false
}

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email       string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	Role        Role           `gorm:"size:20;default:'COMPRADOR'" json:"role"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	GoogleToken string         `gorm:"size:512" json:"-"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RevokedToken represents revoked_tokens table.
//
// A row exists only for tokens that were explicitly invalidated before their
// natural expiry (logout, forced invalidation). Absence of a row means
// "not revoked". Rows are never mutated after creation and may be purged once
// ExpiresAt has passed.
type RevokedToken struct {
	Token     string    `gorm:"primaryKey;size:512" json:"-"`
	Username  string    `gorm:"size:50;not null;index" json:"username"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	IsValid   bool      `gorm:"not null" json:"is_valid"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}

// Subscription represents subscriptions table (seller plans).
type Subscription struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	Plan        string         `gorm:"size:50;not null" json:"plan"`
	PurchasedAt time.Time      `gorm:"not null" json:"purchased_at"`
	ExpiresAt   time.Time      `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// IsLapsed reports whether the subscription has run out at the given instant.
func (s *Subscription) IsLapsed(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ============================================================
// Catalog Tables
// ============================================================

// Product represents productos table
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"type:decimal(15,2);not null" json:"price"`
	Currency    string         `gorm:"size:10;default:'EUR'" json:"currency"`
	SellerID    uint           `gorm:"index;not null" json:"seller_id"`
	Published   bool           `gorm:"default:true" json:"published"`
	Sold        bool           `gorm:"default:false" json:"sold"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Seller *User `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
}

func (Product) TableName() string {
	return "productos"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RevokedToken{},
		&Subscription{},
		&Product{},
	)
}
