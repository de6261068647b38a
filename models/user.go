package models

import "time"

type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null;size:30" json:"name"` // ADMIN, CUSTOMER
	Description string `json:"description"`
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;size:50" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	FullName  string    `gorm:"size:30" json:"full_name"`
	Phone     string    `gorm:"size:10" json:"phone"`
	Address   string    `gorm:"size:255" json:"address"`
	RoleID    uint      `gorm:"not null" json:"role_id"`
	Role      Role      `gorm:"foreignKey:RoleID" json:"role"`
	Enabled   bool      `gorm:"default:true" json:"enabled"`
	Cart      *Cart     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews   []Review  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)
