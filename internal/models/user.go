// Package models contains the persisted entities and read models of the forum.
package models

import "time"

// User is a registered community member.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"-"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	IsModerator  bool      `gorm:"not null;default:false" json:"is_moderator"`
	CreatedAt    time.Time `json:"created_at"`
}
