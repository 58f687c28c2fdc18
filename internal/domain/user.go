package domain

import "time"

type User struct {
	ID           int64      `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	DOB          *time.Time `db:"dob" json:"dob,omitempty"`
	Address      *string    `db:"address" json:"address,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
