package models

import (
	"time"
)

// Role discriminates the single profile row an account may hold.
type Role string

const (
	RoleTutor   Role = "TUTOR"
	RoleStudent Role = "STUDENT"
)

// Tutor is the tutor-role view over the 'profiles' table. At most one profile
// row exists per account; the role tag decides which payload columns apply.
type Tutor struct {
	ID              int64     `json:"id" db:"id"`
	AccountID       int64     `json:"accountId" db:"account_id"`
	Bio             string    `json:"bio" db:"bio"`
	ExperienceYears int       `json:"experienceYears" db:"experience_years"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`

	// Relation (populated when needed)
	Account *Account `json:"account,omitempty"`
}

// Student is the student-role view over the 'profiles' table. Every student is
// created by exactly one tutor; that tutor cannot be deleted while the student
// exists.
type Student struct {
	ID        int64     `json:"id" db:"id"`
	AccountID int64     `json:"accountId" db:"account_id"`
	CreatedBy int64     `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Account *Account `json:"account,omitempty"`
	Tutor   *Tutor   `json:"tutor,omitempty"`
}
