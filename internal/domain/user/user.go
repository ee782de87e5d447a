package user

import (
	"time"

	"admithub/internal/common"
)

type Role string

const (
	RoleBeneficiary Role = "beneficiary"
	RoleFacilitator Role = "facilitator"
	RoleVolunteer   Role = "volunteer"
	RoleAdmin       Role = "admin"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
)

type User struct {
	ID           common.UUID `json:"id"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Status       Status      `json:"status"`
	Roles        []Role      `json:"roles"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
