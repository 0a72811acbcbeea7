// Package queries contains read use cases for the users module.
package queries

import (
	"time"

	"github.com/tabison/suppliers/modules/users/domain"
)

// UserDTO is the account as the API shows it.
type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserDTO(u *domain.User) *UserDTO {
	name := u.Name()
	return &UserDTO{
		ID:        u.ID().String(),
		Email:     u.Email().String(),
		FirstName: name.FirstName(),
		LastName:  name.LastName(),
		FullName:  name.FullName(),
		Phone:     u.Phone().String(),
		Role:      u.Role().String(),
		Status:    u.Status().String(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}
