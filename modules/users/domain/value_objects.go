package domain

import (
	"regexp"
	"strings"
)

// Email is a value object representing a validated email address.
// Emails are stored lower-cased so uniqueness is case-insensitive.
type Email struct {
	value string
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func NewEmail(value string) (Email, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return Email{}, ErrEmailRequired
	}
	if !emailRegex.MatchString(value) {
		return Email{}, ErrEmailInvalid
	}
	return Email{value: value}, nil
}

func (e Email) String() string          { return e.value }
func (e Email) Equals(other Email) bool { return e.value == other.value }

// Name is a user's first and last name.
type Name struct {
	firstName string
	lastName  string
}

func NewName(firstName, lastName string) (Name, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if firstName == "" {
		return Name{}, ErrFirstNameRequired
	}
	if n := len([]rune(firstName)); n < 2 || n > 50 {
		return Name{}, ErrFirstNameLength
	}
	if lastName == "" {
		return Name{}, ErrLastNameRequired
	}
	if n := len([]rune(lastName)); n < 2 || n > 50 {
		return Name{}, ErrLastNameLength
	}
	return Name{firstName: firstName, lastName: lastName}, nil
}

func (n Name) FirstName() string { return n.firstName }
func (n Name) LastName() string  { return n.lastName }
func (n Name) FullName() string  { return n.firstName + " " + n.lastName }

// Phone is an optional contact number. Spaces and dashes are dropped and a
// leading plus is kept.
type Phone struct {
	value string
}

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

func NewPhone(value string) (Phone, error) {
	value = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(value))
	if value == "" {
		return Phone{}, nil
	}
	if !phoneRegex.MatchString(value) {
		return Phone{}, ErrInvalidPhone
	}
	return Phone{value: value}, nil
}

func (p Phone) String() string { return p.value }

// Role grants access to route groups.
type Role string

const (
	RoleUser     Role = "user"
	RoleSupplier Role = "supplier"
	RoleAdmin    Role = "admin"
)

// ParseRole defaults an empty role to RoleUser.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RoleUser, nil
	case RoleUser, RoleSupplier, RoleAdmin:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string { return string(r) }

// Status represents the user account status.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeleted:
		return true
	default:
		return false
	}
}
