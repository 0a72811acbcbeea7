package domain_test

import (
	"testing"
	"time"

	"github.com/tabison/suppliers/modules/shared/events/contracts"
	"github.com/tabison/suppliers/modules/shared/types"
	"github.com/tabison/suppliers/modules/users/domain"
)

var now = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func TestNewUser(t *testing.T) {
	user := createTestUser(t)

	if user.ID().IsZero() {
		t.Error("expected user to have an ID")
	}
	if user.Email().String() != "wanjiku@example.co.ke" {
		t.Errorf("expected email 'wanjiku@example.co.ke', got '%s'", user.Email())
	}
	if user.Name().FullName() != "Wanjiku Kamau" {
		t.Errorf("expected name 'Wanjiku Kamau', got '%s'", user.Name().FullName())
	}
	if user.Status() != domain.StatusActive {
		t.Errorf("expected status 'active', got '%s'", user.Status())
	}

	evts := user.PopDomainEvents()
	if len(evts) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evts))
	}
	registered, ok := evts[0].(contracts.UserRegisteredEvent)
	if !ok {
		t.Fatalf("expected UserRegisteredEvent, got %T", evts[0])
	}
	if registered.Role != "supplier" {
		t.Errorf("expected role 'supplier', got '%s'", registered.Role)
	}
}

func TestUser_ChangeRole(t *testing.T) {
	user := createTestUser(t)
	later := now.Add(time.Hour)

	if err := user.ChangeRole(domain.RoleAdmin, later); err != nil {
		t.Fatalf("failed to change role: %v", err)
	}
	if user.Role() != domain.RoleAdmin {
		t.Errorf("expected role 'admin', got '%s'", user.Role())
	}
	if !user.UpdatedAt().Equal(later) {
		t.Errorf("expected updatedAt %v, got %v", later, user.UpdatedAt())
	}
}

func TestUser_Delete(t *testing.T) {
	user := createTestUser(t)
	user.ClearDomainEvents()

	if err := user.Delete(now); err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}
	if user.Status() != domain.StatusDeleted {
		t.Errorf("expected status 'deleted', got '%s'", user.Status())
	}

	evts := user.PopDomainEvents()
	if len(evts) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evts))
	}
	deleted, ok := evts[0].(contracts.UserDeletedEvent)
	if !ok {
		t.Fatalf("expected UserDeletedEvent, got %T", evts[0])
	}
	if deleted.UserID != user.ID().String() {
		t.Errorf("expected event userID %s, got %s", user.ID(), deleted.UserID)
	}

	if err := user.Delete(now); err != domain.ErrUserDeleted {
		t.Errorf("expected ErrUserDeleted on second delete, got %v", err)
	}
	if err := user.ChangeRole(domain.RoleUser, now); err != domain.ErrUserDeleted {
		t.Errorf("expected ErrUserDeleted, got %v", err)
	}
}

func TestEmail_Validation(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		want    string
		wantErr error
	}{
		{"valid email", "test@example.com", "test@example.com", nil},
		{"mixed case is folded", " Test@Example.COM ", "test@example.com", nil},
		{"empty email", "", "", domain.ErrEmailRequired},
		{"missing @", "testexample.com", "", domain.ErrEmailInvalid},
		{"missing domain", "test@", "", domain.ErrEmailInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NewEmail(tt.email)
			if err != tt.wantErr {
				t.Fatalf("NewEmail(%q) error = %v, want %v", tt.email, err, tt.wantErr)
			}
			if got.String() != tt.want {
				t.Errorf("NewEmail(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestName_Validation(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		lastName  string
		wantErr   error
	}{
		{"valid name", "Wanjiku", "Kamau", nil},
		{"empty first name", "", "Kamau", domain.ErrFirstNameRequired},
		{"empty last name", "Wanjiku", "", domain.ErrLastNameRequired},
		{"short first name", "W", "Kamau", domain.ErrFirstNameLength},
		{"short last name", "Wanjiku", "K", domain.ErrLastNameLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewName(tt.firstName, tt.lastName)
			if err != tt.wantErr {
				t.Errorf("NewName(%q, %q) error = %v, want %v", tt.firstName, tt.lastName, err, tt.wantErr)
			}
		})
	}
}

func TestPhone_Validation(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr error
	}{
		{"", "", nil},
		{"+254 712 345 678", "+254712345678", nil},
		{"0712-345-678", "0712345678", nil},
		{"12345", "", domain.ErrInvalidPhone},
		{"07123abc45", "", domain.ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := domain.NewPhone(tt.input)
			if err != tt.wantErr {
				t.Fatalf("NewPhone(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got.String() != tt.want {
				t.Errorf("NewPhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    domain.Role
		wantErr error
	}{
		{"", domain.RoleUser, nil},
		{"Supplier", domain.RoleSupplier, nil},
		{"admin", domain.RoleAdmin, nil},
		{"root", "", domain.ErrInvalidRole},
	}

	for _, tt := range tests {
		got, err := domain.ParseRole(tt.input)
		if err != tt.wantErr {
			t.Errorf("ParseRole(%q) error = %v, want %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func createTestUser(t *testing.T) *domain.User {
	t.Helper()

	email, err := domain.NewEmail("wanjiku@example.co.ke")
	if err != nil {
		t.Fatalf("failed to create email: %v", err)
	}
	name, err := domain.NewName("Wanjiku", "Kamau")
	if err != nil {
		t.Fatalf("failed to create name: %v", err)
	}
	phone, err := domain.NewPhone("254712345678")
	if err != nil {
		t.Fatalf("failed to create phone: %v", err)
	}
	return domain.NewUser(types.NewUserID(), email, name, phone, domain.RoleSupplier, now)
}
