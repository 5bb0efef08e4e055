package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/storecraft-backend/pkg/db/models"
	"github.com/angelmondragon/storecraft-backend/pkg/pagination"
	"gorm.io/gorm"
)

func TestRepositoryUserFlow(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	phone := "5551234"
	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "jane@example.com",
		PasswordHash: "hash",
		FirstName:    "Jane",
		LastName:     "Doe",
		PhoneNumber:  &phone,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected user id to be generated")
	}
	if !created.IsActive {
		t.Fatal("expected new user to be active")
	}

	byEmail, err := repo.FindByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("expected user %d, got %d", created.ID, byEmail.ID)
	}

	role := &models.Role{Name: "Customer", IsActive: true}
	if err := conn.Create(role).Error; err != nil {
		t.Fatalf("create role: %v", err)
	}
	if err := conn.Create(&models.UserRole{UserID: created.ID, RoleID: role.ID}).Error; err != nil {
		t.Fatalf("assign role: %v", err)
	}

	byID, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if len(byID.Roles) != 1 || byID.Roles[0].Name != "Customer" {
		t.Fatalf("expected preloaded Customer role, got %v", byID.Roles)
	}

	now := time.Now().UTC().Truncate(time.Second)
	if err := repo.UpdateLastLogin(ctx, created.ID, now); err != nil {
		t.Fatalf("update last login: %v", err)
	}

	if err := repo.UpdateProfile(ctx, created.ID, "Janet", "Doe", nil); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	updated, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if updated.FirstName != "Janet" {
		t.Fatalf("expected updated first name, got %s", updated.FirstName)
	}
	if updated.LastLoginAt == nil {
		t.Fatal("expected last login to be set")
	}

	if err := repo.SetActive(ctx, created.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	deactivated, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if deactivated.IsActive {
		t.Fatal("expected user to be inactive")
	}

	if err := repo.UpdatePasswordHash(ctx, created.ID, "new-hash"); err != nil {
		t.Fatalf("update password hash: %v", err)
	}
}

func TestRepositoryNotFoundPaths(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	if _, err := repo.FindByID(ctx, 99999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
	if err := repo.SetActive(ctx, 99999, true); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found on SetActive, got %v", err)
	}
	if err := repo.UpdateProfile(ctx, 99999, "A", "B", nil); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found on UpdateProfile, got %v", err)
	}
	if err := repo.UpdatePasswordHash(ctx, 99999, "x"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found on UpdatePasswordHash, got %v", err)
	}
}

func TestRepositoryListPaginates(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mustCreateTestUser(t, conn)
	}

	page, err := repo.List(ctx, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("expected buffered page of 3, got %d", len(page))
	}

	cursor := pagination.EncodeCursor(pagination.Cursor{
		CreatedAt: page[1].CreatedAt,
		ID:        page[1].ID,
	})
	next, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: cursor})
	if err != nil {
		t.Fatalf("list users with cursor: %v", err)
	}
	for _, user := range next {
		if user.ID <= page[1].ID {
			t.Fatalf("expected ids after %d, got %d", page[1].ID, user.ID)
		}
	}
}
