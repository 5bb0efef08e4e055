package usermanagement

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/storecraft-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storecraft-backend/pkg/errors"
	"github.com/angelmondragon/storecraft-backend/pkg/pagination"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	byID map[int64]*models.User
	all  []models.User
}

func (s *stubUserRepo) List(ctx context.Context, params pagination.Params) ([]models.User, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	if limit > len(s.all) {
		limit = len(s.all)
	}
	return s.all[:limit], nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	user, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.IsActive = active
	return nil
}

type stubRoleRepo struct {
	roles     map[string]*models.Role
	held      map[[2]int64]bool
	assignErr error
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{
		roles: map[string]*models.Role{
			models.RoleAdmin:    {ID: 1, Name: models.RoleAdmin},
			models.RoleCustomer: {ID: 2, Name: models.RoleCustomer},
		},
		held: map[[2]int64]bool{},
	}
}

func (s *stubRoleRepo) FindByName(ctx context.Context, name string) (*models.Role, error) {
	if role, ok := s.roles[name]; ok {
		return role, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRoleRepo) Assign(ctx context.Context, userID, roleID int64) error {
	if s.assignErr != nil {
		return s.assignErr
	}
	key := [2]int64{userID, roleID}
	if s.held[key] {
		return &pgconn.PgError{Code: "23505", ConstraintName: "user_roles_pkey"}
	}
	s.held[key] = true
	return nil
}

func (s *stubRoleRepo) Remove(ctx context.Context, userID, roleID int64) (bool, error) {
	key := [2]int64{userID, roleID}
	if !s.held[key] {
		return false, nil
	}
	delete(s.held, key)
	return true, nil
}

type stubSessions struct {
	bumped []int64
}

func (s *stubSessions) BumpVersion(ctx context.Context, userID int64) (int64, error) {
	s.bumped = append(s.bumped, userID)
	return int64(len(s.bumped)), nil
}

func newTestService(t *testing.T, userRepo *stubUserRepo, roleRepo *stubRoleRepo, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       userRepo,
		RoleRepo:       roleRepo,
		SessionManager: sessions,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedUsers(n int) *stubUserRepo {
	repo := &stubUserRepo{byID: map[int64]*models.User{}}
	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		user := models.User{
			ID:        int64(i),
			Email:     "user" + string(rune('a'+i)) + "@example.com",
			FirstName: "User",
			LastName:  "Test",
			IsActive:  true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		repo.all = append(repo.all, user)
		stored := user
		repo.byID[user.ID] = &stored
	}
	return repo
}

func TestListUsersTrimsBufferAndSetsCursor(t *testing.T) {
	repo := seedUsers(5)
	svc := newTestService(t, repo, newStubRoleRepo(), &stubSessions{})

	result, err := svc.ListUsers(context.Background(), pagination.Params{Limit: 3})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(result.Users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(result.Users))
	}
	if result.NextCursor == "" {
		t.Fatal("expected next cursor when more rows exist")
	}

	cursor, err := pagination.ParseCursor(result.NextCursor)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if cursor.ID != result.Users[len(result.Users)-1].ID {
		t.Fatal("cursor must point at the last returned row")
	}
}

func TestGetUser(t *testing.T) {
	repo := seedUsers(1)
	svc := newTestService(t, repo, newStubRoleRepo(), &stubSessions{})

	dto, err := svc.GetUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if dto.ID != 1 {
		t.Fatalf("unexpected user %d", dto.ID)
	}

	_, err = svc.GetUser(context.Background(), 99999)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAssignRoleConflictOnDuplicate(t *testing.T) {
	repo := seedUsers(1)
	roleRepo := newStubRoleRepo()
	svc := newTestService(t, repo, roleRepo, &stubSessions{})
	ctx := context.Background()

	if err := svc.AssignRole(ctx, 1, models.RoleAdmin); err != nil {
		t.Fatalf("assign role: %v", err)
	}

	err := svc.AssignRole(ctx, 1, models.RoleAdmin)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on duplicate assignment, got %v", err)
	}

	err = svc.AssignRole(ctx, 1, "Ghost")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown role, got %v", err)
	}
}

func TestRemoveRole(t *testing.T) {
	repo := seedUsers(1)
	roleRepo := newStubRoleRepo()
	svc := newTestService(t, repo, roleRepo, &stubSessions{})
	ctx := context.Background()

	err := svc.RemoveRole(ctx, 1, models.RoleAdmin)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict when role not held, got %v", err)
	}

	if err := svc.AssignRole(ctx, 1, models.RoleAdmin); err != nil {
		t.Fatalf("assign role: %v", err)
	}
	if err := svc.RemoveRole(ctx, 1, models.RoleAdmin); err != nil {
		t.Fatalf("remove role: %v", err)
	}
}

func TestSetUserActiveBumpsVersionOnDeactivate(t *testing.T) {
	repo := seedUsers(1)
	sessions := &stubSessions{}
	svc := newTestService(t, repo, newStubRoleRepo(), sessions)
	ctx := context.Background()

	if err := svc.SetUserActive(ctx, 1, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if repo.byID[1].IsActive {
		t.Fatal("expected user to be inactive")
	}
	if len(sessions.bumped) != 1 {
		t.Fatal("expected session version bump on deactivation")
	}

	if err := svc.SetUserActive(ctx, 1, true); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if len(sessions.bumped) != 1 {
		t.Fatal("activation must not bump the session version")
	}

	err := svc.SetUserActive(ctx, 404, false)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
