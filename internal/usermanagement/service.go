package usermanagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storecraft-backend/internal/users"
	"github.com/angelmondragon/storecraft-backend/pkg/db"
	"github.com/angelmondragon/storecraft-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storecraft-backend/pkg/errors"
	"github.com/angelmondragon/storecraft-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes the administrative user operations.
type Service interface {
	ListUsers(ctx context.Context, params pagination.Params) (*UserListResult, error)
	GetUser(ctx context.Context, id int64) (*users.UserDTO, error)
	AssignRole(ctx context.Context, userID int64, roleName string) error
	RemoveRole(ctx context.Context, userID int64, roleName string) error
	SetUserActive(ctx context.Context, userID int64, active bool) error
}

// UserListResult is one page of users plus the cursor to the next page.
type UserListResult struct {
	Users      []users.UserDTO `json:"users"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

type userRepository interface {
	List(ctx context.Context, params pagination.Params) ([]models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type roleRepository interface {
	FindByName(ctx context.Context, name string) (*models.Role, error)
	Assign(ctx context.Context, userID, roleID int64) error
	Remove(ctx context.Context, userID, roleID int64) (bool, error)
}

type sessionInvalidator interface {
	BumpVersion(ctx context.Context, userID int64) (int64, error)
}

type service struct {
	users    userRepository
	roles    roleRepository
	sessions sessionInvalidator
}

// ServiceParams bundles the dependencies for the user management service.
type ServiceParams struct {
	UserRepo       userRepository
	RoleRepo       roleRepository
	SessionManager sessionInvalidator
}

// NewService constructs the user management service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.RoleRepo == nil {
		return nil, fmt.Errorf("role repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:    params.UserRepo,
		roles:    params.RoleRepo,
		sessions: params.SessionManager,
	}, nil
}

func (s *service) ListUsers(ctx context.Context, params pagination.Params) (*UserListResult, error) {
	found, err := s.users.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	pageSize := pagination.NormalizeLimit(params.Limit)
	rows := found
	nextCursor := ""
	if len(found) > pageSize {
		rows = found[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]users.UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *users.NewUserDTO(&rows[i]))
	}
	return &UserListResult{Users: dtos, NextCursor: nextCursor}, nil
}

func (s *service) GetUser(ctx context.Context, id int64) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return users.NewUserDTO(user), nil
}

// AssignRole grants the named role. A concurrent duplicate grant trips the
// join table's primary key and is reported as a conflict, not a server error.
func (s *service) AssignRole(ctx context.Context, userID int64, roleName string) error {
	user, role, err := s.resolve(ctx, userID, roleName)
	if err != nil {
		return err
	}

	if err := s.roles.Assign(ctx, user.ID, role.ID); err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.New(pkgerrors.CodeConflict, "user already has this role")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assign role")
	}
	return nil
}

func (s *service) RemoveRole(ctx context.Context, userID int64, roleName string) error {
	user, role, err := s.resolve(ctx, userID, roleName)
	if err != nil {
		return err
	}

	removed, err := s.roles.Remove(ctx, user.ID, role.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove role")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeConflict, "user does not have this role")
	}
	return nil
}

// SetUserActive toggles the account. Deactivation also bumps the session
// version so outstanding tokens die immediately.
func (s *service) SetUserActive(ctx context.Context, userID int64, active bool) error {
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set user active")
	}

	if !active {
		if _, err := s.sessions.BumpVersion(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump session version")
		}
	}
	return nil
}

func (s *service) resolve(ctx context.Context, userID int64, roleName string) (*models.User, *models.Role, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "role not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load role")
	}
	return user, role, nil
}
