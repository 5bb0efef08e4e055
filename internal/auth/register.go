package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/storecraft-backend/internal/roles"
	"github.com/angelmondragon/storecraft-backend/internal/users"
	pkgAuth "github.com/angelmondragon/storecraft-backend/pkg/auth"
	"github.com/angelmondragon/storecraft-backend/pkg/config"
	"github.com/angelmondragon/storecraft-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storecraft-backend/pkg/errors"
	"github.com/angelmondragon/storecraft-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterService handles the account creation transaction. A successful
// registration signs the caller in, so the response carries a fresh token.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type registerRoleRepository interface {
	FindByName(ctx context.Context, name string) (*models.Role, error)
	Assign(ctx context.Context, userID, roleID int64) error
}

type registerSessionManager interface {
	Create(ctx context.Context, tokenID string) error
	CurrentVersion(ctx context.Context, userID int64) (int64, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner        TxRunner
	UserRepoFactory func(tx *gorm.DB) registerUserRepository
	RoleRepoFactory func(tx *gorm.DB) registerRoleRepository
	SessionManager  registerSessionManager
	JWTConfig       config.JWTConfig
	PasswordConfig  config.PasswordConfig
}

type registerService struct {
	tx          TxRunner
	userRepos   func(tx *gorm.DB) registerUserRepository
	roleRepos   func(tx *gorm.DB) registerRoleRepository
	sessions    registerSessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	if params.SessionManager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session manager required")
	}
	userRepos := params.UserRepoFactory
	if userRepos == nil {
		userRepos = func(tx *gorm.DB) registerUserRepository { return users.NewRepository(tx) }
	}
	roleRepos := params.RoleRepoFactory
	if roleRepos == nil {
		roleRepos = func(tx *gorm.DB) registerRoleRepository { return roles.NewRepository(tx) }
	}
	return &registerService{
		tx:          params.TxRunner,
		userRepos:   userRepos,
		roleRepos:   roleRepos,
		sessions:    params.SessionManager,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates the user and grants the default Customer role in one
// transaction, so a failed role grant never leaves a half-provisioned account.
// The new account is signed in immediately: a session-backed token comes back
// with the profile.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepos(tx)
		roleRepo := s.roleRepos(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			PhoneNumber:  req.PhoneNumber,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		customer, err := roleRepo.FindByName(ctx, models.RoleCustomer)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load default role")
		}
		if err := roleRepo.Assign(ctx, user.ID, customer.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "assign default role")
		}

		user.Roles = []models.Role{*customer}
		created = user
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	version, err := s.sessions.CurrentVersion(ctx, created.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session version")
	}

	roleNames := make([]string, 0, len(created.Roles))
	for _, role := range created.Roles {
		roleNames = append(roleNames, role.Name)
	}

	now := time.Now().UTC()
	jti := uuid.NewString()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID:         created.ID,
		Email:          created.Email,
		Name:           strings.TrimSpace(created.FirstName + " " + created.LastName),
		Roles:          roleNames,
		SessionVersion: version,
		JTI:            jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	if err := s.sessions.Create(ctx, jti); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register session")
	}

	return &LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   now.Add(s.jwtCfg.AccessTokenTTL()),
		User:        users.NewUserDTO(created),
	}, nil
}
