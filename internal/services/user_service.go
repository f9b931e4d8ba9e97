package services

import (
	"context"
	"errors"
	"strings"

	"notesapp/internal/common"
	"notesapp/internal/messaging"
	"notesapp/internal/models"
	"notesapp/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes
const maxPasswordBytes = 72

// UserService is the credential store: one account per (email, tenant).
type UserService interface {
	CreateOrUpdate(ctx context.Context, email string, tenantID uuid.UUID, password string, role models.Role) (*models.User, error)
	Register(ctx context.Context, email string, tenantID uuid.UUID, password string, role models.Role) (*models.User, error)
	VerifyPassword(password, hash string) bool
	GetByEmailAndTenant(ctx context.Context, email string, tenantID uuid.UUID) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	cost     int
	events   eventEmitter
	log      *zap.Logger
}

// NewUserService hashes with the given bcrypt cost; zero selects bcrypt.DefaultCost.
func NewUserService(userRepo repositories.UserRepository, cost int, publisher messaging.Publisher, log *zap.Logger) UserService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &userService{
		userRepo: userRepo,
		cost:     cost,
		events:   eventEmitter{publisher: publisher, log: log},
		log:      log,
	}
}

func (s *userService) hash(op, password string) (string, error) {
	if password == "" {
		return "", common.Invalid(op, "Password is required")
	}
	if len(password) > maxPasswordBytes {
		return "", common.Invalid(op, "Password must be at most 72 bytes")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", common.Internal(op, err)
	}
	return string(hashed), nil
}

func validateAccount(op, email string, role models.Role) error {
	if strings.TrimSpace(email) == "" {
		return common.Invalid(op, "Email is required")
	}
	if !role.Valid() {
		return common.Invalid(op, "Invalid role")
	}
	return nil
}

// CreateOrUpdate overwrites the password and role of an existing account in place.
func (s *userService) CreateOrUpdate(ctx context.Context, email string, tenantID uuid.UUID, password string, role models.Role) (*models.User, error) {
	const op = "UserService.CreateOrUpdate"

	if err := validateAccount(op, email, role); err != nil {
		return nil, err
	}
	hashed, err := s.hash(op, password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Upsert(ctx, &models.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	})
	if err != nil {
		return nil, common.Internal(op, err)
	}
	return user, nil
}

// Register creates a new account and fails with a conflict if (email, tenant) is taken.
func (s *userService) Register(ctx context.Context, email string, tenantID uuid.UUID, password string, role models.Role) (*models.User, error) {
	const op = "UserService.Register"

	if err := validateAccount(op, email, role); err != nil {
		return nil, err
	}
	hashed, err := s.hash(op, password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, common.Conflict(op, "User already exists")
		}
		return nil, common.Internal(op, err)
	}

	s.log.Info("User registered", zap.String("user_id", user.ID.String()), zap.String("tenant_id", tenantID.String()))
	s.events.emit(ctx, messaging.Event{
		Type:       messaging.EventUserRegistered,
		TenantID:   tenantID,
		UserID:     user.ID,
		Attributes: map[string]string{"role": string(role)},
	})
	return user, nil
}

// VerifyPassword reports whether password matches hash. A malformed hash is a mismatch.
func (s *userService) VerifyPassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *userService) GetByEmailAndTenant(ctx context.Context, email string, tenantID uuid.UUID) (*models.User, error) {
	const op = "UserService.GetByEmailAndTenant"

	user, err := s.userRepo.GetByEmail(ctx, tenantID, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(op, "User not found")
		}
		return nil, common.Internal(op, err)
	}
	return user, nil
}
