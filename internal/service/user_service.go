package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// UserService covers the account management operations exposed to admins
// plus profile self-service.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// UserUpdate carries changed fields for an account. Empty strings keep the
// stored value; a non-empty Password triggers a rehash.
type UserUpdate struct {
	Name       string
	Email      string
	EmployeeID string
	Department string
	Branch     string
	Role       domain.Role
	Password   string
}

// NewUserService wires the account service.
func NewUserService(users repository.UserRepository, bcryptCost int, logger *zap.Logger) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost, logger: logger}
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Get returns one account by id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Update applies the changed fields to an account. Only admin-equivalent
// actors may change roles; a caller updating their own profile keeps the
// role they already have.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id int64, changes UserUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if changes.Name != "" {
		user.Name = changes.Name
	}
	if changes.Email != "" {
		if existing, err := s.users.GetByEmail(ctx, changes.Email); err == nil && existing.ID != user.ID {
			return nil, apperrors.NewConflict("email already in use", map[string]any{"email": changes.Email})
		}
		user.Email = changes.Email
	}
	if changes.EmployeeID != "" {
		user.EmployeeID = changes.EmployeeID
	}
	if changes.Department != "" {
		user.Department = changes.Department
	}
	if changes.Branch != "" {
		user.Branch = changes.Branch
	}
	if changes.Role != "" && actor.Role.AdminEquivalent() {
		user.Role = changes.Role
	}
	if changes.Password != "" {
		hash, err := auth.HashPassword(changes.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Delete removes an account. An actor cannot delete their own account, so
// the last admin standing never locks everyone out mid-session.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if actor != nil && actor.ID == id {
		return apperrors.NewForbidden("cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

// SetApproval records the super admin review decision for an account.
func (s *UserService) SetApproval(ctx context.Context, id int64, status domain.ApprovalStatus) (*domain.User, error) {
	switch status {
	case domain.ApprovalApproved, domain.ApprovalRejected, domain.ApprovalPending:
	default:
		return nil, apperrors.NewValidationError("invalid approval status", map[string]any{"approval_status": status})
	}
	if err := s.users.UpdateApproval(ctx, id, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("approval updated",
		zap.Int64("user_id", id),
		zap.String("approval_status", string(status)))
	return user, nil
}
