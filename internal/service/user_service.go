package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kidtube/internal/models"
	"kidtube/internal/repository"
	"kidtube/internal/verification"
)

// UserService owns accounts: registration, login, profile reads and
// updates, and the verification-code password flow.
type UserService struct {
	repo  repository.UserRepository
	codes verification.CodeVerifier
}

// NewUserService builds a UserService. codes may be nil, which
// disables verification-code checks on register and password change.
func NewUserService(repo repository.UserRepository, codes verification.CodeVerifier) *UserService {
	return &UserService{repo: repo, codes: codes}
}

// Register creates an account. Username, nickname, and email must each
// be unused. When a verification code is supplied it must match the
// code issued for the email.
func (s *UserService) Register(ctx context.Context, user *models.User, code string) error {
	if strings.TrimSpace(user.Username) == "" {
		return models.NewValidationError("username is required")
	}
	if strings.TrimSpace(user.Password) == "" {
		return models.NewValidationError("password is required")
	}

	if taken, err := s.repo.ExistsByUsername(ctx, user.Username); err != nil {
		return models.NewInternalError("failed to check username", err)
	} else if taken {
		return models.NewConflictError("username already exists")
	}
	if user.Nickname != "" {
		if taken, err := s.repo.ExistsByNickname(ctx, user.Nickname); err != nil {
			return models.NewInternalError("failed to check nickname", err)
		} else if taken {
			return models.NewConflictError("nickname already exists")
		}
	}
	if user.Email != "" {
		if taken, err := s.repo.ExistsByEmail(ctx, user.Email); err != nil {
			return models.NewInternalError("failed to check email", err)
		} else if taken {
			return models.NewConflictError("email already exists")
		}
	}

	if code != "" && s.codes != nil {
		ok, err := s.codes.Verify(ctx, user.Email, code)
		if err != nil {
			return models.NewInternalError("failed to verify code", err)
		}
		if !ok {
			return models.NewValidationError("invalid verification code")
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError("failed to hash password", err)
	}
	user.Password = string(hashed)

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("username already exists")
		}
		return models.NewInternalError("failed to create user", err)
	}

	if code != "" && s.codes != nil {
		_ = s.codes.Invalidate(ctx, user.Email)
	}
	return nil
}

// Create stores an account without uniqueness or code checks. It backs
// the legacy admin endpoint; Register is the normal path.
func (s *UserService) Create(ctx context.Context, user *models.User) error {
	if strings.TrimSpace(user.Username) == "" {
		return models.NewValidationError("username is required")
	}
	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.NewInternalError("failed to hash password", err)
		}
		user.Password = string(hashed)
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("username already exists")
		}
		return models.NewInternalError("failed to create user", err)
	}
	return nil
}

// Login authenticates by username, falling back to email when no
// account carries that username. A match failure of either kind is the
// same NotFound so callers cannot probe which part was wrong.
func (s *UserService) Login(ctx context.Context, account, password string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, account)
	if err != nil {
		return nil, models.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		user, err = s.repo.FindByEmail(ctx, account)
		if err != nil {
			return nil, models.NewInternalError("failed to look up user", err)
		}
	}
	if user == nil {
		return nil, models.NewNotFoundError("user", account)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewNotFoundError("user", account)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user", id)
		}
		return nil, models.NewInternalError("failed to get user", err)
	}
	return user, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, models.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, models.NewNotFoundError("user", username)
	}
	return user, nil
}

func (s *UserService) FindByNickname(ctx context.Context, nickname string) (*models.User, error) {
	user, err := s.repo.FindByNickname(ctx, nickname)
	if err != nil {
		return nil, models.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, models.NewNotFoundError("user", nickname)
	}
	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, models.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, models.NewNotFoundError("user", email)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, models.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// Update edits profile fields. The stored password hash survives the
// update untouched; a username change is rechecked for uniqueness.
func (s *UserService) Update(ctx context.Context, user *models.User) error {
	existing, err := s.repo.GetByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("user", user.ID)
		}
		return models.NewInternalError("failed to get user", err)
	}

	if user.Username != "" && user.Username != existing.Username {
		if taken, err := s.repo.ExistsByUsername(ctx, user.Username); err != nil {
			return models.NewInternalError("failed to check username", err)
		} else if taken {
			return models.NewConflictError("username already exists")
		}
	} else {
		user.Username = existing.Username
	}

	user.Password = existing.Password
	user.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, user); err != nil {
		return models.NewInternalError("failed to update user", err)
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("user", id)
		}
		return models.NewInternalError("failed to get user", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return models.NewInternalError("failed to delete user", err)
	}
	return nil
}

func (s *UserService) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, models.NewInternalError("failed to check username", err)
	}
	return exists, nil
}

func (s *UserService) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	exists, err := s.repo.ExistsByNickname(ctx, nickname)
	if err != nil {
		return false, models.NewInternalError("failed to check nickname", err)
	}
	return exists, nil
}

func (s *UserService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, models.NewInternalError("failed to check email", err)
	}
	return exists, nil
}

// ChangePassword resets the password for the account with the given
// email after the verification code checks out. It reports whether the
// reset happened; a wrong code or unknown email is false, not an
// error.
func (s *UserService) ChangePassword(ctx context.Context, email, code, newPassword string) (bool, error) {
	if strings.TrimSpace(newPassword) == "" {
		return false, models.NewValidationError("password is required")
	}

	if s.codes != nil {
		ok, err := s.codes.Verify(ctx, email, code)
		if err != nil {
			return false, models.NewInternalError("failed to verify code", err)
		}
		if !ok {
			return false, nil
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return false, models.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return false, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, models.NewInternalError("failed to hash password", err)
	}
	user.Password = string(hashed)

	if err := s.repo.Update(ctx, user); err != nil {
		return false, models.NewInternalError("failed to update password", err)
	}
	if s.codes != nil {
		_ = s.codes.Invalidate(ctx, email)
	}
	return true, nil
}
