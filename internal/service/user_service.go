package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/lenden-labs/lending-ledger/internal/domain"
	customError "github.com/lenden-labs/lending-ledger/pkg/errors"
)

func (s *LedgerService) CreateUser(ctx context.Context, request *domain.CreateUserRequest) (*domain.User, error) {
	now := s.nowFn()
	user := &domain.User{
		ID:          uuid.New(),
		Username:    request.Username,
		DisplayName: request.DisplayName,
		Role:        request.Role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return user, nil
}

func (s *LedgerService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.UserRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapUserNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return user, nil
}

func (s *LedgerService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.UserRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return users, nil
}

func (s *LedgerService) UpdateUser(ctx context.Context, id uuid.UUID, request *domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.UserRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapUserNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if request.DisplayName != nil {
		user.DisplayName = *request.DisplayName
	}
	if request.Role != nil {
		user.Role = *request.Role
	}
	user.UpdatedAt = s.nowFn()

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return user, nil
}

func (s *LedgerService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.UserRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapUserNotFound(id.String())
		}
		return customError.WrapDatabaseError(err)
	}

	if err := s.UserRepo.Delete(ctx, id); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}
