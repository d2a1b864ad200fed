package service

import (
	"context"
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

// UserService implements user account operations.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// PromoteToAdmin grants the target account the admin role.
func (s *UserService) PromoteToAdmin(ctx context.Context, actor models.Principal, targetID uint) (*models.User, error) {
	if !actor.Elevated() {
		return nil, models.NewForbiddenError("Promoting users requires admin access")
	}

	if err := s.userRepo.UpdateRole(ctx, targetID, models.RoleAdmin); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", targetID)
		}
		return nil, models.NewInternalError(err)
	}
	return s.userRepo.GetByID(ctx, targetID)
}
