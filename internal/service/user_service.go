package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prperemyshlev/oauth-broker/internal/domain"
	"github.com/prperemyshlev/oauth-broker/internal/dto"
	"github.com/prperemyshlev/oauth-broker/internal/repository"
	"github.com/prperemyshlev/oauth-broker/internal/utils"
	"go.uber.org/zap"
)

// userService implements UserService interface
type userService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Exists checks that the user, and the hash when given, match a stored record
func (s *userService) Exists(ctx context.Context, userID, userHash string) domain.LookupResult {
	found, err := s.userRepo.Exists(ctx, userID, userHash)
	if err != nil {
		s.logger.Error("User lookup failed", zap.Error(err))
		return domain.LookupResult{
			Found:      false,
			StatusCode: http.StatusServiceUnavailable,
			Message:    err.Error(),
		}
	}

	if !found {
		return domain.LookupResult{Found: false, StatusCode: http.StatusNotFound, Message: "User not found"}
	}

	return domain.LookupResult{Found: true, StatusCode: http.StatusOK, Message: "User exists"}
}

// GetStatus returns the onboarding projection of a user, looked up by id or by session id
func (s *userService) GetStatus(ctx context.Context, req *dto.StatusRequest) (*dto.StatusResponse, error) {
	userID := utils.SanitizeIdentifier(req.UserID)
	sessionID := utils.SanitizeIdentifier(req.SessionID)

	var (
		user *domain.User
		err  error
	)

	switch {
	case userID != "":
		if !utils.ValidateUUID(userID) {
			return nil, fmt.Errorf("%w: user_id must be a valid UUID", domain.ErrInvalidRequest)
		}
		user, err = s.userRepo.GetByID(ctx, userID)
	case sessionID != "":
		user, err = s.userRepo.GetByHash(ctx, sessionID)
	default:
		return nil, fmt.Errorf("%w: user_id or session_id is required", domain.ErrInvalidRequest)
	}

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user status: %w", err)
	}

	resp := &dto.StatusResponse{
		Name:            user.Name,
		Email:           user.Email,
		Status:          user.Status,
		EmailProvider:   user.EmailProvider,
		InvoiceProvider: user.InvoiceProvider,
	}
	if userID == "" {
		resp.ID = user.ID
		if user.UserHash != nil {
			resp.UserHash = *user.UserHash
		}
	}

	return resp, nil
}
