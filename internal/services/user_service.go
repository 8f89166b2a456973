package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/OK4UK/academy-service/internal/cache"
	"github.com/OK4UK/academy-service/internal/events"
	"github.com/OK4UK/academy-service/internal/export"
	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
	"github.com/OK4UK/academy-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	cache     *cache.CacheManager
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, cacheManager *cache.CacheManager) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		cache:     cacheManager,
	}
}

// ===== ADMIN CRUD OPERATIONS =====

// Create provisions an account with the identity provider and mirrors it
// locally. If the local insert fails the identity account is removed again
// so the two stores stay consistent.
func (s *userService) Create(ctx context.Context, req *CreateProfileRequest, adminID string) (*models.Profile, error) {
	s.logger.Info("Creating user", "email", req.Email, "role", req.Role, "admin_id", adminID)

	if errors := s.validator.GetBusinessValidator().ValidateProfileCreate(req); len(errors) > 0 {
		return nil, errors
	}

	return s.provisionAccount(ctx, req.Email, req.Password, req.FullName, req.Role)
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.repo.Profile().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *userService) Update(ctx context.Context, id string, req *UpdateProfileRequest, adminID string) (*models.Profile, error) {
	s.logger.Info("Updating user", "profile_id", id, "admin_id", adminID)

	if err := s.validator.Validate(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	profile, err := s.repo.Profile().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.Role != nil {
		profile.Role = *req.Role
	}

	if err := s.repo.Profile().Update(ctx, nil, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.invalidateProfileCaches(ctx, id)
	return profile, nil
}

// Delete removes the identity account first, then the local mirror. Running
// in that order means a half-failed delete leaves a local row that still
// points at nothing, which the next bulk cleanup removes, rather than an
// orphaned identity account that can still log in.
func (s *userService) Delete(ctx context.Context, id string, adminID string) error {
	s.logger.Info("Deleting user", "profile_id", id, "admin_id", adminID)

	if _, err := s.repo.Profile().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to get profile: %w", err)
	}

	if err := s.repo.Identity().DeleteUser(ctx, id); err != nil {
		s.logger.Warn("Identity delete failed, keeping local profile", "profile_id", id, "error", err)
		return fmt.Errorf("failed to delete identity account: %w", err)
	}

	if err := s.repo.Profile().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	s.invalidateProfileCaches(ctx, id)
	s.publishEvent(ctx, events.EventUserDeleted, map[string]interface{}{
		"profile_id": id,
		"deleted_by": adminID,
	})

	return nil
}

func (s *userService) DeleteBatch(ctx context.Context, ids []string, adminID string) (*BulkDeleteResponse, error) {
	s.logger.Info("Bulk deleting users", "count", len(ids), "admin_id", adminID)

	if len(ids) == 0 {
		return &BulkDeleteResponse{Requested: 0, Deleted: 0}, nil
	}

	// Identity accounts go one at a time; the provider has no batch API.
	removable := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := s.repo.Identity().DeleteUser(ctx, id); err != nil {
			s.logger.Warn("Skipping user, identity delete failed", "profile_id", id, "error", err)
			continue
		}
		removable = append(removable, id)
	}

	var deleted int64
	if len(removable) > 0 {
		err := s.repo.WithTransaction(ctx, func(r repositories.Repository) error {
			var txErr error
			deleted, txErr = r.Profile().DeleteBatch(ctx, nil, removable)
			return txErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to bulk delete profiles: %w", err)
		}
	}

	for _, id := range removable {
		s.invalidateProfileCaches(ctx, id)
	}
	s.publishEvent(ctx, events.EventUserDeleted, map[string]interface{}{
		"profile_ids": removable,
		"deleted_by":  adminID,
	})

	return &BulkDeleteResponse{Requested: len(ids), Deleted: deleted}, nil
}

func (s *userService) List(ctx context.Context, filters repositories.ProfileFilters) (*ProfileListResponse, error) {
	profiles, total, err := s.repo.Profile().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return &ProfileListResponse{Profiles: profiles, Total: total}, nil
}

func (s *userService) Search(ctx context.Context, query string, filters repositories.ProfileFilters) (*ProfileListResponse, error) {
	profiles, total, err := s.repo.Profile().Search(ctx, nil, query, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	return &ProfileListResponse{Profiles: profiles, Total: total}, nil
}

// ===== AUTH FLOWS =====

// Register is the public sign-up path. New accounts always start as
// students; role changes are an admin operation.
func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*models.Profile, error) {
	s.logger.Info("Registering user", "email", req.Email)

	if err := s.validator.Validate(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	return s.provisionAccount(ctx, req.Email, req.Password, req.FullName, models.RoleStudent)
}

// Login exchanges the provider's authorization code for a token and tells
// the caller which dashboard to land on.
func (s *userService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	token, err := s.repo.Identity().ExchangeToken(ctx, req.Code, req.State)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	identityProfile, err := s.repo.Identity().ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	// Prefer the local mirror; it is the source of truth for role. A
	// missing mirror means the account was created out of band, so adopt it.
	profile, err := s.repo.Profile().GetByID(ctx, nil, identityProfile.ID)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		profile = identityProfile
		if err := s.repo.Profile().Create(ctx, nil, profile); err != nil {
			return nil, fmt.Errorf("failed to mirror profile: %w", err)
		}
	}

	s.logger.Info("User logged in", "profile_id", profile.ID, "role", profile.Role)

	return &LoginResponse{
		Token:    token,
		Profile:  profile,
		Redirect: "/" + string(profile.Role),
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.GetByID(ctx, userID)
}

// UpdateOwnProfile is the account-settings path. The identity provider is
// updated first so a failure there leaves both stores unchanged; role is
// not touchable here.
func (s *userService) UpdateOwnProfile(ctx context.Context, userID string, req *UpdateAccountRequest) (*models.Profile, error) {
	s.logger.Info("Updating own profile", "profile_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	profile, err := s.repo.Profile().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}

	if err := s.repo.Identity().UpdateUser(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update identity account: %w", err)
	}

	if err := s.repo.Profile().Update(ctx, nil, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.invalidateProfileCaches(ctx, userID)
	return profile, nil
}

// ResendVerification triggers a fresh verification email for accounts that
// have not confirmed their address yet.
func (s *userService) ResendVerification(ctx context.Context, userID string) error {
	profile, err := s.repo.Profile().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to get profile: %w", err)
	}

	if profile.EmailVerified {
		return &BusinessRuleError{
			Rule:    "email_verified",
			Message: "email address is already verified",
			Context: map[string]interface{}{"profile_id": userID},
		}
	}

	if err := s.repo.Identity().ResendVerification(ctx, userID); err != nil {
		return fmt.Errorf("failed to resend verification email: %w", err)
	}

	s.logger.Info("Verification email resent", "profile_id", userID)
	return nil
}

// ===== EXPORT OPERATIONS =====

func (s *userService) ExportCSV(ctx context.Context, filters repositories.ProfileFilters) (*ExportFile, error) {
	filters.Limit = 0
	filters.Offset = 0

	profiles, _, err := s.repo.Profile().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles for export: %w", err)
	}

	headers := []string{"ID", "Full Name", "Email", "Role", "Created At"}
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []string{
			p.ID,
			p.FullName,
			p.Email,
			string(p.Role),
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return &ExportFile{
		Filename:    "users.csv",
		ContentType: "text/csv",
		Data:        export.WriteCSV(headers, rows),
	}, nil
}

// ===== HELPER METHODS =====

func (s *userService) provisionAccount(ctx context.Context, email, password, fullName string, role models.UserRole) (*models.Profile, error) {
	exists, err := s.repo.Profile().ExistsByEmail(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("email check failed: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	identityID, err := s.repo.Identity().SignUp(ctx, email, password, fullName, role)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity account: %w", err)
	}

	profile := &models.Profile{
		ID:       identityID,
		FullName: fullName,
		Email:    email,
		Role:     role,
	}

	if err := s.repo.Profile().Create(ctx, nil, profile); err != nil {
		// Roll back the identity account so the email can be retried.
		if delErr := s.repo.Identity().DeleteUser(ctx, identityID); delErr != nil {
			s.logger.Error("Failed to roll back identity account", "identity_id", identityID, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.publishEvent(ctx, events.EventUserRegistered, map[string]interface{}{
		"profile_id": profile.ID,
		"role":       string(role),
	})

	s.logger.Info("User account created", "profile_id", profile.ID, "role", role)
	return profile, nil
}

func (s *userService) invalidateProfileCaches(ctx context.Context, profileID string) {
	if s.cache == nil {
		return
	}
	cache.InvalidateProfileCache(ctx, s.cache, profileID)
}

func (s *userService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
