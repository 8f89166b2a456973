package casdoor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

type IdentityCasdoor struct {
	client *casdoorsdk.Client
	redis  *redis.Client
	config CasdoorConfig

	// Cache settings
	cachePrefix string
	cacheTTL    time.Duration
}

func NewIdentityCasdoor(config CasdoorConfig, redisClient *redis.Client) repositories.IdentityRepository {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &IdentityCasdoor{
		client:      client,
		redis:       redisClient,
		config:      config,
		cachePrefix: "identity:",
		cacheTTL:    15 * time.Minute, // Cache for 15 minutes
	}
}

// ===== ACCOUNT LIFECYCLE =====

// SignUp creates an account with the identity provider and returns its ID.
func (u *IdentityCasdoor) SignUp(ctx context.Context, email, password, name string, role models.UserRole) (string, error) {
	id := uuid.New().String()

	casdoorUser := &casdoorsdk.User{
		Owner:       u.config.OrganizationName,
		Name:        strings.Split(email, "@")[0] + "-" + id[:8],
		Id:          id,
		CreatedTime: time.Now().Format(time.RFC3339),
		DisplayName: name,
		Email:       email,
		Password:    password,
		Type:        string(role),
	}

	ok, err := u.client.AddUser(casdoorUser)
	if err != nil {
		return "", fmt.Errorf("failed to create identity user: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("identity provider rejected sign-up for %s", email)
	}

	return id, nil
}

// UpdateUser pushes the mutable profile attributes (display name, avatar)
// back to the identity provider and drops any cached copies.
func (u *IdentityCasdoor) UpdateUser(ctx context.Context, profile *models.Profile) error {
	casdoorUser, err := u.client.GetUserByUserId(profile.ID)
	if err != nil {
		return fmt.Errorf("failed to get identity user: %w", err)
	}
	if casdoorUser == nil {
		return fmt.Errorf("identity user not found with ID %s", profile.ID)
	}

	casdoorUser.DisplayName = profile.FullName
	if profile.AvatarURL != nil {
		casdoorUser.Avatar = *profile.AvatarURL
	}

	ok, err := u.client.UpdateUser(casdoorUser)
	if err != nil {
		return fmt.Errorf("failed to update identity user: %w", err)
	}
	if !ok {
		return fmt.Errorf("identity provider rejected update for %s", profile.ID)
	}

	u.invalidateCache(ctx, fmt.Sprintf("id:%s", profile.ID))
	u.invalidateCache(ctx, fmt.Sprintf("email:%s", casdoorUser.Email))

	return nil
}

// DeleteUser removes the account from the identity provider and drops any
// cached copies.
func (u *IdentityCasdoor) DeleteUser(ctx context.Context, id string) error {
	casdoorUser, err := u.client.GetUserByUserId(id)
	if err != nil {
		return fmt.Errorf("failed to get identity user: %w", err)
	}
	if casdoorUser == nil {
		return fmt.Errorf("identity user not found with ID %s", id)
	}

	ok, err := u.client.DeleteUser(casdoorUser)
	if err != nil {
		return fmt.Errorf("failed to delete identity user: %w", err)
	}
	if !ok {
		return fmt.Errorf("identity provider rejected delete for %s", id)
	}

	u.invalidateCache(ctx, fmt.Sprintf("id:%s", id))
	u.invalidateCache(ctx, fmt.Sprintf("email:%s", casdoorUser.Email))

	return nil
}

// ResendVerification asks the provider to send a fresh verification email.
// Already-verified accounts are a no-op.
func (u *IdentityCasdoor) ResendVerification(ctx context.Context, id string) error {
	casdoorUser, err := u.client.GetUserByUserId(id)
	if err != nil {
		return fmt.Errorf("failed to get identity user: %w", err)
	}
	if casdoorUser == nil {
		return fmt.Errorf("identity user not found with ID %s", id)
	}
	if casdoorUser.EmailVerified {
		return nil
	}

	verifyURL := fmt.Sprintf("%s/verify/%s", u.config.Endpoint, casdoorUser.Name)
	content := fmt.Sprintf("Please verify your email address: %s", verifyURL)
	if err := u.client.SendEmail("Verify your email", content, u.config.ApplicationName, casdoorUser.Email); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

// ===== BASIC READ OPERATIONS =====

// GetByID retrieves an identity account by ID
func (u *IdentityCasdoor) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	// Try cache first
	cacheKey := fmt.Sprintf("id:%s", id)
	if cached, err := u.getProfileFromCache(ctx, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	casdoorUser, err := u.client.GetUserByUserId(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user not found with ID %s", id)
	}

	profile := u.convertCasdoorUserToProfile(casdoorUser)
	if profile == nil {
		return nil, fmt.Errorf("failed to convert Casdoor user")
	}

	// Cache the result
	u.setProfileCache(ctx, cacheKey, profile)
	u.setProfileCache(ctx, fmt.Sprintf("email:%s", profile.Email), profile)

	return profile, nil
}

// GetByEmail retrieves an identity account by email
func (u *IdentityCasdoor) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	cacheKey := fmt.Sprintf("email:%s", email)
	if cached, err := u.getProfileFromCache(ctx, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	casdoorUser, err := u.client.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user not found with email %s", email)
	}

	profile := u.convertCasdoorUserToProfile(casdoorUser)
	if profile == nil {
		return nil, fmt.Errorf("failed to convert Casdoor user")
	}

	u.setProfileCache(ctx, cacheKey, profile)
	u.setProfileCache(ctx, fmt.Sprintf("id:%s", profile.ID), profile)

	return profile, nil
}

// ===== TOKEN EXCHANGE =====

// ExchangeToken swaps an authorization code for an access token.
func (u *IdentityCasdoor) ExchangeToken(ctx context.Context, code, state string) (string, error) {
	token, err := u.client.GetOAuthToken(code, state)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	return token.AccessToken, nil
}

// ParseToken validates an access token and returns the profile it carries.
func (u *IdentityCasdoor) ParseToken(token string) (*models.Profile, error) {
	claims, err := u.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	profile := u.convertCasdoorUserToProfile(&claims.User)
	if profile == nil {
		return nil, fmt.Errorf("token carries no user")
	}

	return profile, nil
}

// ===== CACHE METHODS =====

func (u *IdentityCasdoor) getCacheKey(key string) string {
	return fmt.Sprintf("%s%s", u.cachePrefix, key)
}

func (u *IdentityCasdoor) getProfileFromCache(ctx context.Context, key string) (*models.Profile, error) {
	if u.redis == nil {
		return nil, nil // Cache not available
	}

	cacheKey := u.getCacheKey(key)
	data, err := u.redis.Get(ctx, cacheKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Not found in cache
		}
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var profile models.Profile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached profile: %w", err)
	}

	return &profile, nil
}

func (u *IdentityCasdoor) setProfileCache(ctx context.Context, key string, profile *models.Profile) error {
	if u.redis == nil {
		return nil // Cache not available
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile for cache: %w", err)
	}

	cacheKey := u.getCacheKey(key)
	return u.redis.Set(ctx, cacheKey, data, u.cacheTTL).Err()
}

func (u *IdentityCasdoor) invalidateCache(ctx context.Context, key string) {
	if u.redis == nil {
		return
	}
	u.redis.Del(ctx, u.getCacheKey(key))
}

// ===== CONVERSION METHODS =====

// convertCasdoorUserToProfile converts a Casdoor user to the internal model
func (u *IdentityCasdoor) convertCasdoorUserToProfile(casdoorUser *casdoorsdk.User) *models.Profile {
	if casdoorUser == nil {
		return nil
	}

	var createdAt, updatedAt time.Time
	if casdoorUser.CreatedTime != "" {
		createdAt, _ = time.Parse(time.RFC3339, casdoorUser.CreatedTime)
	}
	if casdoorUser.UpdatedTime != "" {
		updatedAt, _ = time.Parse(time.RFC3339, casdoorUser.UpdatedTime)
	}

	return &models.Profile{
		ID:            casdoorUser.Id,
		FullName:      casdoorUser.DisplayName,
		Email:         casdoorUser.Email,
		Role:          u.convertCasdoorRolesToModel(casdoorUser),
		AvatarURL:     &casdoorUser.Avatar,
		EmailVerified: casdoorUser.EmailVerified,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

func (u *IdentityCasdoor) convertCasdoorRolesToModel(casdoorUser *casdoorsdk.User) models.UserRole {
	if casdoorUser.IsAdmin {
		return models.RoleAdmin
	}

	for _, casdoorRole := range casdoorUser.Roles {
		if role, ok := u.mapSingleCasdoorRole(casdoorRole.Name); ok {
			return role
		}
	}

	if role, ok := u.mapSingleCasdoorRole(casdoorUser.Type); ok {
		return role
	}

	return models.RoleStudent // Default role
}

func (u *IdentityCasdoor) mapSingleCasdoorRole(casdoorType string) (models.UserRole, bool) {
	switch strings.ToLower(casdoorType) {
	case "admin", "administrator":
		return models.RoleAdmin, true
	case "assessor", "examiner":
		return models.RoleAssessor, true
	case "student", "learner":
		return models.RoleStudent, true
	default:
		return "", false
	}
}
