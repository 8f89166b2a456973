package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/OK4UK/academy-service/internal/config"
	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
)

const loginRedirect = "/login"

// AccessGuard authenticates requests against the identity provider and
// enforces the role-area boundary of the dashboard routes.
//
// Two failure modes are deliberately distinct: a missing or invalid token
// means "go log in" (401 with a redirect), while a valid user asking for
// another role's area gets the same 404 an unknown path would. Role areas
// are invisible to anyone outside them, admins included.
type AccessGuard struct {
	client      *casdoorsdk.Client
	profileRepo repositories.ProfileRepository
	config      config.CasdoorConfig
}

func NewAccessGuard(cfg config.CasdoorConfig, profileRepo repositories.ProfileRepository) *AccessGuard {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)

	return &AccessGuard{
		client:      client,
		profileRepo: profileRepo,
		config:      cfg,
	}
}

// AuthMiddleware validates the bearer token and loads the caller's profile
// into the request context. Unauthenticated callers are told where to log
// in; they are never shown what they were denied.
func (ag *AccessGuard) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			ag.rejectUnauthenticated(c, "authorization required")
			return
		}

		claims, err := ag.client.ParseJwtToken(token)
		if err != nil {
			ag.rejectUnauthenticated(c, fmt.Sprintf("invalid token: %v", err))
			return
		}

		profile, err := ag.resolveProfile(c, claims)
		if err != nil {
			ag.rejectUnauthenticated(c, "unknown account")
			return
		}

		c.Set("user_id", profile.ID)
		c.Set("user", profile)
		c.Set("user_role", profile.Role)
		c.Set("user_email", profile.Email)

		c.Next()
	}
}

// RoleAreaMiddleware guards the /:role dashboard groups. The requested
// area must be a known dashboard role AND match the caller's own role;
// anything else is a plain 404, exactly as if the path did not exist.
func (ag *AccessGuard) RoleAreaMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		area := c.Param("role")
		if !models.IsDashboardRole(area) {
			notFound(c)
			return
		}

		role, ok := roleFromContext(c)
		if !ok || string(role) != area {
			notFound(c)
			return
		}

		c.Next()
	}
}

// RequireArea pins a route group to one role area. Used under
// RoleAreaMiddleware so that, say, /student/my-courses cannot exist in the
// admin area even though both hang off the same :role parameter.
func (ag *AccessGuard) RequireArea(area models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := roleFromContext(c)
		if !ok || role != area {
			notFound(c)
			return
		}
		c.Next()
	}
}

// RequireRoleMiddleware gates non-dashboard routes on role. Unlike the
// area guard this is an explicit 403: the route exists, the caller just
// is not allowed to use it.
func (ag *AccessGuard) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := roleFromContext(c)
		if !ok {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "user role not found in context",
			})
			c.Abort()
			return
		}

		for _, required := range requiredRoles {
			if role == required {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "insufficient permissions",
		})
		c.Abort()
	}
}

// ===== HELPERS =====

func (ag *AccessGuard) rejectUnauthenticated(c *gin.Context, reason string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"message":  reason,
		"redirect": loginRedirect,
	})
	c.Abort()
}

// resolveProfile prefers the local mirror, which owns the role, and falls
// back to the token claims when the mirror has no row yet.
func (ag *AccessGuard) resolveProfile(c *gin.Context, claims *casdoorsdk.Claims) (*models.Profile, error) {
	if claims.Id == "" {
		return nil, fmt.Errorf("token carries no user id")
	}

	profile, err := ag.profileRepo.GetByID(c.Request.Context(), nil, claims.Id)
	if err == nil {
		return profile, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, err
	}

	return profileFromClaims(claims), nil
}

func profileFromClaims(claims *casdoorsdk.Claims) *models.Profile {
	avatar := claims.User.Avatar
	return &models.Profile{
		ID:            claims.Id,
		FullName:      claims.User.DisplayName,
		Email:         claims.User.Email,
		Role:          mapClaimsRole(claims.User.Type),
		AvatarURL:     &avatar,
		EmailVerified: claims.User.EmailVerified,
	}
}

func mapClaimsRole(casdoorType string) models.UserRole {
	switch strings.ToLower(casdoorType) {
	case "admin", "administrator":
		return models.RoleAdmin
	case "assessor", "examiner":
		return models.RoleAssessor
	default:
		return models.RoleStudent
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}

	return parts[1], true
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Message: "not found"})
	c.Abort()
}

func roleFromContext(c *gin.Context) (models.UserRole, bool) {
	v, exists := c.Get("user_role")
	if !exists {
		return "", false
	}
	role, ok := v.(models.UserRole)
	return role, ok
}

// GetUserFromContext extracts the authenticated profile from the context.
func GetUserFromContext(c *gin.Context) (*models.Profile, error) {
	v, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	profile, ok := v.(*models.Profile)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return profile, nil
}

// GetUserRoleFromContext extracts the caller's role from the context.
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, error) {
	role, ok := roleFromContext(c)
	if !ok {
		return "", fmt.Errorf("user role not found in context")
	}
	return role, nil
}
