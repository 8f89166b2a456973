package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/OK4UK/academy-service/internal/models"
)

const SectionUnderConstruction = "under_construction"

// Role menus. The overview entry has an empty slug so it lands on the
// dashboard root.
var roleMenus = map[models.UserRole][]NavItem{
	models.RoleAdmin: {
		{Label: "Overview", Slug: ""},
		{Label: "Users", Slug: "users"},
		{Label: "Courses", Slug: "courses"},
		{Label: "Assign Assessors", Slug: "assign-assessors"},
		{Label: "Reports", Slug: "reports"},
	},
	models.RoleAssessor: {
		{Label: "Overview", Slug: ""},
		{Label: "Assigned Courses", Slug: "assigned-courses"},
		{Label: "Assessments", Slug: "assessments"},
		{Label: "Payments", Slug: "payments"},
	},
	models.RoleStudent: {
		{Label: "Overview", Slug: ""},
		{Label: "My Courses", Slug: "my-courses"},
		{Label: "Progress", Slug: "progress"},
		{Label: "Certificates", Slug: "certificates"},
		{Label: "Payments", Slug: "payments"},
		{Label: "Evidences", Slug: "evidences"},
	},
}

// Sections each role has a built surface for. Anything else resolves to
// the under-construction placeholder.
var roleSections = map[models.UserRole]map[string]bool{
	models.RoleAdmin: {
		"overview": true,
		"users":    true,
		"courses":  true,
		"account":  true,
	},
	models.RoleStudent: {
		"overview": true,
		"account":  true,
	},
	models.RoleAssessor: {
		"overview": true,
		"account":  true,
	},
}

type navigationService struct {
	logger *slog.Logger
}

func NewNavigationService(logger *slog.Logger) NavigationService {
	return &navigationService{logger: logger}
}

// GetNav returns the role's menu with the entry for the currently viewed
// section marked active. Nested sections highlight through their first
// segment, so "account/settings" activates the "account" entry.
func (s *navigationService) GetNav(ctx context.Context, role models.UserRole, section string) (*NavResponse, error) {
	menu, ok := roleMenus[role]
	if !ok {
		return nil, NewPermissionError("", "nav", "read", "unknown role")
	}

	section = strings.Trim(section, "/")
	head, _, _ := strings.Cut(section, "/")

	items := make([]NavItem, len(menu))
	for i, item := range menu {
		items[i] = item
		items[i].URL = navURL(role, item.Slug)
		items[i].Active = IsActiveNavItem(head, item.Slug)
	}

	return &NavResponse{Role: role, Items: items}, nil
}

func (s *navigationService) ResolveSection(ctx context.Context, role models.UserRole, section string) (*SectionResponse, error) {
	sections, ok := roleSections[role]
	if !ok {
		return nil, NewPermissionError("", "section", "read", "unknown role")
	}

	section = strings.Trim(section, "/")
	if section == "" {
		section = "overview"
	}

	// Nested paths like "account/settings" resolve through their first
	// segment; the remainder is passed along as the subsection.
	head, rest, _ := strings.Cut(section, "/")

	resp := &SectionResponse{Role: role, Section: section}
	if !sections[head] {
		resp.Component = SectionUnderConstruction
		return resp, nil
	}

	resp.Component = head
	if rest != "" {
		resp.Props = map[string]interface{}{"subsection": rest}
	}
	return resp, nil
}

// IsActiveNavItem reports whether a nav entry should be highlighted for
// the section currently shown. The overview entry is only active on the
// dashboard root.
func IsActiveNavItem(section, slug string) bool {
	if slug == "" {
		return section == "overview" || section == ""
	}
	return section == slug
}

func navURL(role models.UserRole, slug string) string {
	if slug == "" {
		return "/" + string(role)
	}
	return "/" + string(role) + "/" + slug
}
