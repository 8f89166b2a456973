package services

import (
	"context"
	"testing"

	"github.com/OK4UK/academy-service/internal/models"
)

func TestNavigationGetNav(t *testing.T) {
	svc := NewNavigationService(testLogger())

	tests := []struct {
		name      string
		role      models.UserRole
		wantFirst string
		wantErr   bool
	}{
		{name: "admin", role: models.RoleAdmin, wantFirst: "/admin"},
		{name: "student", role: models.RoleStudent, wantFirst: "/student"},
		{name: "assessor", role: models.RoleAssessor, wantFirst: "/assessor"},
		{name: "unknown role", role: "superuser", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetNav(context.Background(), tt.role, "")
			if tt.wantErr {
				if err == nil {
					t.Fatal("GetNav() should fail for unknown roles")
				}
				return
			}
			if err != nil {
				t.Fatalf("GetNav() error = %v", err)
			}
			if len(resp.Items) == 0 {
				t.Fatal("GetNav() returned no items")
			}
			if resp.Items[0].URL != tt.wantFirst {
				t.Errorf("GetNav() overview url = %q, want %q", resp.Items[0].URL, tt.wantFirst)
			}
			for _, item := range resp.Items[1:] {
				if item.URL != "/"+string(tt.role)+"/"+item.Slug {
					t.Errorf("GetNav() item url = %q for slug %q", item.URL, item.Slug)
				}
			}
		})
	}
}

func TestNavigationGetNavActiveItem(t *testing.T) {
	svc := NewNavigationService(testLogger())

	tests := []struct {
		name       string
		section    string
		wantActive string // slug of the entry that should be active
	}{
		{name: "dashboard root activates overview", section: "", wantActive: ""},
		{name: "overview section activates overview", section: "overview", wantActive: ""},
		{name: "users section activates users", section: "users", wantActive: "users"},
		{name: "slashes trimmed", section: "/courses/", wantActive: "courses"},
		{name: "nested section activates first segment", section: "users/42", wantActive: "users"},
		{name: "unknown section activates nothing", section: "no-such-page", wantActive: "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetNav(context.Background(), models.RoleAdmin, tt.section)
			if err != nil {
				t.Fatalf("GetNav() error = %v", err)
			}

			var active []string
			for _, item := range resp.Items {
				if item.Active {
					active = append(active, item.Slug)
				}
			}

			if tt.wantActive == "none" {
				if len(active) != 0 {
					t.Fatalf("GetNav(%q) active items = %v, want none", tt.section, active)
				}
				return
			}
			if len(active) != 1 || active[0] != tt.wantActive {
				t.Errorf("GetNav(%q) active items = %v, want [%q]", tt.section, active, tt.wantActive)
			}
		})
	}
}

func TestNavigationResolveSection(t *testing.T) {
	svc := NewNavigationService(testLogger())

	tests := []struct {
		name          string
		role          models.UserRole
		section       string
		wantComponent string
		wantSub       string
	}{
		{name: "empty path is overview", role: models.RoleAdmin, section: "", wantComponent: "overview"},
		{name: "slashes trimmed", role: models.RoleAdmin, section: "/users/", wantComponent: "users"},
		{name: "built admin surface", role: models.RoleAdmin, section: "courses", wantComponent: "courses"},
		{name: "nested path keeps subsection", role: models.RoleAdmin, section: "account/settings", wantComponent: "account", wantSub: "settings"},
		{name: "unbuilt admin surface", role: models.RoleAdmin, section: "reports", wantComponent: SectionUnderConstruction},
		{name: "admin surface not shared with students", role: models.RoleStudent, section: "users", wantComponent: SectionUnderConstruction},
		{name: "student account", role: models.RoleStudent, section: "account", wantComponent: "account"},
		{name: "assessor unbuilt surface", role: models.RoleAssessor, section: "assessments", wantComponent: SectionUnderConstruction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.ResolveSection(context.Background(), tt.role, tt.section)
			if err != nil {
				t.Fatalf("ResolveSection() error = %v", err)
			}
			if resp.Component != tt.wantComponent {
				t.Errorf("ResolveSection(%q) component = %q, want %q", tt.section, resp.Component, tt.wantComponent)
			}
			if tt.wantSub != "" {
				if resp.Props == nil || resp.Props["subsection"] != tt.wantSub {
					t.Errorf("ResolveSection(%q) props = %v, want subsection %q", tt.section, resp.Props, tt.wantSub)
				}
			}
		})
	}
}

func TestNavigationResolveSectionUnknownRole(t *testing.T) {
	svc := NewNavigationService(testLogger())

	if _, err := svc.ResolveSection(context.Background(), "superuser", "overview"); err == nil {
		t.Fatal("ResolveSection() should fail for unknown roles")
	}
}

func TestIsActiveNavItem(t *testing.T) {
	tests := []struct {
		name    string
		section string
		slug    string
		want    bool
	}{
		{name: "overview entry on root", section: "", slug: "", want: true},
		{name: "overview entry on overview", section: "overview", slug: "", want: true},
		{name: "overview entry elsewhere", section: "users", slug: "", want: false},
		{name: "matching slug", section: "users", slug: "users", want: true},
		{name: "different slug", section: "courses", slug: "users", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsActiveNavItem(tt.section, tt.slug); got != tt.want {
				t.Errorf("IsActiveNavItem(%q, %q) = %v, want %v", tt.section, tt.slug, got, tt.want)
			}
		})
	}
}
