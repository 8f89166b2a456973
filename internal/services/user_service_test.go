package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/OK4UK/academy-service/internal/events"
	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/validator"
)

func newUserServiceForTest(repo *fakeRepository) UserService {
	return NewUserService(repo, testLogger(), validator.New(), nil, nil)
}

func TestUserServiceRegisterAlwaysStudent(t *testing.T) {
	repo := newFakeRepository()
	svc := newUserServiceForTest(repo)

	profile, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "jo@example.com",
		Password: "longenough",
		FullName: "Jo Bloggs",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if profile.Role != models.RoleStudent {
		t.Errorf("Register() role = %q, want student", profile.Role)
	}
	if profile.ID == "" {
		t.Error("Register() profile has no identity id")
	}
}

func TestUserServiceRegisterEmailTaken(t *testing.T) {
	repo := newFakeRepository()
	repo.profiles.byID["existing"] = &models.Profile{ID: "existing", Email: "jo@example.com"}
	svc := newUserServiceForTest(repo)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "jo@example.com",
		Password: "longenough",
		FullName: "Jo Bloggs",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestUserServiceProvisionRollsBackIdentity(t *testing.T) {
	repo := newFakeRepository()
	repo.profiles.failCreate = true
	svc := newUserServiceForTest(repo)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "jo@example.com",
		Password: "longenough",
		FullName: "Jo Bloggs",
	})
	if err == nil {
		t.Fatal("Register() should fail when the local insert fails")
	}
	// The identity account created for this sign-up must be removed again.
	if !repo.identity.deleted["idp-1"] {
		t.Error("identity account was not rolled back")
	}
	if len(repo.profiles.byID) != 0 {
		t.Error("no local profile should remain")
	}
}

func TestUserServiceCreateRequiresValidRole(t *testing.T) {
	svc := newUserServiceForTest(newFakeRepository())

	_, err := svc.Create(context.Background(), &CreateProfileRequest{
		Email:    "jo@example.com",
		Password: "longenough",
		FullName: "Jo Bloggs",
		Role:     "superuser",
	}, "admin-1")
	if err == nil {
		t.Fatal("Create() should reject unknown roles")
	}
}

func TestUserServiceLogin(t *testing.T) {
	t.Run("uses local mirror role", func(t *testing.T) {
		repo := newFakeRepository()
		repo.identity.parsed = &models.Profile{ID: "u-1", Email: "jo@example.com", Role: models.RoleStudent}
		// Locally the account was promoted; the mirror wins.
		repo.profiles.byID["u-1"] = &models.Profile{ID: "u-1", Email: "jo@example.com", Role: models.RoleAdmin}

		svc := newUserServiceForTest(repo)
		resp, err := svc.Login(context.Background(), &LoginRequest{Code: "abc", State: "xyz"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if resp.Profile.Role != models.RoleAdmin {
			t.Errorf("Login() role = %q, want admin from the mirror", resp.Profile.Role)
		}
		if resp.Redirect != "/admin" {
			t.Errorf("Login() redirect = %q, want /admin", resp.Redirect)
		}
	})

	t.Run("adopts account created out of band", func(t *testing.T) {
		repo := newFakeRepository()
		repo.identity.parsed = &models.Profile{ID: "u-2", Email: "new@example.com", Role: models.RoleStudent}

		svc := newUserServiceForTest(repo)
		resp, err := svc.Login(context.Background(), &LoginRequest{Code: "abc", State: "xyz"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if resp.Redirect != "/student" {
			t.Errorf("Login() redirect = %q, want /student", resp.Redirect)
		}
		if _, ok := repo.profiles.byID["u-2"]; !ok {
			t.Error("Login() should mirror the unknown account locally")
		}
	})
}

func TestUserServiceUpdateOwnProfile(t *testing.T) {
	repo := newFakeRepository()
	ctx := context.Background()
	repo.profiles.byID["u-1"] = &models.Profile{ID: "u-1", Email: "jo@example.com", FullName: "Jo Bloggs", Role: models.RoleStudent}

	svc := newUserServiceForTest(repo)

	name := "Jo B. Smith"
	avatar := "https://cdn.example.com/jo.png"
	profile, err := svc.UpdateOwnProfile(ctx, "u-1", &UpdateAccountRequest{FullName: &name, AvatarURL: &avatar})
	if err != nil {
		t.Fatalf("UpdateOwnProfile() error = %v", err)
	}
	if profile.FullName != name {
		t.Errorf("UpdateOwnProfile() full_name = %q, want %q", profile.FullName, name)
	}
	if profile.AvatarURL == nil || *profile.AvatarURL != avatar {
		t.Errorf("UpdateOwnProfile() avatar_url = %v, want %q", profile.AvatarURL, avatar)
	}
	if profile.Role != models.RoleStudent {
		t.Errorf("UpdateOwnProfile() role = %q, must stay student", profile.Role)
	}
	if len(repo.identity.updated) != 1 || repo.identity.updated[0].FullName != name {
		t.Error("UpdateOwnProfile() must push the change to the identity provider")
	}
}

func TestUserServiceUpdateOwnProfileIdentityFailure(t *testing.T) {
	repo := newFakeRepository()
	ctx := context.Background()
	repo.profiles.byID["u-1"] = &models.Profile{ID: "u-1", Email: "jo@example.com", FullName: "Jo Bloggs"}
	repo.identity.failUpdate = true

	svc := newUserServiceForTest(repo)

	name := "Jo B. Smith"
	if _, err := svc.UpdateOwnProfile(ctx, "u-1", &UpdateAccountRequest{FullName: &name}); err == nil {
		t.Fatal("UpdateOwnProfile() should fail when the identity provider rejects the update")
	}
}

func TestUserServiceResendVerification(t *testing.T) {
	repo := newFakeRepository()
	ctx := context.Background()
	repo.profiles.byID["u-1"] = &models.Profile{ID: "u-1", Email: "jo@example.com"}
	repo.profiles.byID["u-2"] = &models.Profile{ID: "u-2", Email: "v@example.com", EmailVerified: true}

	svc := newUserServiceForTest(repo)

	if err := svc.ResendVerification(ctx, "u-1"); err != nil {
		t.Fatalf("ResendVerification() error = %v", err)
	}
	if len(repo.identity.verificationsSent) != 1 || repo.identity.verificationsSent[0] != "u-1" {
		t.Errorf("ResendVerification() sent = %v, want [u-1]", repo.identity.verificationsSent)
	}

	var ruleErr *BusinessRuleError
	if err := svc.ResendVerification(ctx, "u-2"); !errors.As(err, &ruleErr) {
		t.Fatalf("ResendVerification() error = %v, want BusinessRuleError for verified accounts", err)
	}

	if err := svc.ResendVerification(ctx, "missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("ResendVerification() error = %v, want ErrProfileNotFound", err)
	}
}

func TestUserServiceEvents(t *testing.T) {
	repo := newFakeRepository()
	pub := events.NewMockEventPublisher(testLogger())
	svc := NewUserService(repo, testLogger(), validator.New(), pub, nil)
	ctx := context.Background()

	profile, err := svc.Register(ctx, &RegisterRequest{
		Email:    "jo@example.com",
		Password: "longenough",
		FullName: "Jo Bloggs",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := svc.Delete(ctx, profile.ID, "admin-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	want := []string{events.EventUserRegistered, events.EventUserDeleted}
	if got := publishedEventTypes(pub); !reflect.DeepEqual(got, want) {
		t.Errorf("published events = %v, want %v", got, want)
	}
}

func TestUserServiceDeleteBatchSkipsIdentityFailures(t *testing.T) {
	repo := newFakeRepository()
	ctx := context.Background()
	repo.profiles.byID["u-1"] = &models.Profile{ID: "u-1", Email: "a@example.com"}
	repo.profiles.byID["u-2"] = &models.Profile{ID: "u-2", Email: "b@example.com"}

	svc := newUserServiceForTest(repo)
	resp, err := svc.DeleteBatch(ctx, []string{"u-1", "u-2"}, "admin-1")
	if err != nil {
		t.Fatalf("DeleteBatch() error = %v", err)
	}
	if resp.Requested != 2 || resp.Deleted != 2 {
		t.Errorf("DeleteBatch() = requested %d deleted %d, want 2/2", resp.Requested, resp.Deleted)
	}
	if !repo.identity.deleted["u-1"] || !repo.identity.deleted["u-2"] {
		t.Error("identity accounts should be removed too")
	}
}
