package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/OK4UK/academy-service/internal/events"
	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
)

// publishedEventTypes flattens the mock publisher's log for assertions.
func publishedEventTypes(pub *events.MockEventPublisher) []string {
	published := pub.GetPublishedEvents()
	types := make([]string, 0, len(published))
	for _, e := range published {
		types = append(types, e.Type)
	}
	return types
}

// fakeRepository is an in-memory repositories.Repository for service tests.
// Transactions run against the same state; rollback is not simulated.
type fakeRepository struct {
	courses     *fakeCourseRepo
	chapters    *fakeChapterRepo
	categories  *fakeCategoryRepo
	profiles    *fakeProfileRepo
	identity    *fakeIdentityRepo
	enrollments *fakeEnrollmentRepo
	payments    *fakePaymentRepo
	dashboard   *fakeDashboardRepo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		courses:     &fakeCourseRepo{byID: map[uint]*models.Course{}},
		chapters:    &fakeChapterRepo{byID: map[uint]*models.Chapter{}},
		categories:  &fakeCategoryRepo{byID: map[uint]*models.NvqCategory{}},
		profiles:    &fakeProfileRepo{byID: map[string]*models.Profile{}},
		identity:    &fakeIdentityRepo{deleted: map[string]bool{}},
		enrollments: &fakeEnrollmentRepo{byID: map[uint]*models.Enrollment{}},
		payments:    &fakePaymentRepo{byID: map[uint]*models.Payment{}},
		dashboard:   &fakeDashboardRepo{},
	}
}

func (f *fakeRepository) Course() repositories.CourseRepository           { return f.courses }
func (f *fakeRepository) Chapter() repositories.ChapterRepository         { return f.chapters }
func (f *fakeRepository) NvqCategory() repositories.NvqCategoryRepository { return f.categories }
func (f *fakeRepository) Profile() repositories.ProfileRepository         { return f.profiles }
func (f *fakeRepository) Identity() repositories.IdentityRepository       { return f.identity }
func (f *fakeRepository) Enrollment() repositories.EnrollmentRepository   { return f.enrollments }
func (f *fakeRepository) Payment() repositories.PaymentRepository         { return f.payments }
func (f *fakeRepository) Dashboard() repositories.DashboardRepository     { return f.dashboard }

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

// ===== COURSES =====

type fakeCourseRepo struct {
	byID   map[uint]*models.Course
	nextID uint
}

func (r *fakeCourseRepo) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	r.nextID++
	course.ID = r.nextID
	r.byID[course.ID] = course
	return nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	course, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (r *fakeCourseRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Course, error) {
	for _, c := range r.byID {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCourseRepo) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	if _, ok := r.byID[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.byID[course.ID] = course
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeCourseRepo) DeleteBatch(ctx context.Context, tx *gorm.DB, ids []uint) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := r.byID[id]; ok {
			delete(r.byID, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeCourseRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var out []*models.Course
	for _, c := range r.byID {
		if filters.Status != nil && c.Status != *filters.Status {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCourseRepo) ListPublished(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	published := models.CoursePublished
	filters.Status = &published
	return r.List(ctx, tx, filters)
}

func (r *fakeCourseRepo) Search(ctx context.Context, tx *gorm.DB, query string, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var out []*models.Course
	for _, c := range r.byID {
		if strings.Contains(strings.ToLower(c.Title), strings.ToLower(query)) {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeCourseRepo) ExistsBySlug(ctx context.Context, tx *gorm.DB, slug string, excludeID uint) (bool, error) {
	for _, c := range r.byID {
		if c.Slug == slug && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// ===== CHAPTERS =====

type fakeChapterRepo struct {
	byID   map[uint]*models.Chapter
	nextID uint
}

func (r *fakeChapterRepo) Create(ctx context.Context, tx *gorm.DB, chapter *models.Chapter) error {
	r.nextID++
	chapter.ID = r.nextID
	r.byID[chapter.ID] = chapter
	return nil
}

func (r *fakeChapterRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Chapter, error) {
	chapter, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return chapter, nil
}

func (r *fakeChapterRepo) Update(ctx context.Context, tx *gorm.DB, chapter *models.Chapter) error {
	if _, ok := r.byID[chapter.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.byID[chapter.ID] = chapter
	return nil
}

func (r *fakeChapterRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeChapterRepo) DeleteBatch(ctx context.Context, tx *gorm.DB, ids []uint) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := r.byID[id]; ok {
			delete(r.byID, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeChapterRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ChapterFilters) ([]*models.Chapter, int64, error) {
	var out []*models.Chapter
	for _, ch := range r.byID {
		if filters.CourseID != nil && ch.CourseID != *filters.CourseID {
			continue
		}
		out = append(out, ch)
	}
	return out, int64(len(out)), nil
}

func (r *fakeChapterRepo) GetByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Chapter, error) {
	var out []*models.Chapter
	for _, ch := range r.byID {
		if ch.CourseID == courseID {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (r *fakeChapterRepo) MaxOrderIndex(ctx context.Context, tx *gorm.DB, courseID uint) (int, error) {
	max := 0
	for _, ch := range r.byID {
		if ch.CourseID == courseID && ch.OrderIndex > max {
			max = ch.OrderIndex
		}
	}
	return max, nil
}

// ===== NVQ CATEGORIES =====

type fakeCategoryRepo struct {
	byID   map[uint]*models.NvqCategory
	nextID uint
}

func (r *fakeCategoryRepo) Create(ctx context.Context, tx *gorm.DB, category *models.NvqCategory) error {
	r.nextID++
	category.ID = r.nextID
	r.byID[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.NvqCategory, error) {
	category, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, tx *gorm.DB, category *models.NvqCategory) error {
	if _, ok := r.byID[category.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.byID[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeCategoryRepo) DeleteBatch(ctx context.Context, tx *gorm.DB, ids []uint) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := r.byID[id]; ok {
			delete(r.byID, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeCategoryRepo) ExistsBySlug(ctx context.Context, tx *gorm.DB, slug string, excludeID uint) (bool, error) {
	for _, c := range r.byID {
		if c.Slug == slug && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCategoryRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.NvqCategoryFilters) ([]*models.NvqCategory, int64, error) {
	var out []*models.NvqCategory
	for _, c := range r.byID {
		if filters.Level != nil && c.Level != *filters.Level {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

// ===== PROFILES =====

type fakeProfileRepo struct {
	byID map[string]*models.Profile

	// failCreate makes the next Create fail, for rollback tests.
	failCreate bool
}

func (r *fakeProfileRepo) Create(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	if r.failCreate {
		return fmt.Errorf("insert failed")
	}
	r.byID[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Profile, error) {
	profile, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (r *fakeProfileRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Profile, error) {
	for _, p := range r.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) Update(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	if _, ok := r.byID[profile.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.byID[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeProfileRepo) DeleteBatch(ctx context.Context, tx *gorm.DB, ids []string) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := r.byID[id]; ok {
			delete(r.byID, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeProfileRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	var out []*models.Profile
	for _, p := range r.byID {
		if filters.Role != nil && p.Role != *filters.Role {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProfileRepo) Search(ctx context.Context, tx *gorm.DB, query string, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	var out []*models.Profile
	for _, p := range r.byID {
		if strings.Contains(strings.ToLower(p.FullName), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(p.Email), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProfileRepo) ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	_, ok := r.byID[id]
	return ok, nil
}

func (r *fakeProfileRepo) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	for _, p := range r.byID {
		if p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ===== IDENTITY PROVIDER =====

type fakeIdentityRepo struct {
	nextID  int
	deleted map[string]bool

	// parsed is what ParseToken returns for any token.
	parsed *models.Profile

	failSignUp bool
	failUpdate bool

	updated           []*models.Profile
	verificationsSent []string
}

func (r *fakeIdentityRepo) SignUp(ctx context.Context, email, password, name string, role models.UserRole) (string, error) {
	if r.failSignUp {
		return "", fmt.Errorf("provider rejected sign-up")
	}
	r.nextID++
	return fmt.Sprintf("idp-%d", r.nextID), nil
}

func (r *fakeIdentityRepo) UpdateUser(ctx context.Context, profile *models.Profile) error {
	if r.failUpdate {
		return fmt.Errorf("provider rejected update")
	}
	r.updated = append(r.updated, profile)
	return nil
}

func (r *fakeIdentityRepo) DeleteUser(ctx context.Context, id string) error {
	r.deleted[id] = true
	return nil
}

func (r *fakeIdentityRepo) ResendVerification(ctx context.Context, id string) error {
	r.verificationsSent = append(r.verificationsSent, id)
	return nil
}

func (r *fakeIdentityRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeIdentityRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeIdentityRepo) ExchangeToken(ctx context.Context, code, state string) (string, error) {
	return "token-" + code, nil
}

func (r *fakeIdentityRepo) ParseToken(token string) (*models.Profile, error) {
	if r.parsed == nil {
		return nil, fmt.Errorf("invalid token")
	}
	return r.parsed, nil
}

// ===== ENROLLMENTS =====

type fakeEnrollmentRepo struct {
	byID   map[uint]*models.Enrollment
	nextID uint
}

func (r *fakeEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	r.nextID++
	enrollment.ID = r.nextID
	r.byID[enrollment.ID] = enrollment
	return nil
}

func (r *fakeEnrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	enrollment, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return enrollment, nil
}

func (r *fakeEnrollmentRepo) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	if _, ok := r.byID[enrollment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.byID[enrollment.ID] = enrollment
	return nil
}

func (r *fakeEnrollmentRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeEnrollmentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	var out []*models.Enrollment
	for _, e := range r.byID {
		if filters.CourseID != nil && e.CourseID != *filters.CourseID {
			continue
		}
		if filters.Status != nil && e.Status != *filters.Status {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeEnrollmentRepo) GetByStudent(ctx context.Context, tx *gorm.DB, studentID string, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	var out []*models.Enrollment
	for _, e := range r.byID {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeEnrollmentRepo) GetByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID string, courseID uint) (*models.Enrollment, error) {
	for _, e := range r.byID {
		if e.StudentID == studentID && e.CourseID == courseID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ===== PAYMENTS =====

type fakePaymentRepo struct {
	byID   map[uint]*models.Payment
	nextID uint
}

func (r *fakePaymentRepo) Create(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	r.nextID++
	payment.ID = r.nextID
	r.byID[payment.ID] = payment
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Payment, error) {
	payment, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return payment, nil
}

func (r *fakePaymentRepo) GetByReference(ctx context.Context, tx *gorm.DB, reference string) (*models.Payment, error) {
	for _, p := range r.byID {
		if p.Reference == reference {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) GetByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uint) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range r.byID {
		if p.EnrollmentID == enrollmentID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ===== DASHBOARD =====

type fakeDashboardRepo struct {
	usersByRole     map[models.UserRole]int
	coursesByStatus map[models.CourseStatus]int
	revenue         float64
}

func (r *fakeDashboardRepo) CountUsersByRole(ctx context.Context, tx *gorm.DB) (map[models.UserRole]int, error) {
	return r.usersByRole, nil
}

func (r *fakeDashboardRepo) CountCoursesByStatus(ctx context.Context, tx *gorm.DB) (map[models.CourseStatus]int, error) {
	return r.coursesByStatus, nil
}

func (r *fakeDashboardRepo) CountEnrollments(ctx context.Context, tx *gorm.DB) (int64, error) {
	return 0, nil
}

func (r *fakeDashboardRepo) CountEnrollmentsByStatus(ctx context.Context, tx *gorm.DB, status models.EnrollmentStatus) (int64, error) {
	return 0, nil
}

func (r *fakeDashboardRepo) TotalRevenue(ctx context.Context, tx *gorm.DB) (float64, error) {
	return r.revenue, nil
}

func (r *fakeDashboardRepo) GetRecentEnrollments(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.RecentEnrollment, error) {
	return nil, nil
}
