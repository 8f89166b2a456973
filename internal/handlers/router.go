package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/OK4UK/academy-service/internal/config"
	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/repositories"
	"github.com/OK4UK/academy-service/internal/services"
	"github.com/OK4UK/academy-service/internal/utils"
	"github.com/OK4UK/academy-service/internal/validator"
)

type HandlerManager struct {
	catalogHandler    *CatalogHandler
	authHandler       *AuthHandler
	courseHandler     *CourseHandler
	chapterHandler    *ChapterHandler
	categoryHandler   *NvqCategoryHandler
	userHandler       *UserHandler
	enrollmentHandler *EnrollmentHandler
	dashboardHandler  *DashboardHandler
	navigationHandler *NavigationHandler
	guard             *AccessGuard
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	profileRepo repositories.ProfileRepository,
) *HandlerManager {
	guard := NewAccessGuard(casdoorConfig, profileRepo)

	return &HandlerManager{
		catalogHandler:    NewCatalogHandler(serviceManager.Course(), serviceManager.Chapter(), logger),
		authHandler:       NewAuthHandler(serviceManager.User(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), validator, logger),
		chapterHandler:    NewChapterHandler(serviceManager.Chapter(), validator, logger),
		categoryHandler:   NewNvqCategoryHandler(serviceManager.NvqCategory(), logger),
		userHandler:       NewUserHandler(serviceManager.User(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		dashboardHandler:  NewDashboardHandler(serviceManager.Dashboard(), logger),
		navigationHandler: NewNavigationHandler(serviceManager.Navigation(), logger),
		guard:             guard,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	// Public storefront and auth entry points
	{
		v1.GET("/courses", hm.catalogHandler.ListCourses)
		v1.GET("/courses/:slug", hm.catalogHandler.GetCourse)
		v1.GET("/courses/:slug/chapters", hm.catalogHandler.GetCourseChapters)

		// Payment provider webhook; authenticated by its reference, not a user token
		v1.POST("/payments/webhook", hm.enrollmentHandler.PaymentWebhook)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", hm.authHandler.Register)
			auth.POST("/login", hm.authHandler.Login)
			auth.GET("/me", hm.guard.AuthMiddleware(), hm.authHandler.Me)
			auth.PUT("/me", hm.guard.AuthMiddleware(), hm.authHandler.UpdateMe)
			auth.POST("/resend-verification", hm.guard.AuthMiddleware(), hm.authHandler.ResendVerification)
		}
	}

	// Checkout entry point - students only
	v1.POST("/enroll",
		hm.guard.AuthMiddleware(),
		hm.guard.RequireRoleMiddleware(models.RoleStudent),
		hm.enrollmentHandler.Enroll,
	)

	// Role dashboard areas. Every route below both authenticates and
	// matches the :role segment against the caller's own role; a
	// mismatch is indistinguishable from a missing page.
	dashboard := v1.Group("/:role")
	dashboard.Use(hm.guard.AuthMiddleware(), hm.guard.RoleAreaMiddleware())
	{
		dashboard.GET("/nav", hm.navigationHandler.GetNav)
		dashboard.GET("/sections/*section", hm.navigationHandler.GetSection)
		dashboard.GET("/overview", hm.dashboardHandler.GetOverview)

		// Admin area
		admin := dashboard.Group("")
		admin.Use(hm.guard.RequireArea(models.RoleAdmin))
		{
			users := admin.Group("/users")
			{
				users.POST("", hm.userHandler.CreateUser)
				users.GET("", hm.userHandler.ListUsers)
				users.GET("/export", hm.userHandler.ExportUsers)
				users.DELETE("/batch", hm.userHandler.BulkDeleteUsers)
				users.GET("/:id", hm.userHandler.GetUser)
				users.PUT("/:id", hm.userHandler.UpdateUser)
				users.DELETE("/:id", hm.userHandler.DeleteUser)
			}

			courses := admin.Group("/courses")
			{
				courses.POST("", hm.courseHandler.CreateCourse)
				courses.GET("", hm.courseHandler.ListCourses)
				courses.GET("/export", hm.courseHandler.ExportCourses)
				courses.DELETE("/batch", hm.courseHandler.BulkDeleteCourses)
				courses.POST("/bulk", hm.courseHandler.BulkCourseAction)
				courses.GET("/:id", hm.courseHandler.GetCourse)
				courses.PUT("/:id", hm.courseHandler.UpdateCourse)
				courses.DELETE("/:id", hm.courseHandler.DeleteCourse)

				// Chapters are managed inside their course
				courses.POST("/:id/chapters", hm.chapterHandler.CreateChapter)
				courses.GET("/:id/chapters", hm.chapterHandler.ListChapters)
				courses.GET("/:id/chapters/export", hm.chapterHandler.ExportChapters)
				courses.DELETE("/:id/chapters/batch", hm.chapterHandler.BulkDeleteChapters)
				courses.GET("/:id/chapters/:chapter_id", hm.chapterHandler.GetChapter)
				courses.PUT("/:id/chapters/:chapter_id", hm.chapterHandler.UpdateChapter)
				courses.DELETE("/:id/chapters/:chapter_id", hm.chapterHandler.DeleteChapter)
			}

			categories := admin.Group("/nvq-categories")
			{
				categories.POST("", hm.categoryHandler.CreateCategory)
				categories.GET("", hm.categoryHandler.ListCategories)
				categories.DELETE("/batch", hm.categoryHandler.BulkDeleteCategories)
				categories.GET("/:id", hm.categoryHandler.GetCategory)
				categories.PUT("/:id", hm.categoryHandler.UpdateCategory)
				categories.DELETE("/:id", hm.categoryHandler.DeleteCategory)
			}
		}

		// Student area
		student := dashboard.Group("")
		student.Use(hm.guard.RequireArea(models.RoleStudent))
		{
			student.GET("/my-courses", hm.enrollmentHandler.MyCourses)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "academy-service",
		})
	})
}
