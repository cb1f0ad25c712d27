package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"college-erp/config"
	"college-erp/internal/api/handler"
	"college-erp/internal/api/middleware"
	"college-erp/internal/model"
	"college-erp/pkg/jwt"
)

// Infra optional adapters; nil fields disable the related feature.
type Infra struct {
	Tokens   middleware.TokenChecker
	Limiter  middleware.RateLimiter
	Reporter middleware.ErrorReporter
	// UploadsDir is served under storage.public_prefix when uploads are local.
	UploadsDir string
}

// Setup builds the gin engine.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, infra Infra, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── global middleware ──
	headers := middleware.NewHeaderPolicy(&cfg.Server, &cfg.Storage)
	r.Use(middleware.RequestContext(logger))
	r.Use(middleware.Recovery(infra.Reporter, logger))
	r.Use(middleware.AccessLog(logger, time.Second))
	r.Use(middleware.SecurityHeaders(headers))
	r.Use(middleware.CORS(headers))
	if cfg.Server.MaxBodyBytes > 0 {
		r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if infra.UploadsDir != "" {
		r.Static(cfg.Storage.PublicPrefix, infra.UploadsDir)
	}

	admin := middleware.RoleAuth(model.RoleAdmin)
	superAdmin := middleware.RoleAuth(model.RoleSuperAdmin)
	student := middleware.RoleAuth(model.RoleStudent)
	faculty := middleware.RoleAuth(model.RoleFaculty)
	staff := middleware.RoleAuth(model.RoleFaculty, model.RoleAdmin)

	v1 := r.Group("/api/v1")
	{
		// public auth endpoints; OTP senders and verifiers are throttled,
		// and the store burns a code after repeated misses
		throttle := middleware.RateLimit(infra.Limiter, 5, time.Minute)
		verify := middleware.RateLimit(infra.Limiter, 10, time.Minute)
		auth := v1.Group("/auth")
		{
			auth.GET("/colleges", h.Auth.ListColleges)
			auth.POST("/register", throttle, h.Auth.Register)
			auth.POST("/verify-email", verify, h.Auth.VerifyEmail)
			auth.POST("/resend-otp", throttle, h.Auth.ResendOTP)
			auth.POST("/login", middleware.RateLimit(infra.Limiter, 20, time.Minute), h.Auth.Login)
			auth.POST("/forgot-password", throttle, h.Auth.ForgotPassword)
			auth.POST("/reset-password", verify, h.Auth.ResetPassword)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, infra.Tokens, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// colleges (SuperAdmin)
			colleges := authorized.Group("/colleges", superAdmin)
			{
				colleges.GET("", h.College.List)
				colleges.POST("", h.College.Create)
				colleges.GET("/:id", h.College.Get)
				colleges.PUT("/:id", h.College.Update)
				colleges.DELETE("/:id", h.College.Delete)
			}
			authorized.PUT("/college", admin, h.College.UpdateOwn)

			// profiles
			students := authorized.Group("/students", admin)
			{
				students.GET("", h.Profile.ListStudents)
				students.GET("/export", h.Export.ExportStudents)
				students.PUT("/:id", h.Profile.UpdateStudentProfile)
				students.POST("/:id/documents/:kind", h.Profile.UploadDocument)
			}
			authorized.GET("/users/:id", h.Profile.GetProfile) // self or same-college Admin, checked in service
			authorized.DELETE("/users/:id", admin, h.Profile.DeleteUser)
			authorized.POST("/me/photo", student, h.Profile.UploadOwnPhoto)
			authorized.PUT("/me/contact", h.Profile.UpdateOwnContact)

			// courses
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.List)
				courses.POST("", admin, h.Course.Create)
				courses.POST("/enroll", student, h.Course.Enroll)
				courses.GET("/my", student, h.Course.MyCourses)
				courses.POST("/assign", faculty, h.Course.Assign)
				courses.GET("/assignments", faculty, h.Course.MyAssignments)
				courses.GET("/:id/students", staff, h.Course.CourseStudents)
			}

			// attendance
			attendance := authorized.Group("/attendance")
			{
				attendance.GET("/roster", staff, h.Attendance.Roster)
				attendance.POST("", staff, h.Attendance.Mark)
				attendance.GET("/my", student, h.Attendance.MyAttendance)
				attendance.GET("/courses/:id", staff, h.Attendance.CourseAttendance)
			}

			// fees
			fees := authorized.Group("/fees")
			{
				fees.GET("/configs", admin, h.Fee.ListConfigs)
				fees.POST("/configs", admin, h.Fee.SaveConfig)
				fees.GET("/my", student, h.Fee.MyFees)
				fees.GET("/overview", admin, h.Fee.Overview)
				fees.GET("/payments", admin, h.Fee.ListPayments)
				fees.POST("/payments", student, h.Fee.CreatePayment)
				fees.POST("/payments/:id/netbanking", student, h.Fee.ConfirmNetBanking)
				fees.PUT("/payments/:id/status", admin, h.Fee.UpdatePaymentStatus)
				fees.GET("/payments/:id/receipt", h.Fee.PaymentReceipt) // owner or Admin, checked in service
				fees.GET("/students/:id/receipt", admin, h.Fee.StudentReceipt)
			}

			// results
			results := authorized.Group("/results")
			{
				results.POST("", faculty, h.Grade.Submit)
				results.GET("/pending", admin, h.Grade.Pending)
				results.POST("/approve", admin, h.Grade.Approve)
				results.GET("/my", student, h.Grade.MyResults)
			}

			// dropdowns
			dropdowns := authorized.Group("/dropdowns")
			{
				dropdowns.GET("", h.Dropdown.Get)
				dropdowns.POST("", admin, h.Dropdown.Create)
				dropdowns.DELETE("/:id", admin, h.Dropdown.Delete)
			}
		}
	}

	return r
}
