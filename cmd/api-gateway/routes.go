package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/student-portal-api/internal/handler"
	"github.com/noah-isme/student-portal-api/internal/middleware"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/service"
	"github.com/noah-isme/student-portal-api/pkg/config"
	"github.com/noah-isme/student-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/student-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/student-portal-api/pkg/middleware/requestid"
)

type application struct {
	cfg         *config.Config
	logger      *zap.Logger
	metrics     *service.MetricsService
	db          *sqlx.DB
	auth        *service.AuthService
	students    *service.StudentService
	courses     *service.CourseService
	enrollments *service.EnrollmentService
	grades      *service.GradeService
	schedules   *service.ScheduleService
	transcripts *service.TranscriptService
	dashboards  *service.DashboardService
	documents   *service.DocumentService
}

func (a *application) router() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = a.cfg.Documents.MaxFileSizeBytes
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(corsmiddleware.New(a.cfg.CORS.AllowedOrigins))

	health := handler.NewHealthHandler(a.metrics, a.db)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/metrics", health.Prometheus)
	if a.cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authH := handler.NewAuthHandler(a.auth)
	studentH := handler.NewStudentHandler(a.students)
	courseH := handler.NewCourseHandler(a.courses)
	enrollmentH := handler.NewEnrollmentHandler(a.enrollments)
	gradeH := handler.NewGradeHandler(a.grades)
	academicH := handler.NewAcademicHandler(a.transcripts, a.schedules)
	dashboardH := handler.NewDashboardHandler(a.dashboards)
	documentH := handler.NewDocumentHandler(a.documents)

	api := r.Group(a.cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/students/register", authH.RegisterStudent)
	auth.POST("/students/login", authH.LoginStudent)
	auth.POST("/teachers/login", authH.LoginTeacher)
	auth.POST("/teachers/forgot-password", authH.ForgotPassword)
	auth.POST("/teachers/reset-password", authH.ResetPassword)

	api.GET("/documents/download", documentH.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(a.auth))
	secured.GET("/auth/me", authH.Me)
	secured.POST("/auth/change-password", authH.ChangePassword)

	studentOnly := middleware.RequireRoles(models.RoleStudent)
	secured.GET("/courses", studentOnly, enrollmentH.Catalog)

	student := secured.Group("/student", studentOnly)
	student.GET("/dashboard", dashboardH.Student)
	student.GET("/profile", studentH.Profile)
	student.PUT("/profile", studentH.UpdateProfile)
	student.GET("/courses", enrollmentH.List)
	student.POST("/courses/:courseId", enrollmentH.Enroll)
	student.DELETE("/courses/:courseId", enrollmentH.Withdraw)
	student.GET("/schedule", academicH.Schedule)
	student.GET("/transcript", academicH.Transcript)
	student.GET("/transcript/export", academicH.ExportTranscript)
	student.GET("/documents", documentH.List)
	student.POST("/documents", documentH.Upload)
	student.GET("/documents/:id/download-url", documentH.DownloadURL)
	student.DELETE("/documents/:id", documentH.Delete)

	teacher := secured.Group("/teacher", middleware.RequireRoles(models.RoleTeacher))
	teacher.GET("/dashboard", dashboardH.Teacher)
	teacher.GET("/courses", courseH.List)
	teacher.POST("/courses", courseH.Create)
	teacher.PUT("/courses/:id", courseH.Update)
	teacher.DELETE("/courses/:id", courseH.Delete)
	teacher.GET("/courses/:id/students", courseH.Roster)
	teacher.GET("/courses/:id/grades", gradeH.ListByCourse)
	teacher.POST("/grades", gradeH.Create)
	teacher.PUT("/grades/:id", gradeH.Update)
	teacher.DELETE("/grades/:id", gradeH.Delete)
	teacher.GET("/students", studentH.List)
	teacher.POST("/students", studentH.Create)
	teacher.GET("/students/:id", studentH.Get)
	teacher.PUT("/students/:id", studentH.Update)
	teacher.DELETE("/students/:id", studentH.Delete)
	teacher.GET("/students/:id/courses", courseH.StudentCourses)

	return r
}
