package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/config"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/api/handler"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/api/middleware"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/model"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/jwt"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/metrics"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil：登录不限流，Token 黑名单不生效
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders(cfg.Server.BaseURL))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	r.Use(metrics.Middleware())

	// ── 健康检查与指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	admin := middleware.RoleAuth(model.RoleAdmin)
	staff := middleware.RoleAuth(model.RoleAdmin, model.RoleTeacher)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 用户模块
			persons := authorized.Group("/persons")
			{
				persons.GET("", admin, h.Person.ListPersons)
				persons.POST("", admin, h.Person.CreatePerson)
				persons.POST("/import", admin, h.Person.ImportStudents)
				persons.GET("/:id", staff, h.Person.GetPerson)
				persons.DELETE("/:id", admin, h.Person.DeletePerson)
			}

			// 学生视角（学生仅能访问本人，Handler 层鉴权）
			students := authorized.Group("/students/:id")
			{
				students.GET("/modules", h.Enrollment.StudentModules)
				students.GET("/evaluations", h.Evaluation.ListByStudent)
				students.GET("/average", h.Evaluation.StudentAverage)
			}

			// 专业模块
			programs := authorized.Group("/programs")
			{
				programs.GET("", h.Program.ListPrograms)
				programs.GET("/:id", h.Program.GetProgram)
				programs.POST("", admin, h.Program.CreateProgram)
				programs.PUT("/:id", admin, h.Program.UpdateProgram)
				programs.DELETE("/:id", admin, h.Program.DeleteProgram)
			}

			// 教室模块
			rooms := authorized.Group("/rooms")
			{
				rooms.GET("", h.Room.ListRooms)
				rooms.GET("/free", staff, h.Room.ListFreeRooms)
				rooms.GET("/:id", h.Room.GetRoom)
				rooms.POST("", admin, h.Room.CreateRoom)
				rooms.PUT("/:id", admin, h.Room.UpdateRoom)
				rooms.DELETE("/:id", admin, h.Room.DeleteRoom)
			}

			// 课程模块
			modules := authorized.Group("/modules")
			{
				modules.GET("", h.Module.ListModules)
				modules.GET("/:id", h.Module.GetModule)
				modules.POST("", admin, h.Module.CreateModule)
				modules.PUT("/:id", admin, h.Module.UpdateModule)
				modules.PUT("/:id/teacher", admin, h.Module.AssignTeacher)
				modules.DELETE("/:id", admin, h.Module.DeleteModule)
				modules.GET("/:id/evaluations", staff, h.Evaluation.ListByModule)
				modules.GET("/:id/average", staff, h.Evaluation.ModuleAverage)
			}

			// 课次模块
			sessions := authorized.Group("/sessions")
			{
				sessions.GET("", h.Session.ListSessions)
				sessions.GET("/:id", h.Session.GetSession)
				sessions.POST("", admin, h.Session.CreateSession)
				sessions.POST("/conflicts", admin, h.Session.CheckConflicts)
				sessions.PUT("/:id", admin, h.Session.UpdateSession)
				sessions.DELETE("/:id", admin, h.Session.DeleteSession)
				sessions.GET("/:id/change-logs", admin, h.Session.ListChangeLogs)
			}
			authorized.GET("/calendar.ics", h.Session.ExportCalendar)

			// 选课模块
			enrollments := authorized.Group("/enrollments")
			{
				enrollments.GET("", admin, h.Enrollment.ListEnrollments)
				enrollments.GET("/stats", admin, h.Enrollment.Stats)
				enrollments.GET("/:id", h.Enrollment.GetEnrollment)
				enrollments.POST("", admin, h.Enrollment.Enroll)
				enrollments.POST("/unenroll", admin, h.Enrollment.Unenroll)
				enrollments.POST("/mass", admin, h.Enrollment.MassEnroll)
				enrollments.PUT("/:id/status", admin, h.Enrollment.UpdateStatus)
				enrollments.DELETE("/:id", admin, h.Enrollment.UnenrollByID)
			}

			// 成绩模块
			evaluations := authorized.Group("/evaluations")
			{
				evaluations.GET("/:id", h.Evaluation.GetEvaluation)
				evaluations.POST("", staff, h.Evaluation.CreateEvaluation)
				evaluations.PUT("/:id", staff, h.Evaluation.UpdateEvaluation)
				evaluations.DELETE("/:id", staff, h.Evaluation.DeleteEvaluation)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/modules/:id/grades", staff, h.Export.ExportModuleGrades)
			}

			authorized.GET("/dashboard", h.Dashboard.GetDashboard)
		}
	}

	return r
}
