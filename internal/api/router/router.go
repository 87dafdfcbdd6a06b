package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mali8881/onboarding-backend/config"
	"github.com/Mali8881/onboarding-backend/internal/api/handler"
	"github.com/Mali8881/onboarding-backend/internal/api/middleware"
	"github.com/Mali8881/onboarding-backend/pkg/jwt"
	"github.com/Mali8881/onboarding-backend/pkg/redis"
)

// maxBodyBytes 请求体上限。周计划 days 数组最多 7 项，1MB 足够。
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，带限流防爆破）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块（员工账号由管理员创建，无自助注册）
			users := authorized.Group("/users", middleware.RoleAuth("admin", "superadmin"))
			{
				users.POST("", h.User.CreateUser)
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.PUT("/:id/role", h.User.AssignRole)
			}

			// 工作制模块
			workSchedules := authorized.Group("/work-schedules")
			{
				workSchedules.GET("/options", h.WorkSchedule.ListOptions)
				workSchedules.GET("/my", h.WorkSchedule.MySchedule)
				workSchedules.POST("/choose", h.WorkSchedule.ChooseSchedule)
				workSchedules.GET("", middleware.RoleAuth("admin", "superadmin"), h.WorkSchedule.ListSchedules)
				workSchedules.POST("", middleware.RoleAuth("admin", "superadmin"), h.WorkSchedule.CreateSchedule)
				workSchedules.GET("/requests", middleware.RoleAuth("admin", "superadmin"), h.WorkSchedule.ListRequests)
				workSchedules.PUT("/requests/:id/decision", middleware.RoleAuth("admin", "superadmin"), h.WorkSchedule.DecideRequest)
				workSchedules.GET("/:id", middleware.RoleAuth("admin", "superadmin"), h.WorkSchedule.GetSchedule)
				workSchedules.GET("/:id/users", middleware.RoleAuth("admin", "superadmin"), h.WorkSchedule.ScheduleUsers)
				workSchedules.PUT("/:id", middleware.RoleAuth("admin", "superadmin"), h.WorkSchedule.UpdateSchedule)
				workSchedules.DELETE("/:id", middleware.RoleAuth("admin", "superadmin"), h.WorkSchedule.DeleteSchedule)
			}

			// 生产日历模块
			calendar := authorized.Group("/calendar")
			{
				calendar.GET("/month", h.Calendar.MonthView)
				calendar.PUT("/days", middleware.RoleAuth("admin", "superadmin"), h.Calendar.UpsertDay)
				calendar.POST("/generate", middleware.RoleAuth("admin", "superadmin"), h.Calendar.GenerateMonth)
			}

			// 周计划模块（/my 与 /my/feed.ics 必须先于 /:id 注册）
			weeklyPlans := authorized.Group("/weekly-plans")
			{
				weeklyPlans.POST("/my", h.WeeklyPlan.Submit)
				weeklyPlans.GET("/my", h.WeeklyPlan.My)
				weeklyPlans.GET("/my/feed.ics", h.WeeklyPlan.Feed)
				weeklyPlans.GET("", middleware.RoleAuth("admin", "superadmin", "lead"), h.WeeklyPlan.List)
				if cfg.Feature.DeadlineAlertsEnabled {
					weeklyPlans.GET("/submission-status", middleware.RoleAuth("admin", "superadmin"), h.WeeklyPlan.SubmissionStatus)
				}
				weeklyPlans.GET("/:id", h.WeeklyPlan.Get) // 本人或管理端（Handler 层鉴权）
				weeklyPlans.POST("/:id/decision", middleware.RoleAuth("admin", "superadmin"), h.WeeklyPlan.Decide)
				weeklyPlans.GET("/:id/change-logs", middleware.RoleAuth("admin", "superadmin"), h.WeeklyPlan.ChangeLogs)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/weekly-plans", middleware.RoleAuth("admin", "superadmin", "lead"), h.Export.WeeklyPlans)
			}

			// 审计日志模块
			authorized.GET("/audit-logs", middleware.RoleAuth("admin", "superadmin"), h.Audit.List)
		}
	}

	return r
}
