// Package main 是应用程序入口
package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/linchen2024/club-admin-backend/internal/common/config"
	"github.com/linchen2024/club-admin-backend/internal/common/jwt"
	"github.com/linchen2024/club-admin-backend/internal/common/metrics"
	adminHandler "github.com/linchen2024/club-admin-backend/internal/handler/admin"
	"github.com/linchen2024/club-admin-backend/internal/middleware"
	"github.com/linchen2024/club-admin-backend/internal/repository"
	"github.com/linchen2024/club-admin-backend/internal/scheduler"
	adminService "github.com/linchen2024/club-admin-backend/internal/service/admin"
	"github.com/linchen2024/club-admin-backend/internal/service/distribution"
	orderService "github.com/linchen2024/club-admin-backend/internal/service/order"
)

// setupRouter 组装依赖并注册全部路由，返回已配置好的后台任务调度器
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
) *scheduler.Scheduler {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            cfg.JWT.Secret,
		AccessExpireTime:  cfg.JWT.AccessTokenDuration(),
		RefreshExpireTime: cfg.JWT.RefreshTokenDuration(),
		Issuer:            cfg.JWT.Issuer,
	})

	// 初始化仓储
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	cardRepo := repository.NewMembershipCardRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	sysConfigRepo := repository.NewSystemConfigRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	distConfigRepo := repository.NewDistributionConfigRepository(db)
	profitRepo := repository.NewProfitRecordRepository(db)
	distRecordRepo := repository.NewDistributionRecordRepository(db)

	// 初始化分润域服务
	resolver := distribution.NewStrategyResolver(userRepo, roleRepo)
	calculator := distribution.NewCalculator(resolver)
	distConfigSvc := distribution.NewConfigService(distConfigRepo, roleRepo, db)
	profitSvc := distribution.NewProfitService(profitRepo, distConfigRepo, distRecordRepo, calculator, db)
	settlementSvc := distribution.NewSettlementService(
		profitRepo, activityRepo, sysConfigRepo, db,
		cfg.Business.Distribution.RefundDeadlineHours,
		cfg.Business.Distribution.AutoSettleHours,
	)

	// 初始化订单服务，完成/退款时联动分润
	profitHook := orderService.NewProfitHook(profitSvc)
	orderSvc := orderService.NewOrderService(
		orderRepo, activityRepo, cardRepo, userRepo, sysConfigRepo,
		profitHook, db, cfg.Business.Order.PayTimeoutMinutes,
	)

	// 初始化管理端服务
	authSvc := adminService.NewAuthService(userRepo, menuRepo, jwtManager, redisClient, cfg.JWT.RefreshTokenDuration())
	userSvc := adminService.NewUserService(userRepo, roleRepo, db)
	roleSvc := adminService.NewRoleService(roleRepo, userRepo, menuRepo)
	menuSvc := adminService.NewMenuService(menuRepo)
	activitySvc := adminService.NewActivityService(activityRepo)
	cardSvc := adminService.NewCardService(cardRepo)
	notificationSvc := adminService.NewNotificationService(notificationRepo, userRepo)
	sysConfigSvc := adminService.NewSystemConfigService(sysConfigRepo)
	permissionSvc := adminService.NewPermissionService()

	// 写入缺失的默认业务配置
	if err := sysConfigSvc.SeedDefaults(context.Background()); err != nil {
		logger.Warn("Failed to seed default configs", zap.Error(err))
	}

	// 初始化处理器
	authH := adminHandler.NewAuthHandler(authSvc)
	userH := adminHandler.NewUserHandler(userSvc)
	roleH := adminHandler.NewRoleHandler(roleSvc)
	menuH := adminHandler.NewMenuHandler(menuSvc)
	activityH := adminHandler.NewActivityHandler(activitySvc)
	cardH := adminHandler.NewCardHandler(cardSvc)
	orderH := adminHandler.NewOrderHandler(orderSvc)
	notificationH := adminHandler.NewNotificationHandler(notificationSvc)
	systemH := adminHandler.NewSystemHandler(sysConfigSvc)
	distributionH := adminHandler.NewDistributionHandler(distConfigSvc, profitSvc, settlementSvc)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.CORS(&cfg.CORS))
	r.Use(middleware.Logging(middleware.DefaultLoggingConfig(logger)))

	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(&middleware.RateLimitConfig{
			RedisClient: redisClient,
			KeyPrefix:   "ratelimit:",
			Limit:       cfg.RateLimit.RequestsPerSecond,
			Window:      time.Second,
		}))
	}

	// Prometheus 指标
	if cfg.Metrics.Enabled {
		m := metrics.Init(cfg.Server.Name)
		r.Use(m.Middleware())
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, metrics.Handler())
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler(cfg.Server.Name))
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")

	// 认证接口
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authH.Login)
		auth.POST("/refresh", authH.Refresh)

		authed := auth.Group("")
		authed.Use(middleware.Auth(jwtManager))
		{
			authed.POST("/logout", authH.Logout)
			authed.GET("/profile", authH.Profile)
			authed.PUT("/password", authH.ChangePassword)
		}
	}

	// 公开配置（小程序等前端读取）
	v1.GET("/configs/public", systemH.ListPublic)

	// 管理后台接口
	admin := v1.Group("/admin")
	admin.Use(middleware.Auth(jwtManager))
	{
		// 用户管理
		users := admin.Group("/users")
		{
			users.GET("", middleware.RequirePermission(permissionSvc, middleware.PermissionUserList), userH.List)
			users.GET("/:id", middleware.RequirePermission(permissionSvc, middleware.PermissionUserList), userH.Get)
			users.GET("/:id/referrals", middleware.RequirePermission(permissionSvc, middleware.PermissionUserList), userH.ListReferrals)
			users.POST("", middleware.RequirePermission(permissionSvc, middleware.PermissionUserCreate), userH.Create)
			users.PUT("/:id", middleware.RequirePermission(permissionSvc, middleware.PermissionUserUpdate), userH.Update)
			users.PUT("/:id/status", middleware.RequirePermission(permissionSvc, middleware.PermissionUserUpdate), userH.UpdateStatus)
			users.PUT("/:id/password", middleware.RequirePermission(permissionSvc, middleware.PermissionUserUpdate), userH.ResetPassword)
			users.PUT("/:id/roles", middleware.RequirePermission(permissionSvc, middleware.PermissionUserUpdate), userH.AssignRoles)
			users.DELETE("/:id", middleware.RequirePermission(permissionSvc, middleware.PermissionUserDelete), userH.Delete)
		}

		// 角色管理（角色下拉列表对用户管理权限开放）
		admin.GET("/roles/all", middleware.RequirePermission(permissionSvc, middleware.PermissionUserList), roleH.ListAll)
		roles := admin.Group("/roles")
		roles.Use(middleware.RequirePermission(permissionSvc, middleware.PermissionRoleManage))
		{
			roles.GET("", roleH.List)
			roles.POST("", roleH.Create)
			roles.GET("/:id", roleH.Get)
			roles.PUT("/:id", roleH.Update)
			roles.DELETE("/:id", roleH.Delete)
			roles.GET("/:id/menus", roleH.GetMenus)
			roles.PUT("/:id/menus", roleH.AssignMenus)
		}

		// 菜单管理
		menus := admin.Group("/menus")
		menus.Use(middleware.RequirePermission(permissionSvc, middleware.PermissionMenuManage))
		{
			menus.GET("/tree", menuH.Tree)
			menus.POST("", menuH.Create)
			menus.GET("/:id", menuH.Get)
			menus.PUT("/:id", menuH.Update)
			menus.DELETE("/:id", menuH.Delete)
		}

		// 活动管理
		activities := admin.Group("/activities")
		{
			activities.GET("", middleware.RequirePermission(permissionSvc, middleware.PermissionActivityList), activityH.List)
			activities.GET("/:id", middleware.RequirePermission(permissionSvc, middleware.PermissionActivityList), activityH.Get)
			activities.POST("", middleware.RequirePermission(permissionSvc, middleware.PermissionActivityCreate), activityH.Create)
			activities.PUT("/:id", middleware.RequirePermission(permissionSvc, middleware.PermissionActivityUpdate), activityH.Update)
			activities.POST("/:id/publish", middleware.RequirePermission(permissionSvc, middleware.PermissionActivityUpdate), activityH.Publish)
			activities.POST("/:id/close", middleware.RequirePermission(permissionSvc, middleware.PermissionActivityUpdate), activityH.Close)
			activities.DELETE("/:id", middleware.RequirePermission(permissionSvc, middleware.PermissionActivityDelete), activityH.Delete)
		}

		// 会员卡管理
		cards := admin.Group("/cards")
		{
			cards.GET("", middleware.RequirePermission(permissionSvc, middleware.PermissionCardList), cardH.List)
			cards.GET("/:id", middleware.RequirePermission(permissionSvc, middleware.PermissionCardList), cardH.Get)
			cards.POST("", middleware.RequirePermission(permissionSvc, middleware.PermissionCardCreate), cardH.Create)
			cards.PUT("/:id", middleware.RequirePermission(permissionSvc, middleware.PermissionCardUpdate), cardH.Update)
			cards.POST("/:id/on-shelf", middleware.RequirePermission(permissionSvc, middleware.PermissionCardUpdate), cardH.OnShelf)
			cards.POST("/:id/off-shelf", middleware.RequirePermission(permissionSvc, middleware.PermissionCardUpdate), cardH.OffShelf)
			cards.DELETE("/:id", middleware.RequirePermission(permissionSvc, middleware.PermissionCardDelete), cardH.Delete)
		}

		// 订单管理
		orders := admin.Group("/orders")
		{
			orders.GET("", middleware.RequirePermission(permissionSvc, middleware.PermissionOrderList), orderH.List)
			orders.GET("/:id", middleware.RequirePermission(permissionSvc, middleware.PermissionOrderView), orderH.Get)
			orders.GET("/by-no/:order_no", middleware.RequirePermission(permissionSvc, middleware.PermissionOrderView), orderH.GetByOrderNo)
			orders.POST("", middleware.RequirePermission(permissionSvc, middleware.PermissionOrderList), orderH.Create)
			orders.POST("/:id/pay", middleware.RequirePermission(permissionSvc, middleware.PermissionOrderList), orderH.MarkPaid)
			orders.POST("/:id/cancel", middleware.RequirePermission(permissionSvc, middleware.PermissionOrderList), orderH.Cancel)
			orders.POST("/:id/refund", middleware.RequirePermission(permissionSvc, middleware.PermissionOrderRefund), orderH.Refund)
		}

		// 通知（列表、已读、未读数对所有登录用户开放）
		notifications := admin.Group("/notifications")
		{
			notifications.GET("", notificationH.ListMine)
			notifications.GET("/unread-count", notificationH.UnreadCount)
			notifications.POST("/:id/read", notificationH.MarkRead)
			notifications.POST("", middleware.RequirePermission(permissionSvc, middleware.PermissionNotificationManage), notificationH.Send)
			notifications.DELETE("/:id", middleware.RequirePermission(permissionSvc, middleware.PermissionNotificationManage), notificationH.Delete)
		}

		// 系统配置
		configs := admin.Group("/configs")
		configs.Use(middleware.RequirePermission(permissionSvc, middleware.PermissionSystemConfig))
		{
			configs.PUT("", systemH.Upsert)
			configs.GET("/:group", systemH.ListByGroup)
			configs.GET("/:group/:key", systemH.Get)
			configs.DELETE("/:group/:key", systemH.Delete)
		}

		// 分润管理
		dist := admin.Group("/distribution")
		{
			distConfigs := dist.Group("/configs")
			distConfigs.Use(middleware.RequirePermission(permissionSvc, middleware.PermissionDistributionConfig))
			{
				distConfigs.GET("", distributionH.ListConfigs)
				distConfigs.POST("", distributionH.CreateConfig)
				distConfigs.GET("/enabled", distributionH.GetEnabledConfig)
				distConfigs.GET("/:id", distributionH.GetConfig)
				distConfigs.PUT("/:id", distributionH.UpdateConfig)
				distConfigs.POST("/:id/enable", distributionH.EnableConfig)
				distConfigs.POST("/:id/disable", distributionH.DisableConfig)
				distConfigs.DELETE("/:id", distributionH.DeleteConfig)
			}

			dist.GET("/profit-records", middleware.RequirePermission(permissionSvc, middleware.PermissionDistributionView), distributionH.ListProfitRecords)
			dist.GET("/profit-records/:id", middleware.RequirePermission(permissionSvc, middleware.PermissionDistributionView), distributionH.GetProfitRecord)
			dist.GET("/statistics", middleware.RequirePermission(permissionSvc, middleware.PermissionDistributionView), distributionH.Statistics)
			dist.GET("/beneficiaries/:user_id/records", middleware.RequirePermission(permissionSvc, middleware.PermissionDistributionView), distributionH.ListBeneficiaryRecords)
		dist.GET("/beneficiaries/:user_id/summary", middleware.RequirePermission(permissionSvc, middleware.PermissionDistributionView), distributionH.GetBeneficiarySummary)

			dist.POST("/profit-records/:id/settle", middleware.RequirePermission(permissionSvc, middleware.PermissionDistributionSettle), distributionH.SettleProfitRecord)
			dist.POST("/settle", middleware.RequirePermission(permissionSvc, middleware.PermissionDistributionSettle), distributionH.RunSettlement)
		}
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    404,
			"message": "接口不存在",
		})
	})

	// 后台定时任务
	sched := scheduler.NewScheduler()
	taskHandler := scheduler.NewTaskHandler(
		orderSvc, settlementSvc,
		cfg.Business.Order.CompleteSweepMinutes,
		cfg.Business.Distribution.SettleSweepMinutes,
	)
	scheduler.SetupTasks(sched, taskHandler)

	return sched
}
