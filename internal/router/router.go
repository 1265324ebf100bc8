package router

import (
	"log"
	"os"
	"strconv"

	"Skill_Link/internal/handler"
	"Skill_Link/internal/middleware"
	"Skill_Link/internal/pkg"
	"Skill_Link/internal/service"

	"github.com/gin-gonic/gin"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitRouter() *gin.Engine {
	r := gin.Default()

	// 邮件环境
	smtpPort, _ := strconv.Atoi(envOr("SMTP_PORT", "587"))
	emailCfg := pkg.SMTPConfig{
		Host:     envOr("SMTP_HOST", "smtp.example.com"),
		Port:     smtpPort,
		Username: envOr("SMTP_USERNAME", "no-reply@example.com"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     envOr("SMTP_FROM", "Skill Link <no-reply@example.com>"),
	}

	// 头像落本地盘，公开地址走静态路由
	uploadDir := envOr("UPLOAD_DIR", "./uploads")
	storage, err := pkg.NewDiskStorage(uploadDir, envOr("PUBLIC_BASE_URL", "http://localhost:8080")+"/uploads")
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	r.Static("/uploads", uploadDir)

	hub := pkg.NewHub()
	chatSvc := service.NewChatService(hub)
	email := handler.NewEmailHandler(emailCfg)
	emailSvc := email.Service()

	user := handler.NewUserHandler(emailSvc)
	profile := handler.NewProfileHandler(storage)
	connection := handler.NewConnectionHandler(emailSvc)
	chat := handler.NewChatHandler(chatSvc)
	project := handler.NewProjectHandler()
	application := handler.NewApplicationHandler(chatSvc, emailSvc)
	ws := handler.NewWSHandler(hub, chatSvc)

	// 邮件相关接口
	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/:scope/code", email.SendCode)
	}

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		// 登出要先过鉴权拿到 user_id，才能清掉 redis 里的单点 token
		userGroup.POST("/logout", middleware.AuthMiddleware(), user.Logout)
		userGroup.POST("/reset", user.ResetPassword)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/change-password", user.ChangePassword)
	}

	// 资料相关接口
	profileGroup := r.Group("/api/profile")
	profileGroup.Use(middleware.AuthMiddleware())
	{
		profileGroup.GET("/me", profile.Me)
		profileGroup.GET("/views", profile.Viewers)
		profileGroup.GET("/:id", profile.Get)
		profileGroup.PUT("/", profile.Update)
		profileGroup.POST("/avatar", profile.UploadAvatar)
	}

	// 技能词表
	skillGroup := r.Group("/api/skill")
	skillGroup.Use(middleware.AuthMiddleware())
	{
		skillGroup.GET("/search", profile.SearchSkills)
	}

	// 连接相关接口
	connGroup := r.Group("/api/connection")
	connGroup.Use(middleware.AuthMiddleware())
	{
		connGroup.POST("/", connection.Request)
		connGroup.POST("/respond", connection.Respond)
		connGroup.DELETE("/:id", connection.Remove)
		connGroup.GET("/list", connection.List)
		connGroup.GET("/pending", connection.Pending)
		connGroup.GET("/relation", connection.Relation)
	}

	// 会话相关接口
	chatGroup := r.Group("/api/chat")
	chatGroup.Use(middleware.AuthMiddleware())
	{
		chatGroup.GET("/list", chat.List)
		chatGroup.POST("/direct", chat.OpenDirect)
		chatGroup.GET("/:id/messages", chat.Messages)
		chatGroup.POST("/:id/messages", chat.SendMessage)
		chatGroup.POST("/:id/read", chat.MarkRead)
	}

	// 实时推送，token 走 query
	wsGroup := r.Group("/ws")
	{
		wsGroup.GET("/chat/:id", ws.ChatWS)
		wsGroup.GET("/badge", ws.BadgeWS)
	}

	// 项目相关接口
	projectGroup := r.Group("/api/project")
	projectGroup.Use(middleware.AuthMiddleware())
	{
		projectGroup.POST("/create", project.Create)
		projectGroup.PUT("/:id", project.Update)
		projectGroup.DELETE("/:id", project.Delete)
		projectGroup.GET("/list", project.List)
		projectGroup.GET("/mine", project.Mine)
		projectGroup.GET("/:id", project.Get)
	}

	// 申请相关接口
	appGroup := r.Group("/api/application")
	appGroup.Use(middleware.AuthMiddleware())
	{
		appGroup.POST("/", application.Apply)
		appGroup.GET("/mine", application.Mine)
		appGroup.GET("/project/:id", application.ListForProject)
		appGroup.POST("/:id/reply", application.Reply)
	}

	return r
}
