package router

import (
	"net/http"

	"Lee_Chat/internal/handler"
	"Lee_Chat/internal/middleware"
	"Lee_Chat/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	User    *handler.UserHandler
	Email   *handler.EmailHandler
	Group   *handler.GroupHandler
	Member  *handler.MemberHandler
	Invite  *handler.InviteHandler
	Message *handler.MessageHandler

	Issuer   *pkg.TokenIssuer
	Sessions middleware.SessionStore
	Metrics  *middleware.Metrics
}

func New(d Deps) *gin.Engine {
	r := gin.Default()
	if d.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(d.Metrics))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/:scope/code", d.Email.SendCode)
	}

	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", d.User.Register)
		userGroup.POST("/login", d.User.Login)
		userGroup.POST("/reset", d.User.ResetPassword)
	}

	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", d.User.TokenRefresh)
	}

	auth := middleware.Auth(d.Issuer, d.Sessions)

	authGroup := r.Group("/api/auth")
	authGroup.Use(auth)
	{
		authGroup.POST("/logout", d.User.Logout)
		authGroup.POST("/change-password", d.User.ChangePassword)
	}

	groupGroup := r.Group("/api/group")
	groupGroup.Use(auth)
	{
		groupGroup.POST("/create", d.Group.Create)
		groupGroup.PUT("/:id", d.Group.Edit)
		groupGroup.GET("/list", d.Group.List)
		groupGroup.GET("/:id/members", d.Group.Members)

		groupGroup.POST("/:id/members", d.Member.Add)
		groupGroup.DELETE("/:id/members/:uid", d.Member.Remove)
		groupGroup.PUT("/:id/members/:uid/role", d.Member.UpdateRole)
		groupGroup.DELETE("/:id/leave", d.Member.Leave)

		groupGroup.POST("/:id/invite", d.Invite.Generate)
		groupGroup.POST("/join/:token", d.Invite.Join)

		groupGroup.POST("/:id/messages", d.Message.Post)
		groupGroup.POST("/:id/messages/file", d.Message.PostFile)
		groupGroup.GET("/:id/messages", d.Message.List)
	}

	return r
}
