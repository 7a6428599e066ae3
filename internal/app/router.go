package app

import (
	"github.com/ManvithReddyyy/vinnu-app/docs"
	"github.com/ManvithReddyyy/vinnu-app/internal/config"
	"github.com/ManvithReddyyy/vinnu-app/internal/middleware"
	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes. TryAuth lets logged-in viewers get their relationship
	// state on profiles without blocking guests.
	public := router.Group("/api")
	public.Use(middleware.TryAuthMiddleware(cfg))
	{
		public.GET("/health", c.health.HealthCheck)

		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.POST("/auth/logout", c.auth.Logout)
		public.POST("/auth/verify-otp", c.auth.VerifyOTP)
		public.POST("/auth/resend-otp", c.auth.ResendOTP)

		public.GET("/users", c.user.ListUsers)
		public.GET("/profiles/:username", c.user.GetProfile)
		public.GET("/profiles/:username/playlists", c.user.ListUserPlaylists)

		public.GET("/playlists", c.playlist.Search)
		public.GET("/playlists/search", c.playlist.Search)
		public.GET("/playlists/:id", c.playlist.Get)
		public.POST("/playlists/:id/view", c.playlist.RecordView)
		public.POST("/playlists/:id/click", c.playlist.RecordClick)
	}

	// Authenticated routes.
	authed := router.Group("/api")
	authed.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authed.GET("/auth/me", c.auth.Me)
		authed.GET("/profile", c.user.GetOwnProfile)

		authed.PATCH("/users/me", c.user.UpdateProfile)
		authed.PUT("/users/me/socials", c.user.UpdateSocials)
		authed.POST("/users/me/avatar", c.user.UploadAvatar)

		authed.POST("/users/:id/follow", c.relationship.ToggleFollow)
		authed.POST("/users/:id/friend-request", c.relationship.SendFriendRequest)
		authed.DELETE("/users/:id/friend-request", c.relationship.CancelRequest)
		authed.POST("/users/:id/friend-request/accept", c.relationship.AcceptRequest)
		authed.POST("/users/:id/friend-request/reject", c.relationship.RejectRequest)
		authed.DELETE("/users/:id/friend", c.relationship.RemoveFriend)
		authed.GET("/users/:id/friend-status", c.relationship.GetFriendStatus)
		authed.GET("/users/:id/following-status", c.relationship.GetFollowingStatus)
		authed.GET("/friends", c.relationship.ListFriends)
		authed.GET("/friends/requests", c.relationship.ListPendingRequests)

		authed.POST("/playlists", c.playlist.Create)
		authed.GET("/playlists/mine", c.playlist.ListMine)
		authed.PUT("/playlists/:id", c.playlist.Update)
		authed.PATCH("/playlists/:id", c.playlist.Update)
		authed.DELETE("/playlists/:id", c.playlist.Delete)
		authed.POST("/playlists/:id/like", c.playlist.ToggleLike)
		authed.POST("/playlists/cover", c.playlist.UploadCover)
	}

	// Admin console. Admins get moderation and reads; role changes and
	// permanent deletion are superadmin only.
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	{
		moderation := admin.Group("")
		moderation.Use(middleware.RoleMiddleware(model.RoleAdmin))
		{
			moderation.GET("/users", c.admin.ListUsers)
			moderation.GET("/playlists", c.admin.ListPlaylists)
			moderation.GET("/stats", c.admin.GetStats)
			moderation.POST("/users/:id/ban", c.admin.Ban)
			moderation.POST("/users/:id/unban", c.admin.Unban)
			moderation.DELETE("/playlists/:id", c.admin.DeletePlaylist)
		}

		roles := admin.Group("")
		roles.Use(middleware.RoleMiddleware(model.RoleSuperAdmin))
		{
			roles.POST("/users/:id/promote", c.admin.Promote)
			roles.POST("/users/:id/demote", c.admin.Demote)
		}

		super := admin.Group("")
		super.Use(middleware.RoleMiddleware(model.RoleSuperAdmin))
		{
			super.DELETE("/users/:id", c.admin.DeleteUser)
		}
	}
}
