// Package routes maps the HTTP API onto its handlers and access guards.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-paws-api/internal/handler"
	"github.com/noah-isme/campus-paws-api/internal/middleware"
)

// Handlers groups every API handler.
type Handlers struct {
	Dogs         *handler.DogHandler
	Interactions *handler.InteractionHandler
	Gallery      *handler.GalleryHandler
	Reports      *handler.ReportHandler
	Profile      *handler.ProfileHandler
	Moderation   *handler.ModerationHandler
	Admin        *handler.AdminHandler
	Leaderboard  *handler.LeaderboardHandler
}

// Register mounts the API under api. Public reads need no token; participation
// routes also require a verified username; admin routes require a moderator, and
// user management a super admin. Upload bodies are capped at uploadLimit bytes of file
// content; zero disables the cap.
func Register(api *gin.RouterGroup, h Handlers, auth middleware.Authenticator, uploadLimit int64) {
	api.GET("/dogs", h.Dogs.List)
	api.GET("/dogs/qr/:code", h.Dogs.GetByQRCode)
	api.GET("/dogs/:id", h.Dogs.Get)
	api.GET("/gallery", h.Gallery.List)
	api.GET("/leaderboard", h.Leaderboard.Leaderboard)
	api.GET("/stats", h.Leaderboard.Stats)
	api.GET("/media/:token", h.Gallery.Media)

	authed := api.Group("")
	authed.Use(middleware.JWT(auth), middleware.AuditMeta())

	authed.GET("/me", h.Profile.Me)
	authed.PUT("/me/username", h.Profile.RequestUsername)
	authed.PUT("/me/birthdate", h.Profile.UpdateBirthdate)

	participant := authed.Group("")
	participant.Use(middleware.RequireParticipant())
	upload := middleware.UploadLimit(uploadLimit)
	participant.POST("/me/avatar", upload, h.Profile.UploadAvatar)
	participant.POST("/dogs/report", h.Dogs.ReportStray)
	participant.POST("/dogs/:id/interactions", h.Interactions.Log)
	participant.POST("/gallery", upload, h.Gallery.Upload)
	participant.POST("/reports", h.Reports.Create)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireModerator())
	admin.GET("/queue", h.Moderation.Queue)

	admin.POST("/dogs", h.Dogs.Register)
	admin.GET("/dogs/pending", h.Dogs.ListPending)
	admin.GET("/dogs/needs-naming", h.Dogs.ListNeedsNaming)
	admin.POST("/dogs/:id/approve", h.Dogs.Approve)
	admin.POST("/dogs/:id/reject", h.Dogs.Reject)
	admin.POST("/dogs/:id/name", h.Dogs.Name)

	admin.GET("/images/pending", h.Gallery.ListPending)
	admin.POST("/images/:id/approve", h.Gallery.Approve)
	admin.POST("/images/:id/reject", h.Gallery.Reject)

	admin.GET("/usernames", h.Moderation.ListUsernames)
	admin.POST("/usernames/:id/approve", h.Moderation.ApproveUsername)
	admin.POST("/usernames/:id/reject", h.Moderation.RejectUsername)
	admin.POST("/avatars/:id/approve", h.Moderation.ApproveAvatar)
	admin.POST("/avatars/:id/reject", h.Moderation.RejectAvatar)

	admin.GET("/reports", h.Reports.List)
	admin.POST("/reports/:id/dismiss", h.Reports.Dismiss)
	admin.POST("/reports/:id/action", h.Reports.TakeAction)
	admin.POST("/reports/:id/restore", h.Reports.Restore)

	admin.GET("/leaderboard/export", h.Leaderboard.Export)

	users := admin.Group("/users")
	users.Use(middleware.RequireSuperAdmin())
	users.GET("", h.Admin.ListUsers)
	users.PUT("/:id/role", h.Admin.UpdateRole)
	users.POST("/:id/suspend", h.Admin.Suspend)
	users.POST("/:id/unsuspend", h.Admin.Unsuspend)
	users.POST("/:id/hide", h.Admin.Hide)
	users.POST("/:id/unhide", h.Admin.Unhide)
	users.DELETE("/:id", h.Admin.Delete)
	admin.GET("/audit", middleware.RequireSuperAdmin(), h.Admin.AuditTrail)
}
