package handler

import (
	"github.com/gin-gonic/gin"
	"shortdrama/pkg/ratelimit"
)

// Register mounts the viewer, admin and worker APIs on r.
func (h *Handler) Register(r gin.IRouter, auth Authenticator, limiter ratelimit.Limiter) {
	r.POST("/auth/guest", RateLimit(limiter, "guest"), h.Guest)
	r.POST("/admin/login", h.AdminLogin)

	viewer := r.Group("/", UserAuth(auth))
	viewer.GET("/feed/home", h.HomeFeed)
	viewer.GET("/feed/series", h.FeedSeries)
	viewer.GET("/series/:id", h.GetSeries)
	viewer.GET("/series/:id/episodes", h.PublishedEpisodes)
	viewer.GET("/me", h.Me)
	viewer.GET("/me/transactions", h.Transactions)
	viewer.POST("/episode/:id/unlock", h.Unlock)
	viewer.POST("/episode/:id/progress", h.Progress)
	viewer.POST("/episode/:id/viewed", h.Viewed)

	admin := r.Group("/admin", AdminAuth(auth))
	admin.GET("/series", h.ListSeries)
	admin.POST("/series", h.CreateSeries)
	admin.GET("/series/:id", h.GetSeries)
	admin.PUT("/series/:id", h.UpdateSeries)
	admin.PATCH("/series/:id", h.UpdateSeries)
	admin.DELETE("/series/:id", h.DeleteSeries)
	admin.GET("/series/:id/episodes", h.SeriesEpisodes)
	admin.POST("/series/:id/auto-split", h.AutoSplit)
	admin.POST("/series/:id/seed-demo", h.SeedDemo)
	admin.POST("/import-from-url", h.ImportFromURL)
	admin.POST("/trigger-ai", h.TriggerEncode)
	admin.POST("/episodes", h.CreateEpisode)
	admin.POST("/episodes/:id/retry-ai", h.RetryEncode)
	admin.POST("/episodes/:id/raw", h.ReplaceRaw)
	admin.POST("/episodes/:id/publish", h.Publish)
	admin.GET("/episodes/:id/status", h.EpisodeStatus)
	admin.GET("/jobs/:id/status", h.JobStatus)
	admin.GET("/debug/recent", h.RecentActivity)
	admin.POST("/upload", h.PresignUpload)
	admin.POST("/upload-file", h.UploadFile)

	worker := r.Group("/worker", WorkerAuth(auth))
	worker.POST("/jobs/claim", h.ClaimJob)
	worker.POST("/jobs/:id/progress", h.JobProgress)
	worker.POST("/jobs/:id/complete", h.CompleteJob)
	worker.POST("/jobs/:id/fail", h.FailJob)
}
