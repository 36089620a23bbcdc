package handler

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"shortdrama/dto"
	"shortdrama/service"
	"strconv"
)

func (h *Handler) HomeFeed(c *gin.Context) {
	items, err := h.viewer.HomeFeed(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) FeedSeries(c *gin.Context) {
	cards, err := h.catalog.FeedSeries(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": cards})
}

func (h *Handler) GetSeries(c *gin.Context) {
	id, found := pathID(c, service.ErrSeriesNotFound)
	if !found {
		return
	}
	series, err := h.catalog.GetSeries(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

func (h *Handler) PublishedEpisodes(c *gin.Context) {
	id, found := pathID(c, service.ErrSeriesNotFound)
	if !found {
		return
	}
	episodes, err := h.catalog.PublishedEpisodes(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"episodes": episodes})
}

func (h *Handler) Unlock(c *gin.Context) {
	id, found := pathID(c, service.ErrEpisodeNotFound)
	if !found {
		return
	}
	var req dto.UnlockRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.viewer.Unlock(c.Request.Context(), currentUser(c), id, req.Method)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Progress(c *gin.Context) {
	id, found := pathID(c, service.ErrEpisodeNotFound)
	if !found {
		return
	}
	var req dto.WatchRequest
	if !bind(c, &req) {
		return
	}
	if err := h.viewer.RecordProgress(c.Request.Context(), currentUser(c), id, *req.Watched); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

func (h *Handler) Viewed(c *gin.Context) {
	id, found := pathID(c, service.ErrEpisodeNotFound)
	if !found {
		return
	}
	if err := h.viewer.MarkViewed(c.Request.Context(), currentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

func (h *Handler) Me(c *gin.Context) {
	me, err := h.viewer.Me(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": me})
}

func (h *Handler) Transactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.viewer.Transactions(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": entries})
}
