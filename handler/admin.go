package handler

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"shortdrama/dto"
	"shortdrama/service"
)

const maxUploadBytes = 2 << 30

func (h *Handler) ListSeries(c *gin.Context) {
	list, err := h.catalog.ListSeries(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": list})
}

func (h *Handler) CreateSeries(c *gin.Context) {
	var req dto.SeriesRequest
	if !bind(c, &req) {
		return
	}
	series, err := h.catalog.CreateSeries(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"series": series})
}

func (h *Handler) UpdateSeries(c *gin.Context) {
	id, found := pathID(c, service.ErrSeriesNotFound)
	if !found {
		return
	}
	var req dto.SeriesUpdate
	if !bind(c, &req) {
		return
	}
	series, err := h.catalog.UpdateSeries(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

func (h *Handler) DeleteSeries(c *gin.Context) {
	id, found := pathID(c, service.ErrSeriesNotFound)
	if !found {
		return
	}
	deleted, err := h.catalog.DeleteSeries(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"deletedEpisodes": deleted})
}

func (h *Handler) SeriesEpisodes(c *gin.Context) {
	id, found := pathID(c, service.ErrSeriesNotFound)
	if !found {
		return
	}
	res, err := h.catalog.SeriesEpisodes(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) AutoSplit(c *gin.Context) {
	id, found := pathID(c, service.ErrSeriesNotFound)
	if !found {
		return
	}
	var req dto.SplitRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.jobs.CreateSplitJob(c.Request.Context(), id, req.Policy())
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"jobId": res.JobId, "episodeId": res.EpisodeId, "seriesId": res.SeriesId, "reused": res.Reused})
}

func (h *Handler) ImportFromURL(c *gin.Context) {
	var req dto.ImportRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.jobs.ImportFromURL(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"jobId": res.JobId, "episodeId": res.EpisodeId, "seriesId": res.SeriesId})
}

func (h *Handler) SeedDemo(c *gin.Context) {
	id, found := pathID(c, service.ErrSeriesNotFound)
	if !found {
		return
	}
	var req dto.SeedDemoRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.catalog.SeedDemo(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) TriggerEncode(c *gin.Context) {
	var req dto.EncodeRequest
	if !bind(c, &req) {
		return
	}
	h.enqueueEncode(c, req)
}

func (h *Handler) RetryEncode(c *gin.Context) {
	id, found := pathID(c, service.ErrEpisodeNotFound)
	if !found {
		return
	}
	h.enqueueEncode(c, dto.EncodeRequest{EpisodeId: id})
}

func (h *Handler) enqueueEncode(c *gin.Context, req dto.EncodeRequest) {
	job, err := h.jobs.CreateEncodeJob(c.Request.Context(), req.EpisodeId)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"jobId": job.ID})
}

func (h *Handler) JobStatus(c *gin.Context) {
	id, found := pathID(c, service.ErrJobNotFound)
	if !found {
		return
	}
	view, err := h.jobs.JobStatus(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) CreateEpisode(c *gin.Context) {
	var req dto.EpisodeRequest
	if !bind(c, &req) {
		return
	}
	episode, err := h.catalog.CreateEpisode(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"episode": episode})
}

func (h *Handler) ReplaceRaw(c *gin.Context) {
	id, found := pathID(c, service.ErrEpisodeNotFound)
	if !found {
		return
	}
	var req dto.RawRequest
	if !bind(c, &req) {
		return
	}
	if err := h.catalog.ReplaceRaw(c.Request.Context(), id, req.RawKey); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

func (h *Handler) Publish(c *gin.Context) {
	id, found := pathID(c, service.ErrEpisodeNotFound)
	if !found {
		return
	}
	var req dto.PublishRequest
	if !bind(c, &req) {
		return
	}
	published := req.Published == nil || *req.Published
	if err := h.catalog.SetPublished(c.Request.Context(), id, published); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"published": published})
}

func (h *Handler) EpisodeStatus(c *gin.Context) {
	id, found := pathID(c, service.ErrEpisodeNotFound)
	if !found {
		return
	}
	view, err := h.catalog.EpisodeStatus(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) RecentActivity(c *gin.Context) {
	res, err := h.catalog.RecentActivity(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) PresignUpload(c *gin.Context) {
	var req dto.UploadRequest
	if !bind(c, &req) {
		return
	}
	ticket, err := h.catalog.PresignUpload(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *Handler) UploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	header, err := c.FormFile("file")
	if err != nil {
		writeBindError(c, err)
		return
	}
	file, err := header.Open()
	if err != nil {
		writeBindError(c, err)
		return
	}
	defer file.Close()

	ticket, err := h.catalog.UploadFile(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}
