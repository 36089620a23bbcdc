package handler

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"shortdrama/dto"
	"shortdrama/service"
)

func (h *Handler) ClaimJob(c *gin.Context) {
	job, err := h.jobs.Claim(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *Handler) JobProgress(c *gin.Context) {
	id, found := pathID(c, service.ErrJobNotFound)
	if !found {
		return
	}
	var req dto.ProgressRequest
	if !bind(c, &req) {
		return
	}
	if err := h.jobs.ReportProgress(c.Request.Context(), id, req); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

func (h *Handler) CompleteJob(c *gin.Context) {
	id, found := pathID(c, service.ErrJobNotFound)
	if !found {
		return
	}
	var req dto.CompleteRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.jobs.Complete(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, completeBody(res))
}

func (h *Handler) FailJob(c *gin.Context) {
	id, found := pathID(c, service.ErrJobNotFound)
	if !found {
		return
	}
	var req dto.FailRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.jobs.Fail(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, completeBody(res))
}

func completeBody(res *dto.CompleteResult) gin.H {
	body := gin.H{}
	if res == nil {
		return body
	}
	if res.Mode != "" {
		body["mode"] = res.Mode
		body["episodes"] = res.Episodes
	}
	if res.AlreadyTerminal {
		body["alreadyTerminal"] = true
	}
	return body
}
