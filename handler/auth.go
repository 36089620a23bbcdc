package handler

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"shortdrama/dto"
)

func (h *Handler) Guest(c *gin.Context) {
	session, err := h.auth.Guest(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if !bind(c, &req) {
		return
	}
	token, err := h.auth.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
