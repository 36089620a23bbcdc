package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"net/http"
	"shortdrama/service"
)

type Dependencies struct {
	Jobs    service.JobService
	Viewer  service.ViewerService
	Catalog service.CatalogService
	Auth    service.AuthService
}

type Handler struct {
	jobs    service.JobService
	viewer  service.ViewerService
	catalog service.CatalogService
	auth    service.AuthService
}

func New(deps Dependencies) *Handler {
	return &Handler{
		jobs:    deps.Jobs,
		viewer:  deps.Viewer,
		catalog: deps.Catalog,
		auth:    deps.Auth,
	}
}

func ok(c *gin.Context, extra gin.H) {
	body := gin.H{"ok": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// pathID parses the :id parameter. An id that is not a UUID cannot exist, so
// it is reported as missing.
func pathID(c *gin.Context, missing error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, missing)
		return uuid.Nil, false
	}
	return id, true
}

// bind decodes the JSON body into req. An empty body is accepted as {} so
// that the binding rules decide what is required.
func bind(c *gin.Context, req any) bool {
	var err error
	if c.Request.ContentLength == 0 {
		err = binding.Validator.ValidateStruct(req)
	} else {
		err = c.ShouldBindJSON(req)
	}
	if err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}
