package clients

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docverify-backend/internal/shared/pagination"
	"docverify-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc      *Service
	PageSize int
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, pageSize int) *Handler {
	return &Handler{Svc: svc, PageSize: pageSize}
}

// RegisterRoutes attaches client routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/clients", h.list)
	rg.POST("/clients", h.create)
	rg.GET("/clients/:id", h.get)
	rg.PUT("/clients/:id", h.update)
	rg.DELETE("/clients/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	page := pagination.FromRequest(c, h.PageSize)
	items, total, err := h.Svc.List(c.Request.Context(), ListFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Limit:  page.Limit(),
		Offset: page.Offset(),
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list clients", nil)
		return
	}

	out := make([]ClientResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	respond.OK(c, pagination.New(c, page, total, out))
}

func (h *Handler) create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", err.Error())
		return
	}

	client, err := h.Svc.Create(c.Request.Context(), req.input())
	if err != nil {
		h.writeError(c, err, "failed to create client")
		return
	}
	c.Set("clientId", client.ID)
	respond.Created(c, client.ID, toResponse(client))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("clientId", id)

	client, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to fetch client")
		return
	}
	respond.OK(c, toResponse(client))
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set("clientId", id)

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", err.Error())
		return
	}

	client, err := h.Svc.Update(c.Request.Context(), id, req.input())
	if err != nil {
		h.writeError(c, err, "failed to update client")
		return
	}
	respond.OK(c, toResponse(client))
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("clientId", id)

	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "failed to delete client")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "client not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrEmailTaken):
		respond.Error(c, http.StatusConflict, "conflict", "a client with this email already exists", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
