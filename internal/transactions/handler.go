package transactions

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"docverify-backend/internal/imaging"
	"docverify-backend/internal/shared/pagination"
	"docverify-backend/internal/shared/server/respond"
)

const (
	fieldClient    = "client"
	fieldFrontside = "image_frontside"
	fieldBackside  = "image_backside"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	PageSize       int
	MaxUploadBytes int64

	basePath string
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, pageSize int, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, PageSize: pageSize, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches transaction routes to the router group. Extra
// handlers run before the submit handler only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, submitMiddleware ...gin.HandlerFunc) {
	h.basePath = strings.TrimSuffix(rg.BasePath(), "/")
	rg.GET("/transactions", h.list)
	rg.POST("/transactions", append(submitMiddleware, h.submit)...)
	rg.GET("/transactions/:id", h.get)
	rg.GET("/transactions/:id/images/:side", h.image)
	rg.DELETE("/transactions/:id", h.delete)
}

func (h *Handler) submit(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	sub, err := h.parseSubmission(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", err.Error())
		return
	}
	c.Set("clientId", sub.ClientID)

	ctx := WithRequestID(c.Request.Context(), c.GetString("requestId"))
	tx, err := h.Svc.Submit(ctx, sub)
	if tx.ID != "" {
		c.Set("transactionId", tx.ID)
	}
	if err != nil {
		h.writeError(c, err, "failed to submit transaction")
		return
	}
	respond.Created(c, tx.ID, toResponse(tx, h.basePath))
}

func (h *Handler) parseSubmission(c *gin.Context) (Submission, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return parseMultipart(c)
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return Submission{}, err
	}
	return Submission{
		ClientID: req.Client,
		Front:    base64Input(req.ImageFrontside),
		Back:     base64Input(req.ImageBackside),
	}, nil
}

func parseMultipart(c *gin.Context) (Submission, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return Submission{}, err
	}
	front, err := formImage(form, fieldFrontside)
	if err != nil {
		return Submission{}, err
	}
	back, err := formImage(form, fieldBackside)
	if err != nil {
		return Submission{}, err
	}
	return Submission{
		ClientID: firstValue(form, fieldClient),
		Front:    front,
		Back:     back,
	}, nil
}

// formImage reads a file part, falling back to a base64 text field of the
// same name.
func formImage(form *multipart.Form, field string) (*ImageInput, error) {
	if files := form.File[field]; len(files) > 0 {
		fh := files[0]
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", field, err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", field, err)
		}
		return &ImageInput{FileName: fh.Filename, Data: data}, nil
	}
	return base64Input(firstValue(form, field)), nil
}

func firstValue(form *multipart.Form, field string) string {
	if values := form.Value[field]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func base64Input(value string) *ImageInput {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &ImageInput{Base64: value}
}

func (h *Handler) list(c *gin.Context) {
	page := pagination.FromRequest(c, h.PageSize)
	filter := ListFilter{
		ClientID: strings.TrimSpace(c.Query("client")),
		Limit:    page.Limit(),
		Offset:   page.Offset(),
	}
	if raw := strings.TrimSpace(c.Query("result")); raw != "" {
		result, err := strconv.ParseBool(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "result must be true or false", nil)
			return
		}
		filter.Result = &result
	}
	if filter.ClientID != "" {
		c.Set("clientId", filter.ClientID)
	}

	items, total, err := h.Svc.List(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list transactions", nil)
		return
	}

	out := make([]TransactionResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item, h.basePath))
	}
	respond.OK(c, pagination.New(c, page, total, out))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("transactionId", id)

	tx, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to fetch transaction")
		return
	}
	c.Set("clientId", tx.ClientID)
	respond.OK(c, toResponse(tx, h.basePath))
}

func (h *Handler) image(c *gin.Context) {
	id := c.Param("id")
	c.Set("transactionId", id)

	side := Side(c.Param("side"))
	url, ok, err := h.Svc.ImageLink(c.Request.Context(), id, side)
	if err != nil {
		h.writeError(c, err, "failed to open image")
		return
	}
	if ok {
		c.Redirect(http.StatusTemporaryRedirect, url)
		return
	}

	rc, contentType, err := h.Svc.OpenImage(c.Request.Context(), id, side)
	if err != nil {
		h.writeError(c, err, "failed to open image")
		return
	}
	defer rc.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("transactionId", id)

	ctx := WithRequestID(c.Request.Context(), c.GetString("requestId"))
	if err := h.Svc.Delete(ctx, id); err != nil {
		h.writeError(c, err, "failed to delete transaction")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var rejected *RejectedError
	switch {
	case errors.As(err, &rejected):
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", rejected.Transaction.Details, RejectionDetails{
			Transaction: toResponse(rejected.Transaction, h.basePath),
			ErrorCode:   int(rejected.Code()),
		})
	case errors.Is(err, ErrClientNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "client not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "transaction not found", nil)
	case errors.Is(err, ErrImageNotStored):
		respond.Error(c, http.StatusNotFound, "not_found", "image not stored for this transaction", nil)
	case errors.Is(err, imaging.ErrMalformedImage):
		respond.Error(c, http.StatusBadRequest, "malformed_image", "image payload could not be decoded", err.Error())
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
