package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"serveon_backend/internal/grid"
	"serveon_backend/internal/records/service"
	"serveon_backend/internal/records/transport"
	"serveon_backend/platform/httpkit"
	"serveon_backend/platform/validator"

	"github.com/gin-gonic/gin"
	gpvalidator "github.com/go-playground/validator/v10"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const filterTag = "filterop"

// New registers the filterop tag on val, which fails only for a broken
// validator setup.
func New(svc *service.Service, val *validator.Validator) (*Handler, error) {
	if err := registerFilter(val, filterTag); err != nil {
		return nil, err
	}
	return &Handler{svc: svc, val: val}, nil
}

func registerFilter(val *validator.Validator, tag string) error {
	if err := val.RegisterValidation(tag, validFilter); err != nil {
		return fmt.Errorf("register %q validation: %w", tag, err)
	}
	return nil
}

// validFilter accepts "field:operator:value" with a known operator.
func validFilter(fl gpvalidator.FieldLevel) bool {
	_, err := grid.ParseCondition(fl.Field().String())
	return err == nil
}

func (h *Handler) RegisterRoutes(records, favorites *gin.RouterGroup) {
	records.GET("", h.ListEntities)
	records.GET("/:entity", h.List)
	records.GET("/:entity/export.csv", h.Export)
	records.GET("/:entity/:id", h.Get)
	records.POST("/:entity", h.Create)
	records.PUT("/:entity/:id", h.Update)
	records.DELETE("/:entity/:id", h.Delete)

	favorites.GET("/:entity", h.Favorites)
	favorites.POST("/:entity/:id/toggle", h.ToggleFavorite)
}

func caller(c *gin.Context) (service.Caller, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return service.Caller{}, false
	}
	return service.Caller{UserID: identity.UserID(), Scope: identity.StorageScope()}, true
}

func (h *Handler) bindList(c *gin.Context) (transport.ListRequest, bool) {
	var req transport.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Fields(err))
		return req, false
	}
	return req, true
}

func (h *Handler) bindRecord(c *gin.Context) (transport.RecordRequest, bool) {
	var req transport.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Fields(err))
		return req, false
	}
	return req, true
}

func (h *Handler) ListEntities(c *gin.Context) {
	httpkit.OK(c, gin.H{"items": h.svc.Entities()})
}

func (h *Handler) List(c *gin.Context) {
	req, ok := h.bindList(c)
	if !ok {
		return
	}
	who, ok := caller(c)
	if !ok {
		return
	}

	result, err := h.svc.List(c.Request.Context(), who, c.Param("entity"), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Export(c *gin.Context) {
	req, ok := h.bindList(c)
	if !ok {
		return
	}
	who, ok := caller(c)
	if !ok {
		return
	}

	export, err := h.svc.Export(c.Request.Context(), who, c.Param("entity"), req)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header(httpkit.HeaderExportRows, strconv.Itoa(export.Rows))
	httpkit.Attachment(c, export.Filename, "text/csv; charset=utf-8", export.Body)
}

func (h *Handler) Get(c *gin.Context) {
	record, err := h.svc.Get(c.Request.Context(), c.Param("entity"), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, record)
}

func (h *Handler) Create(c *gin.Context) {
	req, ok := h.bindRecord(c)
	if !ok {
		return
	}

	record, err := h.svc.Create(c.Request.Context(), c.Param("entity"), req.Data)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, record)
}

func (h *Handler) Update(c *gin.Context) {
	req, ok := h.bindRecord(c)
	if !ok {
		return
	}

	record, err := h.svc.Update(c.Request.Context(), c.Param("entity"), c.Param("id"), req.Data)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, record)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("entity"), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}

	httpkit.NoContent(c)
}

func (h *Handler) Favorites(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}

	result, err := h.svc.Favorites(c.Request.Context(), who, c.Param("entity"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}

	result, err := h.svc.ToggleFavorite(c.Request.Context(), who, c.Param("entity"), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
