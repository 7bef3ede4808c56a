package user

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/usermodel/errors"
)

var supportedMediaTypes = []string{"application/json"}

// Handler serves the user routes.
type Handler struct {
	svc *Service
}

// NewHandler creates a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the user routes on r.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/users")
	g.GET("", h.list)
	g.GET("/search", h.search)
	g.GET("/name/:name", h.getByName)
	g.GET("/:id", h.get)
	g.POST("", requireJSON, h.create)
	g.PUT("/:id", requireJSON, h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	users, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	u, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) getByName(c *gin.Context) {
	u, err := h.svc.FindByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) search(c *gin.Context) {
	name, ok := c.GetQuery("name")
	if !ok {
		_ = c.Error(apperrors.MissingParameter("name", "string"))
		return
	}
	users, err := h.svc.Search(c.Request.Context(), name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) create(c *gin.Context) {
	var in NewUser
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(err)
		return
	}
	u, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Location", fmt.Sprintf("/users/%d", u.ID))
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var in UpdateUser
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(err)
		return
	}
	u, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

// pathID parses the :id path parameter. The *strconv.NumError is kept in
// the chain for the type-mismatch rule.
func pathID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("path variable id must be a number: %w", err)
	}
	return id, nil
}

// requireJSON rejects bodies whose content type is not JSON.
func requireJSON(c *gin.Context) {
	ct := c.GetHeader("Content-Type")
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil || mediaType != "application/json" {
		_ = c.Error(apperrors.UnsupportedMediaType(ct, supportedMediaTypes))
		c.Abort()
		return
	}
	c.Next()
}
