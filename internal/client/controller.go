package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ClientController struct {
	service ClientServiceInterface
}

func NewClientController(service ClientServiceInterface) *ClientController {
	return &ClientController{
		service: service,
	}
}

// bindPayload decodes the body strictly: unknown keys and mistyped values are
// rejected instead of being silently dropped.
func bindPayload(c *gin.Context, p *ClientPayload) error {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(p)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Client not found"})
}

// parseID extracts the numeric id path parameter. A non-numeric id can never
// match a record, so it is reported as not found.
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		notFound(c)
		return 0, false
	}
	return id, true
}

// Create handles POST /api/clients.
func (a *ClientController) Create(c *gin.Context) {
	var payload ClientPayload
	if err := bindPayload(c, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	created, err := a.service.CreateClient(&payload)
	if err != nil {
		logrus.WithError(err).Error("Failed to create client")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List handles GET /api/clients with filtering and pagination.
func (a *ClientController) List(c *gin.Context) {
	filter := ListFilter{
		Page:        parseIntQuery(c, "page", 1),
		PageSize:    parseIntQuery(c, "pageSize", 10),
		CreditMix:   c.Query("credit_mix"),
		CreditScore: c.Query("credit_score"),
		Search:      c.Query("search"),
	}

	// A page below 1 would turn into a negative offset.
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 0 {
		filter.PageSize = 10
	}

	page, err := a.service.ListClients(filter)
	if err != nil {
		logrus.WithError(err).Error("Failed to list clients")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list clients"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/clients/:id.
func (a *ClientController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	cl, err := a.service.GetClient(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			notFound(c)
			return
		}
		logrus.WithError(err).Error("Failed to get client")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get client"})
		return
	}

	c.JSON(http.StatusOK, cl)
}

// Update handles PATCH /api/clients/:id. Only fields present in the body
// change; the rest keep their values.
func (a *ClientController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload ClientPayload
	if err := bindPayload(c, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	updated, err := a.service.UpdateClient(id, &payload)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			notFound(c)
			return
		}
		logrus.WithError(err).Error("Failed to update client")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/clients/:id.
func (a *ClientController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := a.service.DeleteClient(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			notFound(c)
			return
		}
		logrus.WithError(err).Error("Failed to delete client")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Statistics handles GET /api/statistics.
func (a *ClientController) Statistics(c *gin.Context) {
	stats, err := a.service.Statistics()
	if err != nil {
		logrus.WithError(err).Error("Failed to compute statistics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
