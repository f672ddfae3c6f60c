package handlers

import (
	"time"

	"investmate/internal/dto"
	"investmate/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const imageURLTTL = 15 * time.Minute

type PropertyHandler struct {
	propertyService *service.PropertyService
	logger          *zap.Logger
}

func NewPropertyHandler(propertyService *service.PropertyService, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		logger:          logger,
	}
}

// CreateProperty godoc
// @Summary Register a new property
// @Tags properties
// @Accept json
// @Produce json
// @Param request body dto.CreatePropertyRequest true "Property"
// @Security Bearer
// @Success 201 {object} dto.PropertyResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/properties [post]
func (h *PropertyHandler) CreateProperty(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.CreatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.City == "" || req.Address == "" || req.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "city, address and a positive price are required",
		})
	}

	resp, err := h.propertyService.Create(c.Context(), agentID, &req)
	if err != nil {
		if err == service.ErrInvalidPropertyType {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "property_type must be apartment, house or vacation",
			})
		}
		h.logger.Error("Failed to create property", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create property",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListProperties godoc
// @Summary List the agent's properties
// @Tags properties
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.PropertyResponse
// @Router /api/v1/properties [get]
func (h *PropertyHandler) ListProperties(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	properties, err := h.propertyService.List(c.Context(), agentID)
	if err != nil {
		h.logger.Error("Failed to list properties", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list properties",
		})
	}

	return c.JSON(properties)
}

// GetProperty godoc
// @Summary Get one property
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Security Bearer
// @Success 200 {object} dto.PropertyResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/properties/{id} [get]
func (h *PropertyHandler) GetProperty(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property ID",
		})
	}

	resp, err := h.propertyService.Get(c.Context(), id, agentID)
	if err != nil {
		if err == service.ErrPropertyNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
		h.logger.Error("Failed to get property", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get property",
		})
	}

	return c.JSON(resp)
}

// UpdateProperty godoc
// @Summary Update a property
// @Tags properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body dto.UpdatePropertyRequest true "Fields to update"
// @Security Bearer
// @Success 200 {object} dto.PropertyResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/properties/{id} [put]
func (h *PropertyHandler) UpdateProperty(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property ID",
		})
	}

	var req dto.UpdatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.propertyService.Update(c.Context(), id, agentID, &req)
	if err != nil {
		switch err {
		case service.ErrPropertyNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		case service.ErrInvalidPropertyType:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "property_type must be apartment, house or vacation",
			})
		}
		h.logger.Error("Failed to update property", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update property",
		})
	}

	return c.JSON(resp)
}

// DeleteProperty godoc
// @Summary Delete a property
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Security Bearer
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/properties/{id} [delete]
func (h *PropertyHandler) DeleteProperty(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property ID",
		})
	}

	if err := h.propertyService.Delete(c.Context(), id, agentID); err != nil {
		if err == service.ErrPropertyNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
		h.logger.Error("Failed to delete property", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete property",
		})
	}

	return c.JSON(fiber.Map{"status": "deleted"})
}

// UploadImage godoc
// @Summary Upload a property image
// @Tags properties
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Property ID"
// @Param file formData file true "Image file"
// @Security Bearer
// @Success 201 {object} dto.ImageUploadResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/properties/{id}/image [post]
func (h *PropertyHandler) UploadImage(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property ID",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := h.propertyService.UploadImage(c.Context(), id, agentID, file.Filename, contentType, src, file.Size)
	if err != nil {
		if err == service.ErrPropertyNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
		h.logger.Error("Failed to upload image", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload image",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetImageURL godoc
// @Summary Get a temporary URL for the property image
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Security Bearer
// @Success 200 {object} dto.ImageURLResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/properties/{id}/image-url [get]
func (h *PropertyHandler) GetImageURL(c *fiber.Ctx) error {
	agentID, err := getAgentID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property ID",
		})
	}

	resp, err := h.propertyService.ImageURL(c.Context(), id, agentID, imageURLTTL)
	if err != nil {
		switch err {
		case service.ErrPropertyNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		case service.ErrNoImage:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property has no image",
			})
		}
		h.logger.Error("Failed to presign image", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get image URL",
		})
	}

	return c.JSON(resp)
}
