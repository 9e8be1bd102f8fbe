package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Juliussaint/gmianugerah/internal/api/dto"
	"github.com/Juliussaint/gmianugerah/internal/service"
	util "github.com/Juliussaint/gmianugerah/pkg/util"
)

// SectorsHandler exposes sector management over HTTP.
type SectorsHandler struct {
	sectors *service.SectorService
}

// NewSectorsHandler constructs the handler.
func NewSectorsHandler(sectors *service.SectorService) *SectorsHandler {
	return &SectorsHandler{sectors: sectors}
}

// Create registers a sector.
func (h *SectorsHandler) Create(c *fiber.Ctx) error {
	var payload dto.SectorPayload
	if err := c.BodyParser(&payload); err != nil {
		return util.NewValidationError("invalid request body", map[string]any{"body": err.Error()})
	}
	if details := dto.ValidateStruct(payload); details != nil {
		return util.NewValidationError("invalid sector payload", details)
	}

	sector, err := h.sectors.Create(c.Context(), service.SectorInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSectorResponse(sector))
}

// List returns all sectors.
func (h *SectorsHandler) List(c *fiber.Ctx) error {
	sectors, err := h.sectors.List(c.Context())
	if err != nil {
		return err
	}
	responses := make([]dto.SectorResponse, 0, len(sectors))
	for i := range sectors {
		responses = append(responses, dto.NewSectorResponse(&sectors[i]))
	}
	return c.JSON(fiber.Map{"data": responses, "count": len(responses)})
}

// Get fetches a sector.
func (h *SectorsHandler) Get(c *fiber.Ctx) error {
	sector, err := h.sectors.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSectorResponse(sector))
}

// Update edits a sector.
func (h *SectorsHandler) Update(c *fiber.Ctx) error {
	var payload dto.SectorPayload
	if err := c.BodyParser(&payload); err != nil {
		return util.NewValidationError("invalid request body", map[string]any{"body": err.Error()})
	}
	if details := dto.ValidateStruct(payload); details != nil {
		return util.NewValidationError("invalid sector payload", details)
	}

	sector, err := h.sectors.Update(c.Context(), c.Params("id"), service.SectorInput{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSectorResponse(sector))
}

// Delete removes a sector. Refused while members or families still point at
// it.
func (h *SectorsHandler) Delete(c *fiber.Ctx) error {
	if err := h.sectors.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
