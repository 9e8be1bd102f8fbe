package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Juliussaint/gmianugerah/internal/api/dto"
	"github.com/Juliussaint/gmianugerah/internal/domain"
	"github.com/Juliussaint/gmianugerah/internal/repository"
	"github.com/Juliussaint/gmianugerah/internal/service"
	util "github.com/Juliussaint/gmianugerah/pkg/util"
)

// FamiliesHandler exposes household management over HTTP.
type FamiliesHandler struct {
	families *service.FamilyService
}

// NewFamiliesHandler constructs the handler.
func NewFamiliesHandler(families *service.FamilyService) *FamiliesHandler {
	return &FamiliesHandler{families: families}
}

// Create registers a household.
func (h *FamiliesHandler) Create(c *fiber.Ctx) error {
	input, err := familyInputFromBody(c)
	if err != nil {
		return err
	}
	family, err := h.families.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewFamilyResponse(family))
}

// List returns families matching the query filters.
func (h *FamiliesHandler) List(c *fiber.Ctx) error {
	filter := repository.FamilyFilter{Limit: c.QueryInt("limit", 0)}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if sectorID := c.Query("sector_id"); sectorID != "" {
		filter.SectorID = &sectorID
	}
	if status := c.Query("status"); status != "" {
		fs := domain.FamilyStatus(status)
		filter.Status = &fs
	}

	families, err := h.families.List(c.Context(), filter)
	if err != nil {
		return err
	}
	responses := make([]dto.FamilyResponse, 0, len(families))
	for i := range families {
		responses = append(responses, dto.NewFamilyResponse(&families[i]))
	}
	return c.JSON(fiber.Map{"data": responses, "count": len(responses)})
}

// Get fetches a household.
func (h *FamiliesHandler) Get(c *fiber.Ctx) error {
	family, err := h.families.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFamilyResponse(family))
}

// Update edits a household.
func (h *FamiliesHandler) Update(c *fiber.Ctx) error {
	input, err := familyInputFromBody(c)
	if err != nil {
		return err
	}
	family, err := h.families.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFamilyResponse(family))
}

// Dissolve transitions a family to DISSOLVED with a mandatory reason and
// date. Families are never deleted.
func (h *FamiliesHandler) Dissolve(c *fiber.Ctx) error {
	var payload dto.DissolveFamilyRequest
	if err := c.BodyParser(&payload); err != nil {
		return util.NewValidationError("invalid request body", map[string]any{"body": err.Error()})
	}
	if details := dto.ValidateStruct(payload); details != nil {
		return util.NewValidationError("invalid dissolution payload", details)
	}
	date, err := dto.ParseDate(payload.Date)
	if err != nil {
		return util.NewValidationError("invalid dissolution payload", map[string]any{"date": "must be a date formatted 2006-01-02"})
	}

	family, err := h.families.Dissolve(c.Context(), c.Params("id"), payload.Reason, date, operatorID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFamilyResponse(family))
}

func familyInputFromBody(c *fiber.Ctx) (service.FamilyInput, error) {
	var payload dto.FamilyPayload
	if err := c.BodyParser(&payload); err != nil {
		return service.FamilyInput{}, util.NewValidationError("invalid request body", map[string]any{"body": err.Error()})
	}
	if details := dto.ValidateStruct(payload); details != nil {
		return service.FamilyInput{}, util.NewValidationError("invalid family payload", details)
	}
	dissolutionDate, err := dto.ParseOptionalDate(payload.DissolutionDate)
	if err != nil {
		return service.FamilyInput{}, util.NewValidationError("invalid family payload", map[string]any{"dissolution_date": "must be a date formatted 2006-01-02"})
	}

	return service.FamilyInput{
		SectorID:          payload.SectorID,
		FamilyName:        payload.FamilyName,
		HeadOfFamilyID:    payload.HeadOfFamilyID,
		Status:            domain.FamilyStatus(payload.Status),
		DissolutionReason: payload.DissolutionReason,
		DissolutionDate:   dissolutionDate,
		AddressStreet:     payload.AddressStreet,
		AddressCity:       payload.AddressCity,
		AddressProvince:   payload.AddressProvince,
		AddressPostalCode: payload.AddressPostalCode,
		PhoneNumber:       payload.PhoneNumber,
	}, nil
}
