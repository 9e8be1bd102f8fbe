package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Juliussaint/gmianugerah/internal/api/dto"
	"github.com/Juliussaint/gmianugerah/internal/auth"
	"github.com/Juliussaint/gmianugerah/internal/domain"
	"github.com/Juliussaint/gmianugerah/internal/repository"
	"github.com/Juliussaint/gmianugerah/internal/service"
	util "github.com/Juliussaint/gmianugerah/pkg/util"
)

// MembersHandler exposes the member registry over HTTP.
type MembersHandler struct {
	members *service.MemberService
}

// NewMembersHandler constructs the handler.
func NewMembersHandler(members *service.MemberService) *MembersHandler {
	return &MembersHandler{members: members}
}

// Create registers a new member. The response carries the allocated NIJ.
func (h *MembersHandler) Create(c *fiber.Ctx) error {
	var payload dto.MemberPayload
	if err := c.BodyParser(&payload); err != nil {
		return util.NewValidationError("invalid request body", map[string]any{"body": err.Error()})
	}
	if details := dto.ValidateStruct(payload); details != nil {
		return util.NewValidationError("invalid member payload", details)
	}
	input, err := memberInputFromPayload(payload)
	if err != nil {
		return err
	}

	member, err := h.members.Register(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMemberResponse(member))
}

// List returns members matching the query filters.
func (h *MembersHandler) List(c *fiber.Ctx) error {
	filter := repository.MemberFilter{Limit: c.QueryInt("limit", 0)}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if sectorID := c.Query("sector_id"); sectorID != "" {
		filter.SectorID = &sectorID
	}
	if familyID := c.Query("family_id"); familyID != "" {
		filter.FamilyID = &familyID
	}
	if status := c.Query("membership_status"); status != "" {
		ms := domain.MembershipStatus(status)
		filter.MembershipStatus = &ms
	}
	if active := c.Query("is_active"); active != "" {
		isActive := active == "true"
		filter.IsActive = &isActive
	}
	if deceased := c.Query("is_deceased"); deceased != "" {
		isDeceased := deceased == "true"
		filter.IsDeceased = &isDeceased
	}

	members, err := h.members.List(c.Context(), filter)
	if err != nil {
		return err
	}
	responses := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		responses = append(responses, dto.NewMemberResponse(&members[i]))
	}
	return c.JSON(fiber.Map{"data": responses, "count": len(responses)})
}

// Get fetches a member by id.
func (h *MembersHandler) Get(c *fiber.Ctx) error {
	member, err := h.members.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMemberResponse(member))
}

// GetByMemberNo fetches a member by the NIJ identifier.
func (h *MembersHandler) GetByMemberNo(c *fiber.Ctx) error {
	member, err := h.members.GetByMemberNo(c.Context(), c.Params("memberNo"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMemberResponse(member))
}

// Update applies a generic edit. A sector change through this path still
// lands in the history ledger.
func (h *MembersHandler) Update(c *fiber.Ctx) error {
	var payload dto.MemberPayload
	if err := c.BodyParser(&payload); err != nil {
		return util.NewValidationError("invalid request body", map[string]any{"body": err.Error()})
	}
	if details := dto.ValidateStruct(payload); details != nil {
		return util.NewValidationError("invalid member payload", details)
	}
	input, err := memberInputFromPayload(payload)
	if err != nil {
		return err
	}

	member, err := h.members.Update(c.Context(), c.Params("id"), service.MemberUpdateInput(input), operatorID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMemberResponse(member))
}

// Transfer moves a member to a different sector.
func (h *MembersHandler) Transfer(c *fiber.Ctx) error {
	var payload dto.TransferMemberRequest
	if err := c.BodyParser(&payload); err != nil {
		return util.NewValidationError("invalid request body", map[string]any{"body": err.Error()})
	}
	if details := dto.ValidateStruct(payload); details != nil {
		return util.NewValidationError("invalid transfer payload", details)
	}
	transferDate, err := dto.ParseDate(payload.TransferDate)
	if err != nil {
		return util.NewValidationError("invalid transfer payload", map[string]any{"transfer_date": "must be a date formatted 2006-01-02"})
	}

	member, err := h.members.Transfer(c.Context(), c.Params("id"), service.TransferInput{
		ToSectorID:   payload.ToSectorID,
		TransferDate: transferDate,
		Reason:       payload.Reason,
		Notes:        payload.Notes,
	}, operatorID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMemberResponse(member))
}

// History lists the member's sector ledger, newest first.
func (h *MembersHandler) History(c *fiber.Ctx) error {
	entries, err := h.members.History(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	responses := make([]dto.SectorHistoryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, dto.NewSectorHistoryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": responses, "count": len(responses)})
}

// Deactivate soft-ends a member's lifecycle.
func (h *MembersHandler) Deactivate(c *fiber.Ctx) error {
	var payload dto.DeactivateMemberRequest
	if err := c.BodyParser(&payload); err != nil {
		return util.NewValidationError("invalid request body", map[string]any{"body": err.Error()})
	}
	if details := dto.ValidateStruct(payload); details != nil {
		return util.NewValidationError("invalid deactivation payload", details)
	}

	member, err := h.members.Deactivate(c.Context(), c.Params("id"), payload.Reason, operatorID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMemberResponse(member))
}

// Decease records a member's death.
func (h *MembersHandler) Decease(c *fiber.Ctx) error {
	var payload dto.DeceaseMemberRequest
	if err := c.BodyParser(&payload); err != nil {
		return util.NewValidationError("invalid request body", map[string]any{"body": err.Error()})
	}
	if details := dto.ValidateStruct(payload); details != nil {
		return util.NewValidationError("invalid deceased payload", details)
	}
	deceasedDate, err := dto.ParseDate(payload.DeceasedDate)
	if err != nil {
		return util.NewValidationError("invalid deceased payload", map[string]any{"deceased_date": "must be a date formatted 2006-01-02"})
	}

	member, err := h.members.MarkDeceased(c.Context(), c.Params("id"), deceasedDate, payload.Reason, operatorID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMemberResponse(member))
}

func memberInputFromPayload(payload dto.MemberPayload) (service.MemberCreateInput, error) {
	dateOfBirth, err := dto.ParseDate(payload.DateOfBirth)
	if err != nil {
		return service.MemberCreateInput{}, util.NewValidationError("invalid member payload", map[string]any{"date_of_birth": "must be a date formatted 2006-01-02"})
	}
	baptismDate, err := dto.ParseOptionalDate(payload.BaptismDate)
	if err != nil {
		return service.MemberCreateInput{}, util.NewValidationError("invalid member payload", map[string]any{"baptism_date": "must be a date formatted 2006-01-02"})
	}
	sidiDate, err := dto.ParseOptionalDate(payload.SidiDate)
	if err != nil {
		return service.MemberCreateInput{}, util.NewValidationError("invalid member payload", map[string]any{"sidi_date": "must be a date formatted 2006-01-02"})
	}
	marriageDate, err := dto.ParseOptionalDate(payload.MarriageDate)
	if err != nil {
		return service.MemberCreateInput{}, util.NewValidationError("invalid member payload", map[string]any{"marriage_date": "must be a date formatted 2006-01-02"})
	}

	var bloodType *domain.BloodType
	if payload.BloodType != nil {
		bt := domain.BloodType(*payload.BloodType)
		bloodType = &bt
	}

	return service.MemberCreateInput{
		FamilyID:         payload.FamilyID,
		SectorID:         payload.SectorID,
		FullName:         payload.FullName,
		Gender:           domain.Gender(payload.Gender),
		FamilyRole:       domain.FamilyRole(payload.FamilyRole),
		BirthOrder:       payload.BirthOrder,
		BloodType:        bloodType,
		DateOfBirth:      dateOfBirth,
		PhoneNumber:      payload.PhoneNumber,
		Email:            payload.Email,
		BaptismDate:      baptismDate,
		SidiDate:         sidiDate,
		MarriageDate:     marriageDate,
		MembershipStatus: domain.MembershipStatus(payload.MembershipStatus),
		PhotoKey:         payload.PhotoKey,
	}, nil
}

// operatorID extracts the acting operator from the request principal. Empty
// means an unauthenticated path; the service layer decides whether that is
// acceptable for the operation.
func operatorID(c *fiber.Ctx) string {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Operator == nil {
		return ""
	}
	return principal.Operator.ID
}
