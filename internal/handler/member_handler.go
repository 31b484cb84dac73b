package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kioskpos/internal/service"
	"kioskpos/pkg/logger"
)

type MemberHandler struct {
	members service.MemberServiceInterface
	logger  *logger.Logger
}

func NewMemberHandler(members service.MemberServiceInterface, logger *logger.Logger) *MemberHandler {
	return &MemberHandler{
		members: members,
		logger:  logger.WithComponent("member_handler"),
	}
}

// CreateMember handles POST /api/v1/members
func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req service.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	memberID, err := h.members.CreateMember(r.Context(), req)
	if err != nil {
		writeError(w, statusForError(err, http.StatusBadRequest), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]uuid.UUID{"member_id": memberID})
}

type addBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// AddBalance handles POST /api/v1/members/{id}/balance
func (h *MemberHandler) AddBalance(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	var req addBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	balance, err := h.members.AddBalance(r.Context(), memberID, req.Amount)
	if err != nil {
		writeError(w, statusForError(err, http.StatusInternalServerError), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toBalanceResponse(balance))
}

// GetMemberByCardNumber handles GET /api/v1/members/by-card/{card}
func (h *MemberHandler) GetMemberByCardNumber(w http.ResponseWriter, r *http.Request) {
	card := r.PathValue("card")

	member, err := h.members.GetMemberByCardNumber(r.Context(), card)
	if err != nil {
		writeError(w, statusForError(err, http.StatusInternalServerError), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(member))
}

// GetBalance handles GET /api/v1/members/{id}/balance
func (h *MemberHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	balance, err := h.members.GetBalance(r.Context(), memberID)
	if err != nil {
		writeError(w, statusForError(err, http.StatusInternalServerError), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toBalanceResponse(balance))
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// SetMemberActive handles PATCH /api/v1/members/{id}/active
func (h *MemberHandler) SetMemberActive(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.members.SetMemberActive(r.Context(), memberID, req.Active); err != nil {
		writeError(w, statusForError(err, http.StatusInternalServerError), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
}
