package escrows

import (
	"context"
	"net/http"

	"github.com/chris/property-settlement/pkg/api"
	"github.com/chris/property-settlement/pkg/escrow"
	"github.com/chris/property-settlement/pkg/handlers/respond"
	"github.com/chris/property-settlement/pkg/mapping"
	"github.com/chris/property-settlement/pkg/models"
)

//go:generate mockery --name Service --output ./mocks --outpkg mocks

// Service is the escrow controller as seen by the HTTP layer.
type Service interface {
	Get(ctx context.Context, escrowID string) (*models.Escrow, error)
	Dispute(ctx context.Context, escrowID, actor, reason, description string) (*models.Escrow, error)
	Release(ctx context.Context, escrowID, actor, proof string) (*models.Escrow, error)
	Resolve(ctx context.Context, escrowID string, outcome escrow.Outcome) (*models.Escrow, error)
}

// EscrowsHandler holds the dependencies for escrow-related handlers.
type EscrowsHandler struct {
	Service Service
}

// NewEscrowsHandler creates a new EscrowsHandler.
func NewEscrowsHandler(service Service) *EscrowsHandler {
	return &EscrowsHandler{Service: service}
}

// GetEscrow returns an escrow to one of its parties.
func (h *EscrowsHandler) GetEscrow(w http.ResponseWriter, r *http.Request, escrowId api.EscrowId) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	e, err := h.Service.Get(r.Context(), escrowId.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if !e.IsParty(actor) {
		respond.Error(w, r, models.AuthorizationError("escrow", e.ID, actor))
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiEscrow(e))
}

// DisputeEscrow raises a dispute on behalf of the buyer or the seller.
func (h *EscrowsHandler) DisputeEscrow(w http.ResponseWriter, r *http.Request, escrowId api.EscrowId) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	var req api.DisputeRequest
	if !respond.Decode(w, r, &req, false) {
		return
	}
	var description string
	if req.Description != nil {
		description = *req.Description
	}

	e, err := h.Service.Dispute(r.Context(), escrowId.String(), actor, req.Reason, description)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiEscrow(e))
}

// ReleaseEscrow confirms the transfer on behalf of the buyer.
func (h *EscrowsHandler) ReleaseEscrow(w http.ResponseWriter, r *http.Request, escrowId api.EscrowId) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}
	var req api.ReleaseRequest
	if !respond.Decode(w, r, &req, true) {
		return
	}
	var proof string
	if req.Proof != nil {
		proof = *req.Proof
	}

	e, err := h.Service.Release(r.Context(), escrowId.String(), actor, proof)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiEscrow(e))
}

// ResolveEscrow applies an arbitration outcome. The route is internal and expected
// to be restricted at the gateway.
func (h *EscrowsHandler) ResolveEscrow(w http.ResponseWriter, r *http.Request, escrowId api.EscrowId) {
	var req api.ResolveRequest
	if !respond.Decode(w, r, &req, false) {
		return
	}

	e, err := h.Service.Resolve(r.Context(), escrowId.String(), escrow.Outcome(req.Outcome))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiEscrow(e))
}
