// Copyright 2026 The UNIV.LIVE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/univlive/univlive/internal/account"
	"github.com/univlive/univlive/internal/billing"
	"github.com/univlive/univlive/internal/enrollment"
	"github.com/univlive/univlive/internal/observability/logger"
)

// UpdateQuantityRequest represents a seat quantity change
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required" example:"5"`
}

// UpdateQuantity changes the subscription seat quantity
// @Summary Update seat quantity
// @Description Change the billed seat count; rejected when below currently active seats
// @Tags Billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateQuantityRequest true "Requested quantity"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /billing/update-quantity [post]
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	educatorID := GetUserID(r.Context())
	quantity, err := h.billingService.UpdateSeatQuantity(r.Context(), educatorID, req.Quantity)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to update seat quantity",
			logger.Error(err),
			logger.EducatorID(educatorID),
			logger.Quantity(req.Quantity),
		)

		switch {
		case errors.Is(err, billing.ErrSeatLimit),
			errors.Is(err, billing.ErrNoSubscription):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, account.ErrAccountNotFound):
			// No account means no subscription to resize.
			respondError(w, http.StatusBadRequest, billing.ErrNoSubscription.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to update quantity")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"quantity": quantity,
	})
}

// RevokeSeatRequest represents a seat revocation
type RevokeSeatRequest struct {
	StudentID string `json:"studentId" binding:"required" example:"uid-123"`
}

// RevokeSeat deactivates a student's seat
// @Summary Revoke a seat
// @Description Flip the student's seat to inactive; the roster row is kept
// @Tags Billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RevokeSeatRequest true "Seat to revoke"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /billing/revoke-seat [post]
func (h *Handler) RevokeSeat(w http.ResponseWriter, r *http.Request) {
	var req RevokeSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	educatorID := GetUserID(r.Context())
	if err := h.billingService.RevokeSeat(r.Context(), educatorID, req.StudentID); err != nil {
		slog.ErrorContext(r.Context(), "failed to revoke seat",
			logger.Error(err),
			logger.EducatorID(educatorID),
			logger.StudentID(req.StudentID),
		)

		switch {
		case errors.Is(err, billing.ErrMissingStudent):
			respondError(w, http.StatusBadRequest, billing.ErrMissingStudent.Error())
		case errors.Is(err, enrollment.ErrSeatNotFound):
			respondError(w, http.StatusNotFound, "seat not found")
		default:
			respondError(w, http.StatusInternalServerError, "failed to revoke seat")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"ok": true,
	})
}
