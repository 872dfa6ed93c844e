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
	"github.com/univlive/univlive/internal/enrollment"
	"github.com/univlive/univlive/internal/observability/logger"
	"github.com/univlive/univlive/internal/registry"
)

// ChangeSlugRequest represents a slug reassignment request
type ChangeSlugRequest struct {
	NewSlug string `json:"newSlug" binding:"required" example:"acme-academy"`
}

// ChangeSlug moves the caller's public URL to a new slug
// @Summary Change tenant slug
// @Description Reassign the educator's public slug, keeping the old one as an alias
// @Tags Tenant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangeSlugRequest true "New slug"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tenant/change-slug [post]
func (h *Handler) ChangeSlug(w http.ResponseWriter, r *http.Request) {
	var req ChangeSlugRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	educatorID := GetUserID(r.Context())
	result, err := h.registryService.ReassignSlug(r.Context(), educatorID, req.NewSlug)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to reassign slug",
			logger.Error(err),
			logger.EducatorID(educatorID),
			logger.Slug(req.NewSlug),
		)

		switch {
		case errors.Is(err, registry.ErrInvalidSlug),
			errors.Is(err, registry.ErrSlugReserved),
			errors.Is(err, registry.ErrNoCurrentSlug):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, registry.ErrSlugTaken):
			respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, account.ErrAccountNotFound):
			// A caller without an account has no current slug to move.
			respondError(w, http.StatusBadRequest, "account missing current slug")
		default:
			respondError(w, http.StatusInternalServerError, "failed to change slug")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"ok":              true,
		"oldSlug":         result.OldSlug,
		"newSlug":         result.NewSlug,
		"studentsUpdated": result.StudentsUpdated,
	})
}

// RegisterStudentRequest represents an enrollment request
type RegisterStudentRequest struct {
	TenantSlug  string `json:"tenantSlug" binding:"required" example:"acme-academy"`
	DisplayName string `json:"displayName" example:"Jane Doe"`
	Email       string `json:"email" example:"jane@example.com"`
}

// RegisterStudent enrolls the caller under the educator owning slug
// @Summary Register a student
// @Description Attach the authenticated learner to the coaching identified by slug
// @Tags Tenant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RegisterStudentRequest true "Enrollment data"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tenant/register-student [post]
func (h *Handler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req RegisterStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TenantSlug == "" {
		respondError(w, http.StatusBadRequest, "tenantSlug is required")
		return
	}

	uid := GetUserID(r.Context())
	result, err := h.enrollmentService.Enroll(r.Context(), uid, req.TenantSlug, req.DisplayName, req.Email)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to enroll student",
			logger.Error(err),
			logger.StudentID(uid),
			logger.Slug(req.TenantSlug),
		)

		switch {
		case errors.Is(err, enrollment.ErrCoachingNotFound):
			respondError(w, http.StatusNotFound, enrollment.ErrCoachingNotFound.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to register student")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"educatorId": result.EducatorID,
		"tenantSlug": result.Slug,
	})
}
