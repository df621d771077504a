package handler

import (
	"net/http"
	"strconv"

	"storygame/internal/app/service"
	"storygame/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	progressService *service.ProgressService
}

func NewUserHandler(ps *service.ProgressService) *UserHandler {
	return &UserHandler{progressService: ps}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{userID}/progress", h.getProgress) // GET /users/7/progress
}

func (h *UserHandler) getProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	result, err := h.progressService.GetUserProgress(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}
