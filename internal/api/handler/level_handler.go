package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"storygame/internal/app/service"
	"storygame/internal/common"

	"github.com/go-chi/chi/v5"
)

type LevelHandler struct {
	levelService    *service.LevelService
	progressService *service.ProgressService
}

func NewLevelHandler(ls *service.LevelService, ps *service.ProgressService) *LevelHandler {
	return &LevelHandler{levelService: ls, progressService: ps}
}

func (h *LevelHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listLevels)                      // GET /levels
	r.Get("/{levelID}/dialogue", h.getDialogue)   // GET /levels/3/dialogue
	r.Post("/{levelID}/submit-key", h.submitKey)  // POST /levels/3/submit-key
	r.Post("/{levelID}/complete", h.completeLevel)
}

func (h *LevelHandler) listLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.levelService.ListLevels(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, levels)
}

func (h *LevelHandler) getDialogue(w http.ResponseWriter, r *http.Request) {
	levelID, ok := levelIDParam(w, r)
	if !ok {
		return
	}

	lines, err := h.levelService.GetDialogue(r.Context(), levelID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, lines)
}

type submitKeyRequest struct {
	UserID int64  `json:"user_id"`
	Key    string `json:"key"`
}

func (h *LevelHandler) submitKey(w http.ResponseWriter, r *http.Request) {
	levelID, ok := levelIDParam(w, r)
	if !ok {
		return
	}

	var req submitKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.progressService.SubmitKey(r.Context(), req.UserID, levelID, req.Key)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

type completeLevelRequest struct {
	UserID int64 `json:"user_id"`
}

func (h *LevelHandler) completeLevel(w http.ResponseWriter, r *http.Request) {
	levelID, ok := levelIDParam(w, r)
	if !ok {
		return
	}

	var req completeLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.progressService.CompleteLevel(r.Context(), req.UserID, levelID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func levelIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	levelID, err := strconv.ParseInt(chi.URLParam(r, "levelID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid level ID")
		return 0, false
	}
	return levelID, true
}
