package activity

import (
	"net/http"
	"strconv"
	"time"

	"vlanman/internal/api"
	"vlanman/internal/models"

	"github.com/gorilla/mux"
)

const defaultLimit = 50

type HTTP struct{ rec *Recorder }

func NewHTTP(rec *Recorder) *HTTP { return &HTTP{rec: rec} }

func (h *HTTP) RegisterRoutes(r *mux.Router) {
	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/activities", h.list).Methods(http.MethodGet)
	apiV1.HandleFunc("/activities/user/{uuid}", h.listByUser).Methods(http.MethodGet)
}

func (h *HTTP) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.rec.List(limitParam(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to get activities", err.Error())
		return
	}
	api.OK(w, http.StatusOK, entriesOut(entries), "")
}

func (h *HTTP) listByUser(w http.ResponseWriter, r *http.Request) {
	entries, err := h.rec.ListByUser(mux.Vars(r)["uuid"], limitParam(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to get activities", err.Error())
		return
	}
	api.OK(w, http.StatusOK, entriesOut(entries), "")
}

func limitParam(r *http.Request) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return defaultLimit
}

func entriesOut(entries []models.ActivityLog) []map[string]any {
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]any{
			"id":         e.ID,
			"user_id":    e.UserUUID,
			"vlan_id":    e.VlanUUID,
			"action":     e.Action,
			"details":    e.Details,
			"status":     e.Status,
			"ip_address": e.IPAddress,
			"created_at": e.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}
