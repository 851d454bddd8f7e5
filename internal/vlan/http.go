package vlan

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"vlanman/internal/api"
	"vlanman/internal/device"
	"vlanman/internal/middleware"
	"vlanman/internal/models"

	"github.com/gorilla/mux"
)

// Authenticator resolves a request to the acting user. Implemented by
// the users package.
type Authenticator interface {
	Authenticate(r *http.Request) (*models.User, error)
}

type HTTP struct {
	svc  *Service
	auth Authenticator
}

func NewHTTP(svc *Service, auth Authenticator) *HTTP {
	return &HTTP{svc: svc, auth: auth}
}

func (h *HTTP) RegisterRoutes(r *mux.Router) {
	apiV1 := r.PathPrefix("/api/v1").Subrouter()

	apiV1.HandleFunc("/vlans", h.list).Methods(http.MethodGet)
	apiV1.HandleFunc("/vlans", h.create).Methods(http.MethodPost)
	apiV1.HandleFunc("/vlans/user/{uuid}", h.listByUser).Methods(http.MethodGet)
	apiV1.HandleFunc("/vlans/{uuid}", h.get).Methods(http.MethodGet)
	apiV1.HandleFunc("/vlans/{uuid}", h.update).Methods(http.MethodPut, http.MethodPatch)
	apiV1.HandleFunc("/vlans/{uuid}", h.delete).Methods(http.MethodDelete)
	apiV1.HandleFunc("/vlans/{uuid}/verify", h.verify).Methods(http.MethodGet)
}

func (h *HTTP) actor(r *http.Request) (Actor, bool) {
	u, err := h.auth.Authenticate(r)
	if err != nil {
		return Actor{}, false
	}
	return Actor{UserUUID: u.UUID, IP: middleware.ClientIP(r)}, true
}

func (h *HTTP) list(w http.ResponseWriter, _ *http.Request) {
	vs, err := h.svc.ListAll()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to get VLANs", err.Error())
		return
	}
	api.OK(w, http.StatusOK, vlansOut(vs), "")
}

func (h *HTTP) listByUser(w http.ResponseWriter, r *http.Request) {
	vs, err := h.svc.ListByUser(mux.Vars(r)["uuid"])
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to get VLANs", err.Error())
		return
	}
	api.OK(w, http.StatusOK, vlansOut(vs), "")
}

func (h *HTTP) get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Read(mux.Vars(r)["uuid"])
	if err != nil {
		failFor(w, err)
		return
	}
	api.OK(w, http.StatusOK, vlanOut(v), "")
}

func (h *HTTP) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "not authenticated", "")
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	v, err := h.svc.Create(r.Context(), req, actor)
	if err != nil {
		failFor(w, err)
		return
	}
	api.OK(w, http.StatusCreated, vlanOut(v), "VLAN created successfully")
}

func (h *HTTP) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "not authenticated", "")
		return
	}
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	v, err := h.svc.Update(r.Context(), mux.Vars(r)["uuid"], req, actor)
	if err != nil {
		failFor(w, err)
		return
	}
	api.OK(w, http.StatusOK, vlanOut(v), "VLAN updated successfully")
}

func (h *HTTP) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "not authenticated", "")
		return
	}
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["uuid"], actor); err != nil {
		failFor(w, err)
		return
	}
	api.OK(w, http.StatusOK, nil, "VLAN deleted successfully")
}

// verify asks the device whether the VLAN from the stored record really
// exists there. Diagnostic only.
func (h *HTTP) verify(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Read(mux.Vars(r)["uuid"])
	if err != nil {
		failFor(w, err)
		return
	}
	present, raw, err := h.svc.VerifyOnDevice(r.Context(), v.VlanID)
	if err != nil {
		failFor(w, err)
		return
	}
	api.OK(w, http.StatusOK, map[string]any{
		"vlan_id":    v.VlanID,
		"on_device":  present,
		"raw_output": raw,
	}, "")
}

// failFor maps the error taxonomy to status codes: 400 validation,
// 403 forbidden, 404 missing, 409 conflict, 503 device unreachable,
// 500 everything else.
func failFor(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	var connErr *device.ConnectError
	var opErr *DeviceOpError
	switch {
	case errors.As(err, &vErr):
		api.Fail(w, http.StatusBadRequest, "invalid input", vErr.Error())
	case errors.Is(err, ErrForbidden):
		api.Fail(w, http.StatusForbidden, "permission denied", err.Error())
	case errors.Is(err, ErrNotFound):
		api.Fail(w, http.StatusNotFound, "VLAN not found", "")
	case errors.Is(err, ErrConflict):
		api.Fail(w, http.StatusConflict, "VLAN already exists", err.Error())
	case errors.As(err, &connErr):
		api.Fail(w, http.StatusServiceUnavailable, "device connection failed", connErr.Error())
	case errors.As(err, &opErr):
		api.Fail(w, http.StatusInternalServerError, "device operation failed", opErr.Error())
	default:
		api.Fail(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

func vlansOut(vs []models.VlanConfig) []map[string]any {
	out := make([]map[string]any, 0, len(vs))
	for i := range vs {
		out = append(out, vlanOut(&vs[i]))
	}
	return out
}

func vlanOut(v *models.VlanConfig) map[string]any {
	out := map[string]any{
		"id":            v.UUID,
		"vlan_id":       v.VlanID,
		"vlan_name":     v.Name,
		"description":   v.Description,
		"user_id":       v.UserUUID,
		"subnet_mask":   v.SubnetMask,
		"max_hosts":     v.MaxHosts,
		"host_count":    v.HostCount,
		"status":        v.Status,
		"auto_delete":   v.AutoDelete,
		"device_synced": v.DeviceSynced,
		"created_at":    v.CreatedAt.Format(time.RFC3339),
		"updated_at":    v.UpdatedAt.Format(time.RFC3339),
	}
	if v.ExpiresAt != nil {
		out["expires_at"] = v.ExpiresAt.Format(time.RFC3339)
	}
	if v.SyncTimestamp != nil {
		out["sync_timestamp"] = v.SyncTimestamp.Format(time.RFC3339)
	}
	return out
}
