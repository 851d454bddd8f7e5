package device

import (
	"net/http"

	"vlanman/internal/api"
	"vlanman/internal/logs"

	"github.com/gorilla/mux"
)

type HTTP struct{ mgr *Manager }

func NewHTTP(m *Manager) *HTTP { return &HTTP{mgr: m} }

func (h *HTTP) RegisterRoutes(r *mux.Router) {
	dev := r.PathPrefix("/api/v1/device").Subrouter()
	dev.HandleFunc("/status", h.status).Methods(http.MethodGet)
	dev.HandleFunc("/vlans", h.deviceVlans).Methods(http.MethodGet)
}

// status reports reachability. Always 200: "unreachable" is a valid
// answer, not an API failure.
func (h *HTTP) status(w http.ResponseWriter, r *http.Request) {
	conn, err := h.mgr.Connect(r.Context())
	if err != nil {
		api.OK(w, http.StatusOK, map[string]any{
			"connected": false,
			"host":      h.mgr.Host(),
			"platform":  h.mgr.Platform(),
			"message":   err.Error(),
		}, "")
		return
	}
	defer conn.Close()

	version, err := conn.RunShowCommand("show version")
	if err != nil {
		logs.Logger.Warnf("show version: %v", err)
	}
	api.OK(w, http.StatusOK, map[string]any{
		"connected": true,
		"host":      h.mgr.Host(),
		"platform":  h.mgr.Platform(),
		"version":   version,
	}, "")
}

// deviceVlans lists VLANs as the switch reports them (diagnostic; the
// stored records are the normal read path).
func (h *HTTP) deviceVlans(w http.ResponseWriter, r *http.Request) {
	conn, err := h.mgr.Connect(r.Context())
	if err != nil {
		api.Fail(w, http.StatusServiceUnavailable, "device connection failed", err.Error())
		return
	}
	defer conn.Close()

	out, err := conn.RunShowCommand("show vlan brief")
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to retrieve VLANs", err.Error())
		return
	}
	api.OK(w, http.StatusOK, map[string]any{"device_vlans": ParseVlanBrief(out)}, "")
}
