package vlan

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vlanman/internal/device"
	"vlanman/internal/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct{ user *models.User }

func (s *stubAuth) Authenticate(*http.Request) (*models.User, error) {
	if s.user == nil {
		return nil, errors.New("not authenticated")
	}
	return s.user, nil
}

func newTestRouter(t *testing.T, dial *fakeDialer, auth *stubAuth) *mux.Router {
	t.Helper()
	svc, _ := newTestService(t, dial)
	r := mux.NewRouter()
	NewHTTP(svc, auth).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r *mux.Router, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestCreateRequiresAuth(t *testing.T) {
	r := newTestRouter(t, &fakeDialer{conn: &fakeConn{}}, &stubAuth{})
	w, env := do(t, r, http.MethodPost, "/api/v1/vlans", `{"vlan_id":100,"vlan_name":"lab"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, env["success"])
	assert.NotEmpty(t, env["timestamp"])
}

func TestCreateEnvelope(t *testing.T) {
	auth := &stubAuth{user: &models.User{UUID: "u1", Name: "Alice"}}
	r := newTestRouter(t, &fakeDialer{conn: &fakeConn{}}, auth)

	w, env := do(t, r, http.MethodPost, "/api/v1/vlans",
		`{"vlan_id":100,"vlan_name":"lab","subnet_mask":"255.255.255.0"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, env["success"])

	data := env["data"].(map[string]any)
	assert.EqualValues(t, 100, data["vlan_id"])
	assert.Equal(t, "lab", data["vlan_name"])
	assert.Equal(t, "active", data["status"])
	assert.Equal(t, true, data["device_synced"])

	// duplicate id conflicts
	w, env = do(t, r, http.MethodPost, "/api/v1/vlans", `{"vlan_id":100,"vlan_name":"again"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, env["success"])
}

func TestStatusCodeMapping(t *testing.T) {
	auth := &stubAuth{user: &models.User{UUID: "u1"}}

	t.Run("validation 400", func(t *testing.T) {
		r := newTestRouter(t, &fakeDialer{conn: &fakeConn{}}, auth)
		w, _ := do(t, r, http.MethodPost, "/api/v1/vlans", `{"vlan_id":1,"vlan_name":"default"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing 404", func(t *testing.T) {
		r := newTestRouter(t, &fakeDialer{conn: &fakeConn{}}, auth)
		w, _ := do(t, r, http.MethodGet, "/api/v1/vlans/no-such-uuid", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("device unavailable 503", func(t *testing.T) {
		dial := &fakeDialer{connectErr: &device.ConnectError{Host: "sw1", Err: device.ErrConnectTimeout}}
		r := newTestRouter(t, dial, auth)
		w, _ := do(t, r, http.MethodPost, "/api/v1/vlans", `{"vlan_id":100,"vlan_name":"lab"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("device op failure 500", func(t *testing.T) {
		dial := &fakeDialer{conn: &fakeConn{configErr: errors.New("boom")}}
		r := newTestRouter(t, dial, auth)
		w, _ := do(t, r, http.MethodPost, "/api/v1/vlans", `{"vlan_id":100,"vlan_name":"lab"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
