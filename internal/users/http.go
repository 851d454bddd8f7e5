package users

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"vlanman/internal/api"
	"vlanman/internal/logs"
	"vlanman/internal/middleware"
	"vlanman/internal/models"

	"github.com/gorilla/mux"
)

// ActivityWriter is what this package needs from the activity log.
type ActivityWriter interface {
	Record(userUUID, vlanUUID, action, details, status, ip string)
}

type HTTP struct {
	repo       *Repo
	rec        ActivityWriter
	sessionTTL time.Duration
}

func NewHTTP(repo *Repo, rec ActivityWriter, sessionTTL time.Duration) *HTTP {
	return &HTTP{repo: repo, rec: rec, sessionTTL: sessionTTL}
}

func (h *HTTP) RegisterRoutes(r *mux.Router) {
	apiV1 := r.PathPrefix("/api/v1").Subrouter()

	apiV1.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	apiV1.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost)

	apiV1.HandleFunc("/users", h.listUsers).Methods(http.MethodGet)
	apiV1.HandleFunc("/users/me", h.me).Methods(http.MethodGet)
	apiV1.HandleFunc("/users/{uuid}", h.getUser).Methods(http.MethodGet)
}

// Authenticate resolves the request's bearer token to a user. Other
// handler packages call this to guard mutating endpoints.
func (h *HTTP) Authenticate(r *http.Request) (*models.User, error) {
	return h.repo.UserByToken(bearerToken(r))
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func (h *HTTP) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name  string `json:"name"`
		NIM   string `json:"nim"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil ||
		in.Name == "" || in.NIM == "" || in.Email == "" {
		api.Fail(w, http.StatusBadRequest, "missing required fields", "need {name, nim, email}")
		return
	}

	u, created, err := h.repo.FindOrCreate(in.Name, in.NIM, in.Email)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login failed", err.Error())
		return
	}
	if created {
		logs.Logger.Infof("new user registered: %s (%s)", u.Name, u.NIM)
	}

	ip := middleware.ClientIP(r)
	sess, err := h.repo.CreateSession(u.UUID, ip, r.Header.Get("User-Agent"), h.sessionTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login failed", err.Error())
		return
	}

	h.rec.Record(u.UUID, "", models.ActionLogin, "User logged in", models.OutcomeSuccess, ip)
	total, _ := h.repo.CountVlans(u.UUID)
	api.OK(w, http.StatusOK, map[string]any{
		"user":       userOut(u, total),
		"token":      sess.Token,
		"expires_at": sess.ExpiresAt.Format(time.RFC3339),
	}, "Login successful")
}

func (h *HTTP) logout(w http.ResponseWriter, r *http.Request) {
	u, err := h.Authenticate(r)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "not authenticated", "")
		return
	}
	if err := h.repo.RevokeToken(bearerToken(r)); err != nil {
		api.Fail(w, http.StatusInternalServerError, "logout failed", err.Error())
		return
	}
	h.rec.Record(u.UUID, "", models.ActionLogout, "User logged out",
		models.OutcomeSuccess, middleware.ClientIP(r))
	api.OK(w, http.StatusOK, nil, "Logged out")
}

func (h *HTTP) listUsers(w http.ResponseWriter, _ *http.Request) {
	us, err := h.repo.ListAll()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to get users", err.Error())
		return
	}
	out := make([]map[string]any, 0, len(us))
	for i := range us {
		n, _ := h.repo.CountVlans(us[i].UUID)
		out = append(out, userOut(&us[i], n))
	}
	api.OK(w, http.StatusOK, out, "")
}

func (h *HTTP) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.repo.GetByUUID(mux.Vars(r)["uuid"])
	if err != nil {
		if err == ErrNotFound {
			api.Fail(w, http.StatusNotFound, "user not found", "")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "failed to get user", err.Error())
		return
	}
	n, _ := h.repo.CountVlans(u.UUID)
	api.OK(w, http.StatusOK, userOut(u, n), "")
}

func (h *HTTP) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Authenticate(r)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "not authenticated", "")
		return
	}
	n, _ := h.repo.CountVlans(u.UUID)
	api.OK(w, http.StatusOK, userOut(u, n), "")
}

func userOut(u *models.User, totalVlans int64) map[string]any {
	return map[string]any{
		"id":          u.UUID,
		"name":        u.Name,
		"nim":         u.NIM,
		"email":       u.Email,
		"created_at":  u.CreatedAt.Format(time.RFC3339),
		"total_vlans": totalVlans,
	}
}
