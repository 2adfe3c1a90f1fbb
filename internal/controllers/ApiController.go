package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"treats/internal/providers"
	"treats/internal/services"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const (
	maxRequestBodySize = 1 << 20 // 1 MB
	tokenHeader        = "token"
)

var errBadRequest = errors.New("bad request")

type ApiController struct {
	logger    providers.Logger
	cache     providers.CacheProviderInterface
	workspace services.WorkspaceInterface
	auth      services.AuthServiceInterface
	channels  services.ChannelServiceInterface
	dms       services.DmServiceInterface
	messages  services.MessageServiceInterface
	standups  services.StandupServiceInterface
	users     services.UserServiceInterface
	admin     services.AdminServiceInterface
}

func NewApiController(
	logger providers.Logger,
	cache providers.CacheProviderInterface,
	workspace services.WorkspaceInterface,
	auth services.AuthServiceInterface,
	channels services.ChannelServiceInterface,
	dms services.DmServiceInterface,
	messages services.MessageServiceInterface,
	standups services.StandupServiceInterface,
	users services.UserServiceInterface,
	admin services.AdminServiceInterface,
) *ApiController {
	return &ApiController{
		logger:    logger,
		cache:     cache,
		workspace: workspace,
		auth:      auth,
		channels:  channels,
		dms:       dms,
		messages:  messages,
		standups:  standups,
		users:     users,
		admin:     admin,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type empty struct{}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, gson)
}

func writeRaw(w http.ResponseWriter, status int, gson []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// statusOf maps authorization failures to 403, every other rejected
// precondition to 400 and anything else to 500.
func statusOf(err error) int {
	if errors.Is(err, errBadRequest) {
		return http.StatusBadRequest
	}
	kind, ok := services.KindOf(err)
	switch {
	case !ok:
		return http.StatusInternalServerError
	case kind == services.KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func (ac *ApiController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	resp := errorResponse{Code: "internal", Error: http.StatusText(status), Message: "Internal Server Error"}

	var se *services.Error
	switch {
	case errors.As(err, &se):
		resp.Code = se.Code
		resp.Message = se.Message
		ac.logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "%s %s rejected (%s): %s", r.Method, r.URL.Path, se.Kind, se.Code)
	case status == http.StatusBadRequest:
		resp.Code = "bad_request"
		resp.Message = err.Error()
		ac.logger.Debugf(providers.GetLogTypeByRequestType(r.Method), "%s %s bad request: %s", r.Method, r.URL.Path, err)
	default:
		ac.logger.Errorf(providers.TypeApp, "%s %s failed: %s", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, resp)
}

func (ac *ApiController) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		ac.writeError(w, r, fmt.Errorf("%w: invalid JSON body", errBadRequest))
		return false
	}
	return true
}

// authenticate resolves the token header to a user id and writes the error
// response when it cannot.
func (ac *ApiController) authenticate(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, err := ac.auth.Resolve(r.Header.Get(tokenHeader))
	if err != nil {
		ac.writeError(w, r, err)
		return 0, false
	}
	return userID, true
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, fmt.Errorf("%w: missing %s", errBadRequest, name)
	}
	v, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, name)
	}
	return v, nil
}

// serveFromCacheOrCompute caches read responses per user under the current
// workspace revision, so any mutation makes older entries unreachable.
func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, userID int, compute func() (any, error)) {
	cacheKey := fmt.Sprintf("%d|%d|%s", ac.workspace.Revision(), userID, r.URL.RequestURI())
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeRaw(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeRaw(w, http.StatusOK, gson)
}

// respond writes result as 200 or the error response.
func (ac *ApiController) respond(w http.ResponseWriter, r *http.Request, result any, err error) {
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
