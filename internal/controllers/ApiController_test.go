package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"treats/internal/auth"
	"treats/internal/providers"
	"treats/internal/scheduler"
	"treats/internal/services"
	"treats/internal/structures"
	"treats/internal/testutil"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	ac      *ApiController
	gateway *testutil.MockGateway
	cache   *testutil.MockCache
	logger  *testutil.MockLogger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conf := &structures.Config{
		Auth: structures.AuthConfig{Secret: "controller-secret", BcryptCost: bcrypt.MinCost},
	}
	env := &testEnv{
		gateway: &testutil.MockGateway{},
		cache:   testutil.NewMockCache(),
		logger:  &testutil.MockLogger{},
	}
	metrics := &testutil.MockMetrics{}
	timers := scheduler.NewTimers()
	t.Cleanup(timers.Stop)

	ws := services.NewWorkspace(env.gateway, env.logger, metrics)
	env.ac = NewApiController(
		env.logger,
		env.cache,
		ws,
		services.NewAuthService(conf, ws, auth.NewTokenIssuer(conf), env.logger),
		services.NewChannelService(conf, ws, env.logger),
		services.NewDmService(conf, ws, env.logger),
		services.NewMessageService(ws, env.logger),
		services.NewStandupService(ws, timers, env.logger, metrics),
		services.NewUserService(ws, env.logger),
		services.NewAdminService(ws, env.logger),
	)
	return env
}

func do(handler http.HandlerFunc, method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if token != "" {
		req.Header.Set(tokenHeader, token)
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

// register returns the token and user id of a new account.
func (env *testEnv) register(t *testing.T, first, last string) (string, int) {
	t.Helper()
	body := fmt.Sprintf(`{"email":"%s@example.com","password":"password123","nameFirst":"%s","nameLast":"%s"}`,
		strings.ToLower(first), first, last)
	rr := do(env.ac.Register, http.MethodPost, "/auth/register/v3", "", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	out := decodeBody(t, rr)
	return out["token"].(string), int(out["authUserId"].(float64))
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	token, id := env.register(t, "Ada", "Lovelace")
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, id)

	rr := do(env.ac.Login, http.MethodPost, "/auth/login/v3", "", `{"email":"ada@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	rr = do(env.ac.Login, http.MethodPost, "/auth/login/v3", "", `{"email":"ada@example.com","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_credentials", decodeBody(t, rr)["code"])
}

func TestRegister_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	rr := do(env.ac.Register, http.MethodPost, "/auth/register/v3", "", "not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "bad_request", decodeBody(t, rr)["code"])
}

func TestRegister_OversizedBody(t *testing.T) {
	env := newTestEnv(t)
	big := `{"email":"` + strings.Repeat("x", maxRequestBodySize) + `"}`
	rr := do(env.ac.Register, http.MethodPost, "/auth/register/v3", "", big)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ada", "Lovelace")

	rr := do(env.ac.Logout, http.MethodPost, "/auth/logout/v2", token, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "{}", rr.Body.String())

	rr = do(env.ac.Logout, http.MethodPost, "/auth/logout/v2", token, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestInvalidTokenIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	rr := do(env.ac.ListChannels, http.MethodGet, "/channels/list/v3", "garbage", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "invalid_session", decodeBody(t, rr)["code"])

	rr = do(env.ac.ListChannels, http.MethodGet, "/channels/list/v3", "", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestChannelFlow(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.register(t, "Ada", "Lovelace")
	member, memberID := env.register(t, "Alan", "Turing")

	rr := do(env.ac.CreateChannel, http.MethodPost, "/channels/create/v3", owner, `{"name":"general","isPublic":false}`)
	require.Equal(t, http.StatusOK, rr.Code)
	channelID := int(decodeBody(t, rr)["channelId"].(float64))

	rr = do(env.ac.JoinChannel, http.MethodPost, "/channel/join/v3", member, fmt.Sprintf(`{"channelId":%d}`, channelID))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "private_channel", decodeBody(t, rr)["code"])

	rr = do(env.ac.InviteToChannel, http.MethodPost, "/channel/invite/v3", owner, fmt.Sprintf(`{"channelId":%d,"uId":%d}`, channelID, memberID))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(env.ac.ChannelDetails, http.MethodGet, fmt.Sprintf("/channel/details/v3?channelId=%d", channelID), member, "")
	require.Equal(t, http.StatusOK, rr.Code)
	details := decodeBody(t, rr)
	assert.Equal(t, "general", details["name"])
	assert.Len(t, details["allMembers"], 2)

	rr = do(env.ac.AddChannelOwner, http.MethodPost, "/channel/addowner/v2", owner, fmt.Sprintf(`{"channelId":%d,"uId":%d}`, channelID, memberID))
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(env.ac.RemoveChannelOwner, http.MethodPost, "/channel/removeowner/v2", owner, fmt.Sprintf(`{"channelId":%d,"uId":%d}`, channelID, memberID))
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(env.ac.LeaveChannel, http.MethodPost, "/channel/leave/v2", member, fmt.Sprintf(`{"channelId":%d}`, channelID))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(env.ac.ListAllChannels, http.MethodGet, "/channels/listall/v3", member, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody(t, rr)["channels"], 1)
}

func TestChannelDetails_BadQuery(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ada", "Lovelace")

	rr := do(env.ac.ChannelDetails, http.MethodGet, "/channel/details/v3", token, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(env.ac.ChannelDetails, http.MethodGet, "/channel/details/v3?channelId=abc", token, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(env.ac.ChannelDetails, http.MethodGet, "/channel/details/v3?channelId=5", token, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "unknown_channel", decodeBody(t, rr)["code"])
}

func TestListChannels_CachedPerRevision(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ada", "Lovelace")

	rr := do(env.ac.ListChannels, http.MethodGet, "/channels/list/v3", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	loads := env.gateway.Loads

	rr = do(env.ac.ListChannels, http.MethodGet, "/channels/list/v3", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	// only the token lookup touched the gateway
	assert.Equal(t, loads+1, env.gateway.Loads)
	assert.Len(t, decodeBody(t, rr)["channels"], 0)

	rr = do(env.ac.CreateChannel, http.MethodPost, "/channels/create/v3", token, `{"name":"general","isPublic":true}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(env.ac.ListChannels, http.MethodGet, "/channels/list/v3", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody(t, rr)["channels"], 1)
}

func TestMessageFlow(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ada", "Lovelace")
	rr := do(env.ac.CreateChannel, http.MethodPost, "/channels/create/v3", token, `{"name":"general","isPublic":true}`)
	channelID := int(decodeBody(t, rr)["channelId"].(float64))

	rr = do(env.ac.SendChannelMessage, http.MethodPost, "/message/send/v2", token, fmt.Sprintf(`{"channelId":%d,"message":"hello"}`, channelID))
	require.Equal(t, http.StatusOK, rr.Code)
	messageID := int(decodeBody(t, rr)["messageId"].(float64))

	rr = do(env.ac.EditMessage, http.MethodPut, "/message/edit/v2", token, fmt.Sprintf(`{"messageId":%d,"message":"edited"}`, messageID))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(env.ac.ChannelMessages, http.MethodGet, fmt.Sprintf("/channel/messages/v3?channelId=%d&start=0", channelID), token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	page := decodeBody(t, rr)
	assert.Equal(t, float64(-1), page["end"])
	messages := page["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "edited", messages[0].(map[string]any)["message"])

	rr = do(env.ac.ChannelMessages, http.MethodGet, fmt.Sprintf("/channel/messages/v3?channelId=%d&start=3", channelID), token, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(env.ac.RemoveMessage, http.MethodDelete, fmt.Sprintf("/message/remove/v2?messageId=%d", messageID), token, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(env.ac.RemoveMessage, http.MethodDelete, fmt.Sprintf("/message/remove/v2?messageId=%d", messageID), token, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDmFlow(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.register(t, "Ada", "Lovelace")
	other, otherID := env.register(t, "Alan", "Turing")

	rr := do(env.ac.CreateDm, http.MethodPost, "/dm/create/v2", owner, fmt.Sprintf(`{"uIds":[%d]}`, otherID))
	require.Equal(t, http.StatusOK, rr.Code)
	dmID := int(decodeBody(t, rr)["dmId"].(float64))

	rr = do(env.ac.SendDmMessage, http.MethodPost, "/message/senddm/v2", other, fmt.Sprintf(`{"dmId":%d,"message":"hi"}`, dmID))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(env.ac.DmMessages, http.MethodGet, fmt.Sprintf("/dm/messages/v2?dmId=%d&start=0", dmID), owner, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody(t, rr)["messages"], 1)

	rr = do(env.ac.DmDetails, http.MethodGet, fmt.Sprintf("/dm/details/v2?dmId=%d", dmID), other, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "adalovelace, alanturing", decodeBody(t, rr)["name"])

	rr = do(env.ac.ListDms, http.MethodGet, "/dm/list/v2", other, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody(t, rr)["dms"], 1)

	rr = do(env.ac.RemoveDm, http.MethodDelete, fmt.Sprintf("/dm/remove/v2?dmId=%d", dmID), other, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = do(env.ac.LeaveDm, http.MethodPost, "/dm/leave/v2", other, fmt.Sprintf(`{"dmId":%d}`, dmID))
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(env.ac.RemoveDm, http.MethodDelete, fmt.Sprintf("/dm/remove/v2?dmId=%d", dmID), owner, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestStandupFlow(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ada", "Lovelace")
	rr := do(env.ac.CreateChannel, http.MethodPost, "/channels/create/v3", token, `{"name":"general","isPublic":true}`)
	channelID := int(decodeBody(t, rr)["channelId"].(float64))

	rr = do(env.ac.StartStandup, http.MethodPost, "/standup/start/v1", token, fmt.Sprintf(`{"channelId":%d,"length":-1}`, channelID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(env.ac.StartStandup, http.MethodPost, "/standup/start/v1", token, fmt.Sprintf(`{"channelId":%d,"length":60}`, channelID))
	require.Equal(t, http.StatusOK, rr.Code)
	finish := decodeBody(t, rr)["timeFinish"]

	rr = do(env.ac.SendStandupMessage, http.MethodPost, "/standup/send/v1", token, fmt.Sprintf(`{"channelId":%d,"message":"done"}`, channelID))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(env.ac.StandupActive, http.MethodGet, fmt.Sprintf("/standup/active/v1?channelId=%d", channelID), token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	status := decodeBody(t, rr)
	assert.Equal(t, true, status["isActive"])
	assert.Equal(t, finish, status["timeFinish"])
}

func TestUserEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token, id := env.register(t, "Ada", "Lovelace")

	rr := do(env.ac.SetName, http.MethodPut, "/user/profile/setname/v2", token, `{"nameFirst":"Augusta","nameLast":"King"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(env.ac.SetEmail, http.MethodPut, "/user/profile/setemail/v2", token, `{"email":"augusta@example.com"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(env.ac.SetHandle, http.MethodPut, "/user/profile/sethandle/v2", token, `{"handleStr":"countess"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(env.ac.SetHandle, http.MethodPut, "/user/profile/sethandle/v2", token, `{"handleStr":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(env.ac.Profile, http.MethodGet, fmt.Sprintf("/user/profile/v3?uId=%d", id), token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	user := decodeBody(t, rr)["user"].(map[string]any)
	assert.Equal(t, "Augusta", user["nameFirst"])
	assert.Equal(t, "countess", user["handleStr"])
	assert.Equal(t, "augusta@example.com", user["email"])

	rr = do(env.ac.AllUsers, http.MethodGet, "/users/all/v2", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody(t, rr)["users"], 1)

	rr = do(env.ac.UserStats, http.MethodGet, "/user/stats/v1", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decodeBody(t, rr)["userStats"].(map[string]any)
	assert.Equal(t, float64(0), stats["involvementRate"])

	rr = do(env.ac.WorkspaceStats, http.MethodGet, "/users/stats/v1", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decodeBody(t, rr), "workspaceStats")
}

func TestAdminEndpoints(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerID := env.register(t, "Ada", "Lovelace")
	member, memberID := env.register(t, "Alan", "Turing")

	rr := do(env.ac.ChangePermission, http.MethodPost, "/admin/userpermission/change/v1", member, fmt.Sprintf(`{"uId":%d,"permissionId":2}`, ownerID))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(env.ac.ChangePermission, http.MethodPost, "/admin/userpermission/change/v1", owner, fmt.Sprintf(`{"uId":%d,"permissionId":2}`, ownerID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "sole_global_owner", decodeBody(t, rr)["code"])

	rr = do(env.ac.RemoveUser, http.MethodDelete, fmt.Sprintf("/admin/user/remove/v1?uId=%d", memberID), owner, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	// the removed user's token no longer resolves
	rr = do(env.ac.UserStats, http.MethodGet, "/user/stats/v1", member, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestClear(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ada", "Lovelace")

	rr := do(env.ac.Clear, http.MethodDelete, "/clear/v1", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, env.cache.Clears)

	rr = do(env.ac.UserStats, http.MethodGet, "/user/stats/v1", token, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestPersistenceFailureIs500(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "Ada", "Lovelace")
	env.gateway.SaveErr = fmt.Errorf("disk full")

	rr := do(env.ac.CreateChannel, http.MethodPost, "/channels/create/v3", token, `{"name":"general","isPublic":true}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal", decodeBody(t, rr)["code"])
	// once by the workspace and once by the handler
	assert.Equal(t, 2, env.logger.Count("error", providers.TypeApp))
}
