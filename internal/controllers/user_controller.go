package controllers

import (
	"net/http"
	"treats/internal/models"
	"treats/internal/services"
)

type setNameRequest struct {
	NameFirst string `json:"nameFirst"`
	NameLast  string `json:"nameLast"`
}

type setEmailRequest struct {
	Email string `json:"email"`
}

type setHandleRequest struct {
	Handle string `json:"handleStr"`
}

type userResponse struct {
	User models.Member `json:"user"`
}

type usersResponse struct {
	Users []models.Member `json:"users"`
}

type userStatsResponse struct {
	UserStats services.UserStats `json:"userStats"`
}

type workspaceStatsResponse struct {
	WorkspaceStats services.WorkspaceStats `json:"workspaceStats"`
}

func (ac *ApiController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	targetID, err := queryInt(r, "uId")
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.serveFromCacheOrCompute(w, r, userID, func() (any, error) {
		member, err := ac.users.Profile(userID, targetID)
		return userResponse{User: member}, err
	})
}

func (ac *ApiController) AllUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	ac.serveFromCacheOrCompute(w, r, userID, func() (any, error) {
		users, err := ac.users.All(userID)
		return usersResponse{Users: users}, err
	})
}

func (ac *ApiController) SetName(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req setNameRequest
	if !ac.decode(w, r, &req) {
		return
	}
	ac.respond(w, r, empty{}, ac.users.SetName(userID, req.NameFirst, req.NameLast))
}

func (ac *ApiController) SetEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req setEmailRequest
	if !ac.decode(w, r, &req) {
		return
	}
	ac.respond(w, r, empty{}, ac.users.SetEmail(userID, req.Email))
}

func (ac *ApiController) SetHandle(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req setHandleRequest
	if !ac.decode(w, r, &req) {
		return
	}
	ac.respond(w, r, empty{}, ac.users.SetHandle(userID, req.Handle))
}

func (ac *ApiController) UserStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	ac.serveFromCacheOrCompute(w, r, userID, func() (any, error) {
		stats, err := ac.users.Stats(userID)
		return userStatsResponse{UserStats: stats}, err
	})
}

func (ac *ApiController) WorkspaceStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	ac.serveFromCacheOrCompute(w, r, userID, func() (any, error) {
		stats, err := ac.users.WorkspaceStats()
		return workspaceStatsResponse{WorkspaceStats: stats}, err
	})
}

// Clear wipes the workspace. It is only routed in debug mode.
func (ac *ApiController) Clear(w http.ResponseWriter, r *http.Request) {
	if err := ac.users.Clear(); err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.cache.Clear()
	writeJSON(w, http.StatusOK, empty{})
}
