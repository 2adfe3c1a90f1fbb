package controllers

import (
	"net/http"
	"treats/internal/models"
)

type changePermissionRequest struct {
	UserID       int               `json:"uId"`
	PermissionID models.Permission `json:"permissionId"`
}

func (ac *ApiController) RemoveUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	targetID, err := queryInt(r, "uId")
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.respond(w, r, empty{}, ac.admin.RemoveUser(userID, targetID))
}

func (ac *ApiController) ChangePermission(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req changePermissionRequest
	if !ac.decode(w, r, &req) {
		return
	}
	ac.respond(w, r, empty{}, ac.admin.ChangePermission(userID, req.UserID, req.PermissionID))
}
