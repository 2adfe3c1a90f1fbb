package controllers

import (
	"net/http"
	"treats/internal/models"
)

type createDmRequest struct {
	UserIDs []int `json:"uIds"`
}

type dmRequest struct {
	DmID int `json:"dmId"`
}

type dmIDResponse struct {
	DmID int `json:"dmId"`
}

type dmsResponse struct {
	Dms []models.DmSummary `json:"dms"`
}

func (ac *ApiController) CreateDm(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req createDmRequest
	if !ac.decode(w, r, &req) {
		return
	}
	id, err := ac.dms.Create(userID, req.UserIDs)
	ac.respond(w, r, dmIDResponse{DmID: id}, err)
}

func (ac *ApiController) ListDms(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	ac.serveFromCacheOrCompute(w, r, userID, func() (any, error) {
		dms, err := ac.dms.List(userID)
		return dmsResponse{Dms: dms}, err
	})
}

func (ac *ApiController) DmDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	dmID, err := queryInt(r, "dmId")
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.serveFromCacheOrCompute(w, r, userID, func() (any, error) {
		return ac.dms.Details(userID, dmID)
	})
}

func (ac *ApiController) LeaveDm(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req dmRequest
	if !ac.decode(w, r, &req) {
		return
	}
	ac.respond(w, r, empty{}, ac.dms.Leave(userID, req.DmID))
}

func (ac *ApiController) RemoveDm(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	dmID, err := queryInt(r, "dmId")
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.respond(w, r, empty{}, ac.dms.Remove(userID, dmID))
}
