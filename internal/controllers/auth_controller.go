package controllers

import "net/http"

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	NameFirst string `json:"nameFirst"`
	NameLast  string `json:"nameLast"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (ac *ApiController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !ac.decode(w, r, &req) {
		return
	}
	res, err := ac.auth.Register(req.Email, req.Password, req.NameFirst, req.NameLast)
	ac.respond(w, r, res, err)
}

func (ac *ApiController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !ac.decode(w, r, &req) {
		return
	}
	res, err := ac.auth.Login(req.Email, req.Password)
	ac.respond(w, r, res, err)
}

func (ac *ApiController) Logout(w http.ResponseWriter, r *http.Request) {
	err := ac.auth.Logout(r.Header.Get(tokenHeader))
	ac.respond(w, r, empty{}, err)
}
