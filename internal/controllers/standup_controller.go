package controllers

import "net/http"

type startStandupRequest struct {
	ChannelID int `json:"channelId"`
	Length    int `json:"length"`
}

type standupTimeFinishResponse struct {
	TimeFinish int64 `json:"timeFinish"`
}

func (ac *ApiController) StartStandup(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req startStandupRequest
	if !ac.decode(w, r, &req) {
		return
	}
	finish, err := ac.standups.Start(userID, req.ChannelID, req.Length)
	ac.respond(w, r, standupTimeFinishResponse{TimeFinish: finish}, err)
}

func (ac *ApiController) StandupActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	channelID, err := queryInt(r, "channelId")
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	status, err := ac.standups.Status(userID, channelID)
	ac.respond(w, r, status, err)
}

func (ac *ApiController) SendStandupMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req sendChannelMessageRequest
	if !ac.decode(w, r, &req) {
		return
	}
	ac.respond(w, r, empty{}, ac.standups.Send(userID, req.ChannelID, req.Message))
}
