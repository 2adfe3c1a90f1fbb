package controllers

import "net/http"

type sendChannelMessageRequest struct {
	ChannelID int    `json:"channelId"`
	Message   string `json:"message"`
}

type sendDmMessageRequest struct {
	DmID    int    `json:"dmId"`
	Message string `json:"message"`
}

type editMessageRequest struct {
	MessageID int    `json:"messageId"`
	Message   string `json:"message"`
}

type messageIDResponse struct {
	MessageID int `json:"messageId"`
}

func (ac *ApiController) SendChannelMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req sendChannelMessageRequest
	if !ac.decode(w, r, &req) {
		return
	}
	id, err := ac.messages.SendChannel(userID, req.ChannelID, req.Message)
	ac.respond(w, r, messageIDResponse{MessageID: id}, err)
}

func (ac *ApiController) SendDmMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req sendDmMessageRequest
	if !ac.decode(w, r, &req) {
		return
	}
	id, err := ac.messages.SendDm(userID, req.DmID, req.Message)
	ac.respond(w, r, messageIDResponse{MessageID: id}, err)
}

func (ac *ApiController) EditMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req editMessageRequest
	if !ac.decode(w, r, &req) {
		return
	}
	ac.respond(w, r, empty{}, ac.messages.Edit(userID, req.MessageID, req.Message))
}

func (ac *ApiController) RemoveMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	messageID, err := queryInt(r, "messageId")
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.respond(w, r, empty{}, ac.messages.Remove(userID, messageID))
}

func (ac *ApiController) ChannelMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	channelID, err := queryInt(r, "channelId")
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	start, err := queryInt(r, "start")
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.serveFromCacheOrCompute(w, r, userID, func() (any, error) {
		return ac.messages.ListChannel(userID, channelID, start)
	})
}

func (ac *ApiController) DmMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	dmID, err := queryInt(r, "dmId")
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	start, err := queryInt(r, "start")
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.serveFromCacheOrCompute(w, r, userID, func() (any, error) {
		return ac.messages.ListDm(userID, dmID, start)
	})
}
