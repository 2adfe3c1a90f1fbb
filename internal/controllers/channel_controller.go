package controllers

import (
	"net/http"
	"treats/internal/models"
)

type createChannelRequest struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"isPublic"`
}

type channelRequest struct {
	ChannelID int `json:"channelId"`
}

type channelMemberRequest struct {
	ChannelID int `json:"channelId"`
	UserID    int `json:"uId"`
}

type channelIDResponse struct {
	ChannelID int `json:"channelId"`
}

type channelsResponse struct {
	Channels []models.ChannelSummary `json:"channels"`
}

func (ac *ApiController) CreateChannel(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req createChannelRequest
	if !ac.decode(w, r, &req) {
		return
	}
	id, err := ac.channels.Create(userID, req.Name, req.IsPublic)
	ac.respond(w, r, channelIDResponse{ChannelID: id}, err)
}

func (ac *ApiController) ListChannels(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	ac.serveFromCacheOrCompute(w, r, userID, func() (any, error) {
		channels, err := ac.channels.List(userID)
		return channelsResponse{Channels: channels}, err
	})
}

func (ac *ApiController) ListAllChannels(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	ac.serveFromCacheOrCompute(w, r, userID, func() (any, error) {
		channels, err := ac.channels.ListAll(userID)
		return channelsResponse{Channels: channels}, err
	})
}

func (ac *ApiController) ChannelDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	channelID, err := queryInt(r, "channelId")
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.serveFromCacheOrCompute(w, r, userID, func() (any, error) {
		return ac.channels.Details(userID, channelID)
	})
}

func (ac *ApiController) JoinChannel(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req channelRequest
	if !ac.decode(w, r, &req) {
		return
	}
	ac.respond(w, r, empty{}, ac.channels.Join(userID, req.ChannelID))
}

func (ac *ApiController) InviteToChannel(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req channelMemberRequest
	if !ac.decode(w, r, &req) {
		return
	}
	ac.respond(w, r, empty{}, ac.channels.Invite(userID, req.ChannelID, req.UserID))
}

func (ac *ApiController) LeaveChannel(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req channelRequest
	if !ac.decode(w, r, &req) {
		return
	}
	ac.respond(w, r, empty{}, ac.channels.Leave(userID, req.ChannelID))
}

func (ac *ApiController) AddChannelOwner(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req channelMemberRequest
	if !ac.decode(w, r, &req) {
		return
	}
	ac.respond(w, r, empty{}, ac.channels.AddOwner(userID, req.ChannelID, req.UserID))
}

func (ac *ApiController) RemoveChannelOwner(w http.ResponseWriter, r *http.Request) {
	userID, ok := ac.authenticate(w, r)
	if !ok {
		return
	}
	var req channelMemberRequest
	if !ac.decode(w, r, &req) {
		return
	}
	ac.respond(w, r, empty{}, ac.channels.RemoveOwner(userID, req.ChannelID, req.UserID))
}
