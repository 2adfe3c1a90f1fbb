package internal

import (
	"net/http"
	"treats/internal/controllers"
	"treats/internal/providers"
	"treats/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	// auth
	routers.Post("/auth/register/v3", http.HandlerFunc(apiController.Register))
	routers.Post("/auth/login/v3", http.HandlerFunc(apiController.Login))
	routers.Post("/auth/logout/v2", http.HandlerFunc(apiController.Logout))

	// channels
	routers.Post("/channels/create/v3", http.HandlerFunc(apiController.CreateChannel))
	routers.Get("/channels/list/v3", http.HandlerFunc(apiController.ListChannels))
	routers.Get("/channels/listall/v3", http.HandlerFunc(apiController.ListAllChannels))
	routers.Get("/channel/details/v3", http.HandlerFunc(apiController.ChannelDetails))
	routers.Post("/channel/join/v3", http.HandlerFunc(apiController.JoinChannel))
	routers.Post("/channel/invite/v3", http.HandlerFunc(apiController.InviteToChannel))
	routers.Get("/channel/messages/v3", http.HandlerFunc(apiController.ChannelMessages))
	routers.Post("/channel/leave/v2", http.HandlerFunc(apiController.LeaveChannel))
	routers.Post("/channel/addowner/v2", http.HandlerFunc(apiController.AddChannelOwner))
	routers.Post("/channel/removeowner/v2", http.HandlerFunc(apiController.RemoveChannelOwner))

	// messages
	routers.Post("/message/send/v2", http.HandlerFunc(apiController.SendChannelMessage))
	routers.Post("/message/senddm/v2", http.HandlerFunc(apiController.SendDmMessage))
	routers.Put("/message/edit/v2", http.HandlerFunc(apiController.EditMessage))
	routers.Delete("/message/remove/v2", http.HandlerFunc(apiController.RemoveMessage))

	// dms
	routers.Post("/dm/create/v2", http.HandlerFunc(apiController.CreateDm))
	routers.Get("/dm/list/v2", http.HandlerFunc(apiController.ListDms))
	routers.Get("/dm/details/v2", http.HandlerFunc(apiController.DmDetails))
	routers.Post("/dm/leave/v2", http.HandlerFunc(apiController.LeaveDm))
	routers.Delete("/dm/remove/v2", http.HandlerFunc(apiController.RemoveDm))
	routers.Get("/dm/messages/v2", http.HandlerFunc(apiController.DmMessages))

	// users
	routers.Get("/user/profile/v3", http.HandlerFunc(apiController.Profile))
	routers.Get("/users/all/v2", http.HandlerFunc(apiController.AllUsers))
	routers.Put("/user/profile/setname/v2", http.HandlerFunc(apiController.SetName))
	routers.Put("/user/profile/setemail/v2", http.HandlerFunc(apiController.SetEmail))
	routers.Put("/user/profile/sethandle/v2", http.HandlerFunc(apiController.SetHandle))
	routers.Get("/user/stats/v1", http.HandlerFunc(apiController.UserStats))
	routers.Get("/users/stats/v1", http.HandlerFunc(apiController.WorkspaceStats))

	// standups
	routers.Post("/standup/start/v1", http.HandlerFunc(apiController.StartStandup))
	routers.Get("/standup/active/v1", http.HandlerFunc(apiController.StandupActive))
	routers.Post("/standup/send/v1", http.HandlerFunc(apiController.SendStandupMessage))

	// admin
	routers.Delete("/admin/user/remove/v1", http.HandlerFunc(apiController.RemoveUser))
	routers.Post("/admin/userpermission/change/v1", http.HandlerFunc(apiController.ChangePermission))

	if conf.Debug {
		routers.Delete("/clear/v1", http.HandlerFunc(apiController.Clear))
	}
	return routers
}
