package services

import (
	"time"
	"treats/internal/models"
	"treats/internal/providers"
	"treats/internal/structures"
)

type ChannelDetails struct {
	Name         string          `json:"name"`
	IsPublic     bool            `json:"isPublic"`
	OwnerMembers []models.Member `json:"ownerMembers"`
	AllMembers   []models.Member `json:"allMembers"`
}

type ChannelServiceInterface interface {
	Create(userID int, name string, isPublic bool) (int, error)
	List(userID int) ([]models.ChannelSummary, error)
	ListAll(userID int) ([]models.ChannelSummary, error)
	Details(userID, channelID int) (ChannelDetails, error)
	Join(userID, channelID int) error
	Invite(inviterID, channelID, targetID int) error
	Leave(userID, channelID int) error
	AddOwner(actingID, channelID, targetID int) error
	RemoveOwner(actingID, channelID, targetID int) error
}

type ChannelService struct {
	workspace     WorkspaceInterface
	logger        providers.Logger
	refreshOnRead bool
	now           func() time.Time
}

func NewChannelService(conf *structures.Config, workspace WorkspaceInterface, logger providers.Logger) ChannelServiceInterface {
	return &ChannelService{
		workspace:     workspace,
		logger:        logger,
		refreshOnRead: conf.Membership.RefreshOnRead,
		now:           time.Now,
	}
}

// actor returns the acting user. Callers resolve tokens first, so a missing
// user means the session outlived it.
func actor(s *models.Snapshot, userID int) (*models.User, error) {
	user := s.User(userID)
	if user == nil {
		return nil, ErrInvalidSession
	}
	return user, nil
}

// refreshMembers re-reads display fields from the current users. Records of
// users that no longer exist are returned unchanged.
func refreshMembers(s *models.Snapshot, members []models.Member) []models.Member {
	out := make([]models.Member, len(members))
	for i, m := range members {
		if user := s.User(m.ID); user != nil {
			out[i] = user.Member()
			continue
		}
		out[i] = m
	}
	return out
}

func (cs *ChannelService) Create(userID int, name string, isPublic bool) (int, error) {
	if !isValidChannelName(name) {
		return 0, ErrInvalidChannelName
	}
	var channelID int
	err := cs.workspace.Update("channels/create", func(s *models.Snapshot) error {
		user, err := actor(s, userID)
		if err != nil {
			return err
		}
		channel := models.NewChannel(s.NextChannelID(), name, isPublic, user.Member())
		s.Channels = append(s.Channels, channel)
		user.Stats.AddChannelsJoined(1, cs.now().Unix())
		channelID = channel.ID
		return nil
	})
	return channelID, err
}

func (cs *ChannelService) List(userID int) ([]models.ChannelSummary, error) {
	channels := []models.ChannelSummary{}
	err := cs.workspace.View(func(s *models.Snapshot) error {
		if _, err := actor(s, userID); err != nil {
			return err
		}
		for _, c := range s.Channels {
			if c.IsMember(userID) {
				channels = append(channels, c.Summary())
			}
		}
		return nil
	})
	return channels, err
}

func (cs *ChannelService) ListAll(userID int) ([]models.ChannelSummary, error) {
	channels := []models.ChannelSummary{}
	err := cs.workspace.View(func(s *models.Snapshot) error {
		if _, err := actor(s, userID); err != nil {
			return err
		}
		for _, c := range s.Channels {
			channels = append(channels, c.Summary())
		}
		return nil
	})
	return channels, err
}

func (cs *ChannelService) Details(userID, channelID int) (ChannelDetails, error) {
	var details ChannelDetails
	err := cs.workspace.View(func(s *models.Snapshot) error {
		channel := s.Channel(channelID)
		if channel == nil {
			return ErrUnknownChannel
		}
		if !channel.IsMember(userID) {
			return ErrNotMember
		}
		details = ChannelDetails{
			Name:         channel.Name,
			IsPublic:     channel.IsPublic,
			OwnerMembers: channel.OwnerMembers,
			AllMembers:   channel.AllMembers,
		}
		if cs.refreshOnRead {
			details.OwnerMembers = refreshMembers(s, channel.OwnerMembers)
			details.AllMembers = refreshMembers(s, channel.AllMembers)
		}
		return nil
	})
	return details, err
}

func (cs *ChannelService) Join(userID, channelID int) error {
	return cs.workspace.Update("channel/join", func(s *models.Snapshot) error {
		channel := s.Channel(channelID)
		if channel == nil {
			return ErrUnknownChannel
		}
		user, err := actor(s, userID)
		if err != nil {
			return err
		}
		if channel.IsMember(userID) {
			return ErrAlreadyMember
		}
		if !channel.IsPublic && !user.IsGlobalOwner() {
			return ErrPrivateChannel
		}
		channel.AddMember(user.Member())
		user.Stats.AddChannelsJoined(1, cs.now().Unix())
		return nil
	})
}

func (cs *ChannelService) Invite(inviterID, channelID, targetID int) error {
	return cs.workspace.Update("channel/invite", func(s *models.Snapshot) error {
		channel := s.Channel(channelID)
		if channel == nil {
			return ErrUnknownChannel
		}
		target := s.User(targetID)
		if target == nil {
			return ErrUnknownUser
		}
		if channel.IsMember(targetID) {
			return ErrAlreadyMember
		}
		if !channel.IsMember(inviterID) {
			return ErrInviterNotMember
		}
		channel.AddMember(target.Member())
		target.Stats.AddChannelsJoined(1, cs.now().Unix())
		return nil
	})
}

// Leave removes the user from both member sets. The last owner may leave,
// leaving the channel without owners.
func (cs *ChannelService) Leave(userID, channelID int) error {
	return cs.workspace.Update("channel/leave", func(s *models.Snapshot) error {
		channel := s.Channel(channelID)
		if channel == nil {
			return ErrUnknownChannel
		}
		if !channel.IsMember(userID) {
			return ErrNotMember
		}
		user, err := actor(s, userID)
		if err != nil {
			return err
		}
		channel.RemoveMember(userID)
		user.Stats.AddChannelsJoined(-1, cs.now().Unix())
		return nil
	})
}

func (cs *ChannelService) AddOwner(actingID, channelID, targetID int) error {
	return cs.workspace.Update("channel/addowner", func(s *models.Snapshot) error {
		channel := s.Channel(channelID)
		if channel == nil {
			return ErrUnknownChannel
		}
		target := s.User(targetID)
		if target == nil {
			return ErrUnknownUser
		}
		if !channel.IsMember(targetID) {
			return ErrTargetNotMember
		}
		if channel.IsOwner(targetID) {
			return ErrAlreadyOwner
		}
		if !channel.IsOwner(actingID) {
			return ErrNotChannelOwner
		}
		channel.AddOwner(target.Member())
		return nil
	})
}

func (cs *ChannelService) RemoveOwner(actingID, channelID, targetID int) error {
	return cs.workspace.Update("channel/removeowner", func(s *models.Snapshot) error {
		channel := s.Channel(channelID)
		if channel == nil {
			return ErrUnknownChannel
		}
		if s.User(targetID) == nil {
			return ErrUnknownUser
		}
		if !channel.IsOwner(targetID) {
			return ErrTargetNotOwner
		}
		if len(channel.OwnerMembers) == 1 {
			return ErrSoleOwner
		}
		acting, err := actor(s, actingID)
		if err != nil {
			return err
		}
		if !acting.IsGlobalOwner() && !channel.IsOwner(actingID) {
			return ErrNotChannelOwner
		}
		channel.RemoveOwner(targetID)
		return nil
	})
}
