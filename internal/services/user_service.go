package services

import (
	"treats/internal/models"
	"treats/internal/providers"
)

type UserStats struct {
	ChannelsJoined  []models.ChannelsJoined `json:"channelsJoined"`
	DmsJoined       []models.DmsJoined      `json:"dmsJoined"`
	MessagesSent    []models.MessagesSent   `json:"messagesSent"`
	InvolvementRate float64                 `json:"involvementRate"`
}

type WorkspaceStats struct {
	ChannelsExist   int     `json:"channelsExist"`
	DmsExist        int     `json:"dmsExist"`
	MessagesExist   int     `json:"messagesExist"`
	UtilizationRate float64 `json:"utilizationRate"`
}

type UserServiceInterface interface {
	Stats(userID int) (UserStats, error)
	WorkspaceStats() (WorkspaceStats, error)
	Profile(userID, targetID int) (models.Member, error)
	All(userID int) ([]models.Member, error)
	SetName(userID int, nameFirst, nameLast string) error
	SetEmail(userID int, email string) error
	SetHandle(userID int, handle string) error
	Clear() error
}

type UserService struct {
	workspace WorkspaceInterface
	logger    providers.Logger
}

func NewUserService(workspace WorkspaceInterface, logger providers.Logger) UserServiceInterface {
	return &UserService{workspace: workspace, logger: logger}
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Stats returns the timelines as stored and an involvement rate computed
// from the current workspace totals.
func (us *UserService) Stats(userID int) (UserStats, error) {
	var stats UserStats
	err := us.workspace.View(func(s *models.Snapshot) error {
		user := s.User(userID)
		if user == nil {
			return ErrUnknownUser
		}
		counts := s.Counts()
		involved := user.Stats.LatestChannelsJoined() + user.Stats.LatestDmsJoined() + user.Stats.LatestMessagesSent()
		stats = UserStats{
			ChannelsJoined:  user.Stats.ChannelsJoined,
			DmsJoined:       user.Stats.DmsJoined,
			MessagesSent:    user.Stats.MessagesSent,
			InvolvementRate: ratio(involved, counts.Channels+counts.Dms+counts.Messages),
		}
		return nil
	})
	return stats, err
}

func (us *UserService) WorkspaceStats() (WorkspaceStats, error) {
	var stats WorkspaceStats
	err := us.workspace.View(func(s *models.Snapshot) error {
		counts := s.Counts()
		stats = WorkspaceStats{
			ChannelsExist:   counts.Channels,
			DmsExist:        counts.Dms,
			MessagesExist:   counts.Messages,
			UtilizationRate: ratio(s.ActiveUsers(), counts.Users),
		}
		return nil
	})
	return stats, err
}

func (us *UserService) Profile(userID, targetID int) (models.Member, error) {
	var member models.Member
	err := us.workspace.View(func(s *models.Snapshot) error {
		if _, err := actor(s, userID); err != nil {
			return err
		}
		target := s.User(targetID)
		if target == nil {
			return ErrUnknownUser
		}
		member = target.Member()
		return nil
	})
	return member, err
}

func (us *UserService) All(userID int) ([]models.Member, error) {
	members := []models.Member{}
	err := us.workspace.View(func(s *models.Snapshot) error {
		if _, err := actor(s, userID); err != nil {
			return err
		}
		for _, u := range s.Users {
			members = append(members, u.Member())
		}
		return nil
	})
	return members, err
}

// SetName and the other profile setters change the user only. Membership
// records already copied into channels and DMs keep the old values.
func (us *UserService) SetName(userID int, nameFirst, nameLast string) error {
	if !isValidName(nameFirst) || !isValidName(nameLast) {
		return ErrInvalidName
	}
	return us.workspace.Update("user/setname", func(s *models.Snapshot) error {
		user, err := actor(s, userID)
		if err != nil {
			return err
		}
		user.NameFirst = nameFirst
		user.NameLast = nameLast
		return nil
	})
}

func (us *UserService) SetEmail(userID int, email string) error {
	if !isValidEmail(email) {
		return ErrInvalidEmail
	}
	return us.workspace.Update("user/setemail", func(s *models.Snapshot) error {
		user, err := actor(s, userID)
		if err != nil {
			return err
		}
		if other := s.UserByEmail(email); other != nil && other.ID != userID {
			return ErrEmailTaken
		}
		user.Email = email
		return nil
	})
}

func (us *UserService) SetHandle(userID int, handle string) error {
	if !isValidHandle(handle) {
		return ErrInvalidHandle
	}
	return us.workspace.Update("user/sethandle", func(s *models.Snapshot) error {
		user, err := actor(s, userID)
		if err != nil {
			return err
		}
		if other := s.UserByHandle(handle); other != nil && other.ID != userID {
			return ErrHandleTaken
		}
		user.Handle = handle
		return nil
	})
}

// Clear wipes the workspace but keeps the revision counter moving forward.
func (us *UserService) Clear() error {
	err := us.workspace.Update("clear", func(s *models.Snapshot) error {
		revision := s.Revision
		*s = *models.NewSnapshot()
		s.Revision = revision
		return nil
	})
	if err == nil {
		us.logger.Warnf(providers.TypeApp, "Workspace cleared")
	}
	return err
}
