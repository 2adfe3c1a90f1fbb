package services

import (
	"time"
	"treats/internal/models"
	"treats/internal/providers"
	"treats/internal/structures"
)

type DmDetails struct {
	Name    string          `json:"name"`
	Members []models.Member `json:"members"`
}

type DmServiceInterface interface {
	Create(creatorID int, memberIDs []int) (int, error)
	List(userID int) ([]models.DmSummary, error)
	Details(userID, dmID int) (DmDetails, error)
	Leave(userID, dmID int) error
	Remove(userID, dmID int) error
}

type DmService struct {
	workspace     WorkspaceInterface
	logger        providers.Logger
	refreshOnRead bool
	now           func() time.Time
}

func NewDmService(conf *structures.Config, workspace WorkspaceInterface, logger providers.Logger) DmServiceInterface {
	return &DmService{
		workspace:     workspace,
		logger:        logger,
		refreshOnRead: conf.Membership.RefreshOnRead,
		now:           time.Now,
	}
}

// Create fails with ErrDuplicateMember when an id repeats, the creator's own
// id included.
func (ds *DmService) Create(creatorID int, memberIDs []int) (int, error) {
	seen := map[int]struct{}{creatorID: {}}
	for _, id := range memberIDs {
		if _, ok := seen[id]; ok {
			return 0, ErrDuplicateMember
		}
		seen[id] = struct{}{}
	}

	var dmID int
	err := ds.workspace.Update("dm/create", func(s *models.Snapshot) error {
		creator, err := actor(s, creatorID)
		if err != nil {
			return err
		}
		users := make([]*models.User, 0, len(memberIDs))
		invitees := make([]models.Member, 0, len(memberIDs))
		for _, id := range memberIDs {
			user := s.User(id)
			if user == nil {
				return ErrUnknownUser
			}
			users = append(users, user)
			invitees = append(invitees, user.Member())
		}

		dm := models.NewDm(s.NextDmID(), creator.Member(), invitees)
		s.Dms = append(s.Dms, dm)

		now := ds.now().Unix()
		creator.Stats.AddDmsJoined(1, now)
		for _, user := range users {
			user.Stats.AddDmsJoined(1, now)
		}
		dmID = dm.ID
		return nil
	})
	return dmID, err
}

func (ds *DmService) List(userID int) ([]models.DmSummary, error) {
	dms := []models.DmSummary{}
	err := ds.workspace.View(func(s *models.Snapshot) error {
		if _, err := actor(s, userID); err != nil {
			return err
		}
		for _, d := range s.Dms {
			if d.IsMember(userID) {
				dms = append(dms, d.Summary())
			}
		}
		return nil
	})
	return dms, err
}

func (ds *DmService) Details(userID, dmID int) (DmDetails, error) {
	var details DmDetails
	err := ds.workspace.View(func(s *models.Snapshot) error {
		dm := s.Dm(dmID)
		if dm == nil {
			return ErrUnknownDm
		}
		if !dm.IsMember(userID) {
			return ErrNotMember
		}
		details = DmDetails{Name: dm.Name, Members: dm.Members}
		if ds.refreshOnRead {
			details.Members = refreshMembers(s, dm.Members)
		}
		return nil
	})
	return details, err
}

func (ds *DmService) Leave(userID, dmID int) error {
	return ds.workspace.Update("dm/leave", func(s *models.Snapshot) error {
		dm := s.Dm(dmID)
		if dm == nil {
			return ErrUnknownDm
		}
		if !dm.IsMember(userID) {
			return ErrNotMember
		}
		user, err := actor(s, userID)
		if err != nil {
			return err
		}
		dm.RemoveMember(userID)
		user.Stats.AddDmsJoined(-1, ds.now().Unix())
		return nil
	})
}

func (ds *DmService) Remove(userID, dmID int) error {
	return ds.workspace.Update("dm/remove", func(s *models.Snapshot) error {
		dm := s.Dm(dmID)
		if dm == nil {
			return ErrUnknownDm
		}
		if !dm.IsOwner(userID) {
			return ErrNotDmCreator
		}
		if !dm.IsMember(userID) {
			return ErrNotMember
		}
		now := ds.now().Unix()
		for _, m := range dm.Members {
			if user := s.User(m.ID); user != nil {
				user.Stats.AddDmsJoined(-1, now)
			}
		}
		s.RemoveDm(dmID)
		return nil
	})
}
