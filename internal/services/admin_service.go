package services

import (
	"treats/internal/models"
	"treats/internal/providers"
)

const (
	removedFirstName   = "Removed"
	removedLastName    = "user"
	removedMessageBody = "Removed user"
)

type AdminServiceInterface interface {
	RemoveUser(actingID, targetID int) error
	ChangePermission(actingID, targetID int, permission models.Permission) error
}

type AdminService struct {
	workspace WorkspaceInterface
	logger    providers.Logger
}

func NewAdminService(workspace WorkspaceInterface, logger providers.Logger) AdminServiceInterface {
	return &AdminService{workspace: workspace, logger: logger}
}

func requireGlobalOwner(s *models.Snapshot, userID int) error {
	user, err := actor(s, userID)
	if err != nil {
		return err
	}
	if !user.IsGlobalOwner() {
		return ErrNotGlobalOwner
	}
	return nil
}

func anonymize(messages []models.Message, userID int) {
	for i := range messages {
		if messages[i].UserID == userID {
			messages[i].Body = removedMessageBody
		}
	}
}

// RemoveUser anonymizes the target and revokes their sessions. Memberships
// and message authorship stay in place.
func (as *AdminService) RemoveUser(actingID, targetID int) error {
	revoked := 0
	err := as.workspace.Update("admin/user/remove", func(s *models.Snapshot) error {
		if err := requireGlobalOwner(s, actingID); err != nil {
			return err
		}
		target := s.User(targetID)
		if target == nil {
			return ErrUnknownUser
		}
		if target.IsGlobalOwner() && s.GlobalOwnerCount() == 1 {
			return ErrSoleGlobalOwner
		}

		target.NameFirst = removedFirstName
		target.NameLast = removedLastName
		for _, c := range s.Channels {
			anonymize(c.Messages, targetID)
		}
		for _, d := range s.Dms {
			anonymize(d.Messages, targetID)
		}
		revoked = s.RemoveUserSessions(targetID)
		return nil
	})
	if err != nil {
		return err
	}
	as.logger.Infof(providers.TypeApp, "User %d removed by %d, %d sessions revoked", targetID, actingID, revoked)
	return nil
}

func (as *AdminService) ChangePermission(actingID, targetID int, permission models.Permission) error {
	return as.workspace.Update("admin/userpermission/change", func(s *models.Snapshot) error {
		if err := requireGlobalOwner(s, actingID); err != nil {
			return err
		}
		target := s.User(targetID)
		if target == nil {
			return ErrUnknownUser
		}
		if !permission.Valid() {
			return ErrInvalidPermission
		}
		if target.Permission == permission {
			return ErrPermissionUnchanged
		}
		if target.IsGlobalOwner() && s.GlobalOwnerCount() == 1 {
			return ErrSoleGlobalOwner
		}
		target.Permission = permission
		return nil
	})
}
