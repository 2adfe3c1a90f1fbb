package services

import (
	"math"
	"math/rand/v2"
	"time"
	"treats/internal/models"
	"treats/internal/providers"

	"github.com/RoaringBitmap/roaring/v2"
)

const (
	minMessageID = 10000
	maxMessageID = math.MaxInt32
)

type MessageServiceInterface interface {
	SendChannel(userID, channelID int, body string) (int, error)
	SendDm(userID, dmID int, body string) (int, error)
	Edit(userID, messageID int, body string) error
	Remove(userID, messageID int) error
	ListChannel(userID, channelID, start int) (models.MessagePage, error)
	ListDm(userID, dmID, start int) (models.MessagePage, error)
}

type MessageService struct {
	workspace WorkspaceInterface
	logger    providers.Logger
	now       func() time.Time
	intn      func(n int) int
}

func NewMessageService(workspace WorkspaceInterface, logger providers.Logger) MessageServiceInterface {
	return &MessageService{
		workspace: workspace,
		logger:    logger,
		now:       time.Now,
		intn:      rand.IntN,
	}
}

// messageIDs collects every id in use across channels and DMs.
func messageIDs(s *models.Snapshot) *roaring.Bitmap {
	ids := roaring.New()
	s.MessageIDs(func(id int) {
		ids.Add(uint32(id))
	})
	return ids
}

// nextMessageID draws random ids in [10000, 2^31) until one is unused.
func nextMessageID(used *roaring.Bitmap, intn func(int) int) int {
	for {
		id := minMessageID + intn(maxMessageID-minMessageID)
		if !used.Contains(uint32(id)) {
			used.Add(uint32(id))
			return id
		}
	}
}

// postMessage prepends a new message authored by user and bumps their
// messagesSent. It is shared with the standup flush.
func postMessage(s *models.Snapshot, user *models.User, prepend func(models.Message), body string, now int64, intn func(int) int) int {
	msg := models.Message{
		ID:       nextMessageID(messageIDs(s), intn),
		UserID:   user.ID,
		Body:     body,
		TimeSent: now,
	}
	prepend(msg)
	user.Stats.AddMessagesSent(1, now)
	return msg.ID
}

func (ms *MessageService) SendChannel(userID, channelID int, body string) (int, error) {
	var messageID int
	err := ms.workspace.Update("message/send", func(s *models.Snapshot) error {
		channel := s.Channel(channelID)
		if channel == nil {
			return ErrUnknownChannel
		}
		if err := checkBody(body, false); err != nil {
			return err
		}
		if !channel.IsMember(userID) {
			return ErrNotMember
		}
		user, err := actor(s, userID)
		if err != nil {
			return err
		}
		messageID = postMessage(s, user, channel.PrependMessage, body, ms.now().Unix(), ms.intn)
		return nil
	})
	return messageID, err
}

func (ms *MessageService) SendDm(userID, dmID int, body string) (int, error) {
	var messageID int
	err := ms.workspace.Update("message/senddm", func(s *models.Snapshot) error {
		dm := s.Dm(dmID)
		if dm == nil {
			return ErrUnknownDm
		}
		if err := checkBody(body, false); err != nil {
			return err
		}
		if !dm.IsMember(userID) {
			return ErrNotMember
		}
		user, err := actor(s, userID)
		if err != nil {
			return err
		}
		messageID = postMessage(s, user, dm.PrependMessage, body, ms.now().Unix(), ms.intn)
		return nil
	})
	return messageID, err
}

// locateEditable finds the message among the containers the user belongs to
// and checks that the user may change it.
func locateEditable(s *models.Snapshot, userID, messageID int) (models.MessageLocation, error) {
	loc, ok := s.LocateMessage(userID, messageID)
	if !ok {
		return loc, ErrUnknownMessage
	}
	if loc.Message().UserID != userID && !loc.IsOwner(userID) {
		return loc, ErrForbidden
	}
	return loc, nil
}

// Edit replaces the body. An empty body deletes the message without touching
// anyone's stats.
func (ms *MessageService) Edit(userID, messageID int, body string) error {
	if err := checkBody(body, true); err != nil {
		return err
	}
	return ms.workspace.Update("message/edit", func(s *models.Snapshot) error {
		loc, err := locateEditable(s, userID, messageID)
		if err != nil {
			return err
		}
		if body == "" {
			loc.Remove()
			return nil
		}
		loc.Message().Body = body
		return nil
	})
}

// Remove deletes the message and decrements messagesSent of the acting user,
// who is not necessarily the author.
func (ms *MessageService) Remove(userID, messageID int) error {
	return ms.workspace.Update("message/remove", func(s *models.Snapshot) error {
		loc, err := locateEditable(s, userID, messageID)
		if err != nil {
			return err
		}
		user, err := actor(s, userID)
		if err != nil {
			return err
		}
		loc.Remove()
		user.Stats.AddMessagesSent(-1, ms.now().Unix())
		return nil
	})
}

func paginate(messages []models.Message, start int) (models.MessagePage, error) {
	if start < 0 || start > len(messages) {
		return models.MessagePage{}, ErrStartOutOfRange
	}
	return models.Paginate(messages, start), nil
}

func (ms *MessageService) ListChannel(userID, channelID, start int) (models.MessagePage, error) {
	var page models.MessagePage
	err := ms.workspace.View(func(s *models.Snapshot) error {
		channel := s.Channel(channelID)
		if channel == nil {
			return ErrUnknownChannel
		}
		p, err := paginate(channel.Messages, start)
		if err != nil {
			return err
		}
		if !channel.IsMember(userID) {
			return ErrNotMember
		}
		page = p
		return nil
	})
	return page, err
}

func (ms *MessageService) ListDm(userID, dmID, start int) (models.MessagePage, error) {
	var page models.MessagePage
	err := ms.workspace.View(func(s *models.Snapshot) error {
		dm := s.Dm(dmID)
		if dm == nil {
			return ErrUnknownDm
		}
		p, err := paginate(dm.Messages, start)
		if err != nil {
			return err
		}
		if !dm.IsMember(userID) {
			return ErrNotMember
		}
		page = p
		return nil
	})
	return page, err
}
