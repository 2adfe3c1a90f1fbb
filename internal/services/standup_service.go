package services

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"time"
	"treats/internal/models"
	"treats/internal/providers"
	"treats/internal/scheduler/interfaces"
)

type StandupStatus struct {
	IsActive   bool   `json:"isActive"`
	TimeFinish *int64 `json:"timeFinish"`
}

type StandupServiceInterface interface {
	Start(userID, channelID, length int) (int64, error)
	Send(userID, channelID int, body string) error
	Status(userID, channelID int) (StandupStatus, error)
	Flush(channelID int) error
	RearmActive() (int, error)
}

// errStandupIdle aborts a flush without saving.
var errStandupIdle = errors.New("standup is idle")

// maxStandupSeconds is the longest standup whose length still fits a
// time.Duration.
const maxStandupSeconds = math.MaxInt64 / int64(time.Second)

// secondsToDelay converts a countdown to a timer delay, saturating instead of
// overflowing.
func secondsToDelay(seconds int64) time.Duration {
	if seconds > maxStandupSeconds {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(seconds) * time.Second
}

type StandupService struct {
	workspace WorkspaceInterface
	timers    interfaces.TimersInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	now       func() time.Time
	intn      func(n int) int
}

func NewStandupService(workspace WorkspaceInterface, timers interfaces.TimersInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) StandupServiceInterface {
	return &StandupService{
		workspace: workspace,
		timers:    timers,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
		intn:      rand.IntN,
	}
}

func (ss *StandupService) schedule(channelID int, delay time.Duration) {
	ss.timers.Schedule(channelID, delay, func() {
		if err := ss.Flush(channelID); err != nil {
			ss.logger.Errorf(providers.TypeStandup, "Standup flush for channel %d failed: %s", channelID, err)
		}
	})
}

func (ss *StandupService) Start(userID, channelID, length int) (int64, error) {
	var finish int64
	err := ss.workspace.Update("standup/start", func(s *models.Snapshot) error {
		channel := s.Channel(channelID)
		if channel == nil {
			return ErrUnknownChannel
		}
		if length < 0 {
			return ErrNegativeDuration
		}
		if int64(length) > maxStandupSeconds {
			return ErrDurationTooLong
		}
		if channel.Standup.IsActive {
			return ErrStandupActive
		}
		if !channel.IsMember(userID) {
			return ErrNotMember
		}
		finish = ss.now().Unix() + int64(length)
		channel.Standup = models.Standup{
			IsActive:   true,
			TimeFinish: &finish,
			StartedBy:  userID,
			Messages:   []models.StandupMessage{},
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	ss.schedule(channelID, secondsToDelay(int64(length)))
	ss.logger.Infof(providers.TypeStandup, "Standup started in channel %d by user %d, finishes at %d", channelID, userID, finish)
	return finish, nil
}

func (ss *StandupService) Send(userID, channelID int, body string) error {
	return ss.workspace.Update("standup/send", func(s *models.Snapshot) error {
		channel := s.Channel(channelID)
		if channel == nil {
			return ErrUnknownChannel
		}
		if err := checkBody(body, true); err != nil {
			return err
		}
		if !channel.Standup.IsActive {
			return ErrStandupNotActive
		}
		if !channel.IsMember(userID) {
			return ErrNotMember
		}
		user, err := actor(s, userID)
		if err != nil {
			return err
		}
		channel.Standup.Messages = append(channel.Standup.Messages, models.StandupMessage{
			Handle: user.Handle,
			Body:   body,
		})
		return nil
	})
}

func (ss *StandupService) Status(userID, channelID int) (StandupStatus, error) {
	var status StandupStatus
	err := ss.workspace.View(func(s *models.Snapshot) error {
		channel := s.Channel(channelID)
		if channel == nil {
			return ErrUnknownChannel
		}
		if !channel.IsMember(userID) {
			return ErrNotMember
		}
		status = StandupStatus{
			IsActive:   channel.Standup.IsActive,
			TimeFinish: channel.Standup.TimeFinish,
		}
		return nil
	})
	return status, err
}

// Flush posts the buffered lines as one message from the user who started the
// standup and returns the channel to idle. Nothing is posted for an empty
// buffer. The message is posted even if the starter has left the channel.
func (ss *StandupService) Flush(channelID int) error {
	posted := false
	err := ss.workspace.Update("standup/flush", func(s *models.Snapshot) error {
		channel := s.Channel(channelID)
		if channel == nil || !channel.Standup.IsActive {
			return errStandupIdle
		}
		if len(channel.Standup.Messages) > 0 {
			lines := make([]string, 0, len(channel.Standup.Messages))
			for _, m := range channel.Standup.Messages {
				lines = append(lines, m.Handle+": "+m.Body)
			}
			if author := s.User(channel.Standup.StartedBy); author != nil {
				postMessage(s, author, channel.PrependMessage, strings.Join(lines, "\n"), ss.now().Unix(), ss.intn)
				posted = true
			} else {
				ss.logger.Warnf(providers.TypeStandup, "Standup starter %d of channel %d no longer exists, dropping buffer", channel.Standup.StartedBy, channelID)
			}
		}
		channel.Standup.Reset()
		return nil
	})
	if errors.Is(err, errStandupIdle) {
		return nil
	}
	if err != nil {
		return err
	}
	if posted {
		ss.metrics.IncStandupsFlushed()
	}
	ss.logger.Infof(providers.TypeStandup, "Standup in channel %d finished, posted=%t", channelID, posted)
	return nil
}

// RearmActive brings the timers in line with the snapshot: every active
// standup without a pending flush gets one, and pending flushes of standups
// that went idle are cancelled. Standups whose finish time has passed flush
// right away. It returns the number of standups armed.
func (ss *StandupService) RearmActive() (int, error) {
	type pending struct {
		channelID int
		finish    int64
	}
	var active []pending
	var idle []int
	err := ss.workspace.View(func(s *models.Snapshot) error {
		for _, c := range s.Channels {
			if c.Standup.IsActive && c.Standup.TimeFinish != nil {
				active = append(active, pending{channelID: c.ID, finish: *c.Standup.TimeFinish})
			} else {
				idle = append(idle, c.ID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, channelID := range idle {
		if ss.timers.Cancel(channelID) {
			ss.logger.Infof(providers.TypeStandup, "Cancelled flush of idle standup in channel %d", channelID)
		}
	}

	armed := 0
	now := ss.now().Unix()
	for _, p := range active {
		if ss.timers.Pending(p.channelID) {
			continue
		}
		ss.schedule(p.channelID, secondsToDelay(p.finish-now))
		ss.logger.Infof(providers.TypeStandup, "Re-armed standup in channel %d finishing at %d", p.channelID, p.finish)
		armed++
	}
	return armed, nil
}
