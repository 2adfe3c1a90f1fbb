package models

// Snapshot is the whole workspace as persisted by a gateway.
type Snapshot struct {
	Revision int64      `json:"revision"`
	Users    []*User    `json:"users"`
	Channels []*Channel `json:"channels"`
	Dms      []*Dm      `json:"dms"`
	Sessions []*Session `json:"sessions"`
}

type Counts struct {
	Users    int `json:"users"`
	Channels int `json:"channels"`
	Dms      int `json:"dms"`
	Messages int `json:"messages"`
	Sessions int `json:"sessions"`
}

// MessageLocation points at a message inside either a channel or a DM.
type MessageLocation struct {
	Channel *Channel
	Dm      *Dm
	Index   int
}

func (l MessageLocation) Message() *Message {
	if l.Channel != nil {
		return &l.Channel.Messages[l.Index]
	}
	return &l.Dm.Messages[l.Index]
}

func (l MessageLocation) IsOwner(userID int) bool {
	if l.Channel != nil {
		return l.Channel.IsOwner(userID)
	}
	return l.Dm.IsOwner(userID)
}

func (l MessageLocation) Remove() {
	if l.Channel != nil {
		l.Channel.Messages = removeMessageAt(l.Channel.Messages, l.Index)
		return
	}
	l.Dm.Messages = removeMessageAt(l.Dm.Messages, l.Index)
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:    []*User{},
		Channels: []*Channel{},
		Dms:      []*Dm{},
		Sessions: []*Session{},
	}
}

// Normalize replaces nil collections left by a decoder with empty ones.
func (s *Snapshot) Normalize() *Snapshot {
	if s.Users == nil {
		s.Users = []*User{}
	}
	if s.Channels == nil {
		s.Channels = []*Channel{}
	}
	if s.Dms == nil {
		s.Dms = []*Dm{}
	}
	if s.Sessions == nil {
		s.Sessions = []*Session{}
	}
	for _, c := range s.Channels {
		if c.OwnerMembers == nil {
			c.OwnerMembers = []Member{}
		}
		if c.AllMembers == nil {
			c.AllMembers = []Member{}
		}
		if c.Messages == nil {
			c.Messages = []Message{}
		}
		if c.Standup.Messages == nil {
			c.Standup.Messages = []StandupMessage{}
		}
	}
	for _, d := range s.Dms {
		if d.Members == nil {
			d.Members = []Member{}
		}
		if d.Messages == nil {
			d.Messages = []Message{}
		}
	}
	return s
}

func (s *Snapshot) User(id int) *User {
	for _, u := range s.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Snapshot) UserByEmail(email string) *User {
	for _, u := range s.Users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *Snapshot) UserByHandle(handle string) *User {
	for _, u := range s.Users {
		if u.Handle == handle {
			return u
		}
	}
	return nil
}

func (s *Snapshot) Channel(id int) *Channel {
	for _, c := range s.Channels {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Snapshot) Dm(id int) *Dm {
	for _, d := range s.Dms {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (s *Snapshot) Session(id string) *Session {
	for _, sess := range s.Sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

func (s *Snapshot) RemoveSession(id string) bool {
	for i, sess := range s.Sessions {
		if sess.ID == id {
			s.Sessions = append(s.Sessions[:i], s.Sessions[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveUserSessions revokes every session of the user and reports how many
// were dropped.
func (s *Snapshot) RemoveUserSessions(userID int) int {
	kept := s.Sessions[:0]
	for _, sess := range s.Sessions {
		if sess.UserID != userID {
			kept = append(kept, sess)
		}
	}
	removed := len(s.Sessions) - len(kept)
	s.Sessions = kept
	return removed
}

func (s *Snapshot) RemoveDm(id int) {
	for i, d := range s.Dms {
		if d.ID == id {
			s.Dms = append(s.Dms[:i], s.Dms[i+1:]...)
			return
		}
	}
}

func (s *Snapshot) NextUserID() int {
	next := 1
	for _, u := range s.Users {
		if u.ID >= next {
			next = u.ID + 1
		}
	}
	return next
}

func (s *Snapshot) NextChannelID() int {
	next := 1
	for _, c := range s.Channels {
		if c.ID >= next {
			next = c.ID + 1
		}
	}
	return next
}

func (s *Snapshot) NextDmID() int {
	next := 1
	for _, d := range s.Dms {
		if d.ID >= next {
			next = d.ID + 1
		}
	}
	return next
}

func (s *Snapshot) GlobalOwnerCount() int {
	n := 0
	for _, u := range s.Users {
		if u.IsGlobalOwner() {
			n++
		}
	}
	return n
}

func (s *Snapshot) MessageCount() int {
	n := 0
	for _, c := range s.Channels {
		n += len(c.Messages)
	}
	for _, d := range s.Dms {
		n += len(d.Messages)
	}
	return n
}

func (s *Snapshot) Counts() Counts {
	return Counts{
		Users:    len(s.Users),
		Channels: len(s.Channels),
		Dms:      len(s.Dms),
		Messages: s.MessageCount(),
		Sessions: len(s.Sessions),
	}
}

// MessageIDs calls fn with every message id in the workspace.
func (s *Snapshot) MessageIDs(fn func(id int)) {
	for _, c := range s.Channels {
		for _, m := range c.Messages {
			fn(m.ID)
		}
	}
	for _, d := range s.Dms {
		for _, m := range d.Messages {
			fn(m.ID)
		}
	}
}

// LocateMessage searches channels first and then DMs, skipping any container
// the user is not a member of.
func (s *Snapshot) LocateMessage(userID, messageID int) (MessageLocation, bool) {
	for _, c := range s.Channels {
		if !c.IsMember(userID) {
			continue
		}
		if idx := indexOfMessage(c.Messages, messageID); idx >= 0 {
			return MessageLocation{Channel: c, Index: idx}, true
		}
	}
	for _, d := range s.Dms {
		if !d.IsMember(userID) {
			continue
		}
		if idx := indexOfMessage(d.Messages, messageID); idx >= 0 {
			return MessageLocation{Dm: d, Index: idx}, true
		}
	}
	return MessageLocation{}, false
}

// ActiveUsers counts users that belong to at least one channel or DM.
func (s *Snapshot) ActiveUsers() int {
	active := make(map[int]struct{}, len(s.Users))
	for _, c := range s.Channels {
		for _, m := range c.AllMembers {
			active[m.ID] = struct{}{}
		}
	}
	for _, d := range s.Dms {
		for _, m := range d.Members {
			active[m.ID] = struct{}{}
		}
	}
	n := 0
	for _, u := range s.Users {
		if _, ok := active[u.ID]; ok {
			n++
		}
	}
	return n
}
