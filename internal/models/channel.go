package models

const (
	MinChannelNameLength = 1
	MaxChannelNameLength = 20
)

type StandupMessage struct {
	Handle string `json:"userHandle"`
	Body   string `json:"message"`
}

type Standup struct {
	IsActive   bool             `json:"isActive"`
	TimeFinish *int64           `json:"timeFinish"`
	StartedBy  int              `json:"startedBy"`
	Messages   []StandupMessage `json:"standupMessages"`
}

func (s *Standup) Reset() {
	s.IsActive = false
	s.TimeFinish = nil
	s.StartedBy = 0
	s.Messages = []StandupMessage{}
}

type Channel struct {
	ID           int       `json:"channelId"`
	Name         string    `json:"name"`
	IsPublic     bool      `json:"isPublic"`
	OwnerMembers []Member  `json:"ownerMembers"`
	AllMembers   []Member  `json:"allMembers"`
	Messages     []Message `json:"messages"`
	Standup      Standup   `json:"standup"`
}

type ChannelSummary struct {
	ID   int    `json:"channelId"`
	Name string `json:"name"`
}

func NewChannel(id int, name string, isPublic bool, creator Member) *Channel {
	return &Channel{
		ID:           id,
		Name:         name,
		IsPublic:     isPublic,
		OwnerMembers: []Member{creator},
		AllMembers:   []Member{creator},
		Messages:     []Message{},
		Standup:      Standup{Messages: []StandupMessage{}},
	}
}

func (c *Channel) Summary() ChannelSummary {
	return ChannelSummary{ID: c.ID, Name: c.Name}
}

func (c *Channel) IsMember(userID int) bool {
	return containsMember(c.AllMembers, userID)
}

func (c *Channel) IsOwner(userID int) bool {
	return containsMember(c.OwnerMembers, userID)
}

func (c *Channel) AddMember(m Member) {
	c.AllMembers = append(c.AllMembers, m)
}

func (c *Channel) AddOwner(m Member) {
	c.OwnerMembers = append(c.OwnerMembers, m)
}

func (c *Channel) RemoveOwner(userID int) {
	c.OwnerMembers = withoutMember(c.OwnerMembers, userID)
}

// RemoveMember drops the user from both member sets, keeping owners a subset
// of all members.
func (c *Channel) RemoveMember(userID int) {
	c.AllMembers = withoutMember(c.AllMembers, userID)
	c.OwnerMembers = withoutMember(c.OwnerMembers, userID)
}

func (c *Channel) PrependMessage(msg Message) {
	c.Messages = prependMessage(c.Messages, msg)
}
