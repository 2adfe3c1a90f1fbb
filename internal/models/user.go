package models

type Permission int

const (
	PermissionGlobalOwner Permission = 1
	PermissionMember      Permission = 2
)

func (p Permission) Valid() bool {
	return p == PermissionGlobalOwner || p == PermissionMember
}

type ChannelsJoined struct {
	NumChannelsJoined int   `json:"numChannelsJoined"`
	TimeStamp         int64 `json:"timeStamp"`
}

type DmsJoined struct {
	NumDmsJoined int   `json:"numDmsJoined"`
	TimeStamp    int64 `json:"timeStamp"`
}

type MessagesSent struct {
	NumMessagesSent int   `json:"numMessagesSent"`
	TimeStamp       int64 `json:"timeStamp"`
}

// UserStats holds three append-only timelines. Entries are never rewritten,
// a change in a counter appends a new snapshot of its value.
type UserStats struct {
	ChannelsJoined []ChannelsJoined `json:"channelsJoined"`
	DmsJoined      []DmsJoined      `json:"dmsJoined"`
	MessagesSent   []MessagesSent   `json:"messagesSent"`
}

func NewUserStats(ts int64) UserStats {
	return UserStats{
		ChannelsJoined: []ChannelsJoined{{NumChannelsJoined: 0, TimeStamp: ts}},
		DmsJoined:      []DmsJoined{{NumDmsJoined: 0, TimeStamp: ts}},
		MessagesSent:   []MessagesSent{{NumMessagesSent: 0, TimeStamp: ts}},
	}
}

func (s *UserStats) LatestChannelsJoined() int {
	if len(s.ChannelsJoined) == 0 {
		return 0
	}
	return s.ChannelsJoined[len(s.ChannelsJoined)-1].NumChannelsJoined
}

func (s *UserStats) LatestDmsJoined() int {
	if len(s.DmsJoined) == 0 {
		return 0
	}
	return s.DmsJoined[len(s.DmsJoined)-1].NumDmsJoined
}

func (s *UserStats) LatestMessagesSent() int {
	if len(s.MessagesSent) == 0 {
		return 0
	}
	return s.MessagesSent[len(s.MessagesSent)-1].NumMessagesSent
}

func (s *UserStats) AddChannelsJoined(delta int, ts int64) {
	s.ChannelsJoined = append(s.ChannelsJoined, ChannelsJoined{
		NumChannelsJoined: s.LatestChannelsJoined() + delta,
		TimeStamp:         ts,
	})
}

func (s *UserStats) AddDmsJoined(delta int, ts int64) {
	s.DmsJoined = append(s.DmsJoined, DmsJoined{
		NumDmsJoined: s.LatestDmsJoined() + delta,
		TimeStamp:    ts,
	})
}

func (s *UserStats) AddMessagesSent(delta int, ts int64) {
	s.MessagesSent = append(s.MessagesSent, MessagesSent{
		NumMessagesSent: s.LatestMessagesSent() + delta,
		TimeStamp:       ts,
	})
}

type User struct {
	ID         int        `json:"uId"`
	Handle     string     `json:"handleStr"`
	NameFirst  string     `json:"nameFirst"`
	NameLast   string     `json:"nameLast"`
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	Permission Permission `json:"permission"`
	Stats      UserStats  `json:"userStats"`
}

func (u *User) IsGlobalOwner() bool {
	return u.Permission == PermissionGlobalOwner
}

// Member returns the membership record embedded into channels and DMs.
// It is a copy: later profile changes do not reach it.
func (u *User) Member() Member {
	return Member{
		ID:        u.ID,
		Email:     u.Email,
		NameFirst: u.NameFirst,
		NameLast:  u.NameLast,
		Handle:    u.Handle,
	}
}

type Member struct {
	ID        int    `json:"uId"`
	Email     string `json:"email"`
	NameFirst string `json:"nameFirst"`
	NameLast  string `json:"nameLast"`
	Handle    string `json:"handleStr"`
}

func containsMember(members []Member, id int) bool {
	for _, m := range members {
		if m.ID == id {
			return true
		}
	}
	return false
}

func withoutMember(members []Member, id int) []Member {
	out := members[:0]
	for _, m := range members {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}
