package models

import (
	"sort"
	"strings"
)

type Dm struct {
	ID       int       `json:"dmId"`
	Name     string    `json:"name"`
	Owner    *Member   `json:"owner,omitempty"`
	Members  []Member  `json:"members"`
	Messages []Message `json:"messages"`
}

type DmSummary struct {
	ID   int    `json:"dmId"`
	Name string `json:"name"`
}

// DmName joins the member handles in ascending order.
func DmName(members []Member) string {
	handles := make([]string, 0, len(members))
	for _, m := range members {
		handles = append(handles, m.Handle)
	}
	sort.Strings(handles)
	return strings.Join(handles, ", ")
}

func NewDm(id int, creator Member, invitees []Member) *Dm {
	owner := creator
	members := append([]Member{creator}, invitees...)
	return &Dm{
		ID:       id,
		Name:     DmName(members),
		Owner:    &owner,
		Members:  members,
		Messages: []Message{},
	}
}

func (d *Dm) Summary() DmSummary {
	return DmSummary{ID: d.ID, Name: d.Name}
}

func (d *Dm) IsMember(userID int) bool {
	return containsMember(d.Members, userID)
}

func (d *Dm) IsOwner(userID int) bool {
	return d.Owner != nil && d.Owner.ID == userID
}

// RemoveMember drops the user and clears the owner when the owner leaves.
func (d *Dm) RemoveMember(userID int) {
	d.Members = withoutMember(d.Members, userID)
	if d.IsOwner(userID) {
		d.Owner = nil
	}
}

func (d *Dm) PrependMessage(msg Message) {
	d.Messages = prependMessage(d.Messages, msg)
}
