package models

type Session struct {
	ID        string `json:"sessionId"`
	UserID    int    `json:"uId"`
	CreatedAt int64  `json:"createdAt"`
}
