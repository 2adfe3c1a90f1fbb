package models

const (
	MaxMessageLength = 1000
	PageSize         = 50
	// EndOfMessages marks the last page of a message listing.
	EndOfMessages = -1
)

type Message struct {
	ID       int    `json:"messageId"`
	UserID   int    `json:"uId"`
	Body     string `json:"message"`
	TimeSent int64  `json:"timeSent"`
}

type MessagePage struct {
	Messages []Message `json:"messages"`
	Start    int       `json:"start"`
	End      int       `json:"end"`
}

// Paginate returns up to PageSize messages starting at start. The caller
// validates start against len(messages).
func Paginate(messages []Message, start int) MessagePage {
	end := start + PageSize
	page := MessagePage{Start: start, End: end}
	if end >= len(messages) {
		end = len(messages)
		page.End = EndOfMessages
	}
	page.Messages = make([]Message, end-start)
	copy(page.Messages, messages[start:end])
	return page
}

func prependMessage(messages []Message, msg Message) []Message {
	return append([]Message{msg}, messages...)
}

func indexOfMessage(messages []Message, id int) int {
	for i, m := range messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func removeMessageAt(messages []Message, idx int) []Message {
	return append(messages[:idx], messages[idx+1:]...)
}
