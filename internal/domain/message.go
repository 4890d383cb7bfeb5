package domain

import "time"

type Message struct {
	ID          string     `json:"id" db:"id"`
	SenderID    int        `json:"sender_id" db:"sender_id"`
	RecipientID int        `json:"recipient_id" db:"recipient_id"`
	Body        string     `json:"body" db:"body"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ReadAt      *time.Time `json:"read_at" db:"read_at"`
}

func (m *Message) HasUser(userID int) bool {
	return m.SenderID == userID || m.RecipientID == userID
}

func (m *Message) OtherUserID(userID int) (int, bool) {
	if m.SenderID == userID {
		return m.RecipientID, true
	}
	if m.RecipientID == userID {
		return m.SenderID, true
	}
	return 0, false
}
