package telegram

// Update is the inbound webhook envelope. Only the fields the pipeline needs
// are decoded; updates without a textual message are acknowledged and dropped.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is one inbound chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// TextMessage returns the chat and textual body, ok=false when the update
// carries no text.
func (u *Update) TextMessage() (chatID int64, text string, ok bool) {
	if u == nil || u.Message == nil || u.Message.Text == "" {
		return 0, "", false
	}
	return u.Message.Chat.ID, u.Message.Text, true
}
