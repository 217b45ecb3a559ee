package chat

// Turn is one user input paired with the generated reply.
type Turn struct {
	UserText string `json:"user_text"`
	BotText  string `json:"bot_text"`
}
