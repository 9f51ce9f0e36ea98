package command

// NewCommands returns the chat commands bound to conv.
func NewCommands(conv Conversation) []Command {
	return []Command{
		NewSourcesCommand(conv),
		NewNewConversationCommand(conv),
		NewMemoryCommand(conv),
	}
}
