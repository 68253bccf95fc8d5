package services

// ChatService answers the /chat echo endpoint.
type ChatService struct{}

func NewChatService() *ChatService {
	return &ChatService{}
}

func (s *ChatService) Reply(message string) string {
	return "You said: " + message
}
