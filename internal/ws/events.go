package ws

import "github.com/AdityaAryan-1408/FetchQuest-Backend/internal/models"

// Wire protocol. Every frame is a JSON object with a "type" discriminator;
// unknown or malformed frames are answered with an error event and never
// reach business logic.

const (
	evJoinRoom       = "joinRoom"
	evSendMessage    = "sendMessage"
	evLeaveRoom      = "leaveRoom"
	evQuestDetails   = "questDetails"
	evMessageHistory = "messageHistory"
	evReceiveMessage = "receiveMessage"
	evError          = "error"
)

type inboundEvent struct {
	Type     string `json:"type"`
	QuestID  string `json:"questId"`
	UserID   string `json:"userId"`
	SenderID string `json:"senderId"`
	Content  string `json:"content"`
}

type questDetailsEvent struct {
	Type      string          `json:"type"`
	Quest     *models.Quest   `json:"quest"`
	OtherUser *models.Summary `json:"otherUser"`
}

type messageHistoryEvent struct {
	Type     string           `json:"type"`
	Messages []models.Message `json:"messages"`
}

type receiveMessageEvent struct {
	Type    string          `json:"type"`
	Message *models.Message `json:"message"`
}

type errorEvent struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}
