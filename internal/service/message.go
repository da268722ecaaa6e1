package service

import (
	"fmt"
	"time"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"gorm.io/gorm"
)

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// GetOrCreateConversation returns the conversation between a project's
// homeowner and a contractor, creating it on first contact.
func (s *MessageService) GetOrCreateConversation(projectID, homeownerID, contractorID uint) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.Where("project_id = ? AND homeowner_id = ? AND contractor_id = ?",
		projectID, homeownerID, contractorID).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	conv = model.Conversation{
		ProjectID:    projectID,
		HomeownerID:  homeownerID,
		ContractorID: contractorID,
	}
	if err := s.db.Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *MessageService) GetConversation(id uint) (*model.Conversation, error) {
	var conv model.Conversation
	if err := s.db.Preload("Homeowner").Preload("Contractor").Preload("Project").
		First(&conv, id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *MessageService) ListConversations(userID uint) ([]model.Conversation, error) {
	var convs []model.Conversation
	if err := s.db.Where("homeowner_id = ? OR contractor_id = ?", userID, userID).
		Preload("Homeowner").Preload("Contractor").Preload("Project").
		Order("updated_at desc").Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

// IsParticipant reports whether the user belongs to the conversation.
func (s *MessageService) IsParticipant(conv *model.Conversation, userID uint) bool {
	return conv.HomeownerID == userID || conv.ContractorID == userID
}

// Send persists a message. Delivery to connected peers happens after the
// write via the notifier; the stored row is the source of truth and clients
// refetch on reconnect.
func (s *MessageService) Send(conversationID, senderID uint, content string) (*model.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("40001:消息内容不能为空")
	}

	msg := &model.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		// Bump the conversation so it sorts to the top of the inbox.
		return tx.Model(&model.Conversation{}).Where("id = ?", conversationID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Sender").First(msg, msg.ID)
	return msg, nil
}

func (s *MessageService) ListMessages(conversationID uint, page, pageSize int) ([]model.Message, int64, error) {
	query := s.db.Model(&model.Message{}).Where("conversation_id = ?", conversationID)

	var total int64
	query.Count(&total)

	var msgs []model.Message
	if err := query.Preload("Sender").Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&msgs).Error; err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

// MarkRead stamps every unread message sent by the other participant.
func (s *MessageService) MarkRead(conversationID, readerID uint) error {
	now := time.Now()
	return s.db.Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND read_at IS NULL", conversationID, readerID).
		Update("read_at", &now).Error
}

func (s *MessageService) UnreadCount(userID uint) int64 {
	var count int64
	s.db.Model(&model.Message{}).
		Joins("JOIN conversations ON messages.conversation_id = conversations.id").
		Where("(conversations.homeowner_id = ? OR conversations.contractor_id = ?) AND messages.sender_id != ? AND messages.read_at IS NULL",
			userID, userID, userID).
		Count(&count)
	return count
}
