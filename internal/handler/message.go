package handler

import (
	"github.com/Imactuallyjuan/Terrin-sub000/internal/middleware"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/notify"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService *service.MessageService
	projectService *service.ProjectService
	notifier       notify.Notifier
}

func NewMessageHandler(messageService *service.MessageService, projectService *service.ProjectService, notifier notify.Notifier) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		projectService: projectService,
		notifier:       notifier,
	}
}

// POST /conversations
func (h *MessageHandler) OpenConversation(c *gin.Context) {
	var req struct {
		ProjectID    uint `json:"project_id" binding:"required"`
		ContractorID uint `json:"contractor_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}

	project, err := h.projectService.GetByID(req.ProjectID)
	if err != nil {
		NotFound(c, 40402, "项目不存在")
		return
	}

	// A homeowner opens toward a contractor of their choice (a bidder or
	// the assignee); a contractor always opens toward the project owner.
	user := middleware.GetCurrentUser(c)
	var homeownerID, contractorID uint
	switch {
	case user.ID == project.OwnerID:
		if req.ContractorID == 0 {
			BadRequest(c, 40001, "contractor_id 不能为空")
			return
		}
		homeownerID, contractorID = project.OwnerID, req.ContractorID
	default:
		homeownerID, contractorID = project.OwnerID, user.ID
	}

	conv, err := h.messageService.GetOrCreateConversation(project.ID, homeownerID, contractorID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	conv, err = h.messageService.GetConversation(conv.ID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, conversationJSON(conv))
}

// GET /conversations
func (h *MessageHandler) ListConversations(c *gin.Context) {
	convs, err := h.messageService.ListConversations(middleware.GetCurrentUserID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(convs))
	for i := range convs {
		list = append(list, conversationJSON(&convs[i]))
	}
	Success(c, list)
}

// GET /conversations/:id/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	conv, ok := h.loadConversation(c)
	if !ok {
		return
	}

	page, pageSize := parsePage(c)
	msgs, total, err := h.messageService.ListMessages(conv.ID, page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(msgs))
	for i := range msgs {
		list = append(list, messageJSON(&msgs[i]))
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// POST /conversations/:id/messages
func (h *MessageHandler) Send(c *gin.Context) {
	conv, ok := h.loadConversation(c)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required,max=10000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}

	user := middleware.GetCurrentUser(c)
	msg, err := h.messageService.Send(conv.ID, user.ID, req.Content)
	if err != nil {
		ServiceError(c, err)
		return
	}

	recipient := conv.HomeownerID
	if user.ID == conv.HomeownerID {
		recipient = conv.ContractorID
	}
	_ = h.notifier.NotifyMessageReceived(c.Request.Context(), notify.MessageReceivedEvent{
		MessageID:      msg.ID,
		ConversationID: conv.ID,
		ProjectID:      conv.ProjectID,
		SenderName:     user.Name,
		Preview:        preview(msg.Content, 120),
		RecipientID:    recipient,
	})

	Success(c, messageJSON(msg))
}

// POST /conversations/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	conv, ok := h.loadConversation(c)
	if !ok {
		return
	}
	if err := h.messageService.MarkRead(conv.ID, middleware.GetCurrentUserID(c)); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}

// GET /messages/unread-count
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	Success(c, gin.H{
		"count": h.messageService.UnreadCount(middleware.GetCurrentUserID(c)),
	})
}

func (h *MessageHandler) loadConversation(c *gin.Context) (*model.Conversation, bool) {
	conv, err := h.messageService.GetConversation(parseID(c.Param("id")))
	if err != nil {
		NotFound(c, 40405, "会话不存在")
		return nil, false
	}
	if !middleware.GetCurrentUserIsAdmin(c) && !h.messageService.IsParticipant(conv, middleware.GetCurrentUserID(c)) {
		Forbidden(c, 40302, "非会话参与者，无权访问")
		return nil, false
	}
	return conv, true
}

func conversationJSON(conv *model.Conversation) gin.H {
	data := gin.H{
		"id":         conv.ID,
		"project_id": conv.ProjectID,
		"created_at": conv.CreatedAt,
		"updated_at": conv.UpdatedAt,
	}
	if conv.Project != nil {
		data["project"] = gin.H{
			"id":     conv.Project.ID,
			"title":  conv.Project.Title,
			"status": conv.Project.Status,
		}
	}
	if conv.Homeowner != nil {
		data["homeowner"] = conv.Homeowner.Brief()
	}
	if conv.Contractor != nil {
		data["contractor"] = conv.Contractor.Brief()
	}
	return data
}

func messageJSON(m *model.Message) gin.H {
	data := gin.H{
		"id":              m.ID,
		"conversation_id": m.ConversationID,
		"sender_id":       m.SenderID,
		"content":         m.Content,
		"read_at":         m.ReadAt,
		"created_at":      m.CreatedAt,
	}
	if m.Sender != nil {
		data["sender"] = m.Sender.Brief()
	}
	return data
}

func preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
