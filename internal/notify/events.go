package notify

// BidReceivedEvent is sent to the project owner when a contractor bids.
type BidReceivedEvent struct {
	BidID          uint   `json:"bid_id"`
	ProjectID      uint   `json:"project_id"`
	ProjectTitle   string `json:"project_title"`
	ContractorName string `json:"contractor_name"`
	Amount         int64  `json:"amount"`
	OwnerID        uint   `json:"-"`
}

// BidAcceptedEvent is sent to the winning contractor.
type BidAcceptedEvent struct {
	BidID        uint   `json:"bid_id"`
	ProjectID    uint   `json:"project_id"`
	ProjectTitle string `json:"project_title"`
	OwnerName    string `json:"owner_name"`
	ContractorID uint   `json:"-"`
}

// MilestoneCompletedEvent is sent to the project owner when the contractor
// marks a milestone complete (and vice versa on revert).
type MilestoneCompletedEvent struct {
	MilestoneID  uint   `json:"milestone_id"`
	ProjectID    uint   `json:"project_id"`
	ProjectTitle string `json:"project_title"`
	Title        string `json:"title"`
	Completed    bool   `json:"completed"`
	Completion   int    `json:"completion"`
	RecipientID  uint   `json:"-"`
}

// MessageReceivedEvent is sent to the other conversation participant.
type MessageReceivedEvent struct {
	MessageID      uint   `json:"message_id"`
	ConversationID uint   `json:"conversation_id"`
	ProjectID      uint   `json:"project_id"`
	SenderName     string `json:"sender_name"`
	Preview        string `json:"preview"`
	RecipientID    uint   `json:"-"`
}

// PaymentReleasedEvent is sent to the contractor being paid out.
type PaymentReleasedEvent struct {
	PaymentID    uint   `json:"payment_id"`
	ProjectID    uint   `json:"project_id"`
	ProjectTitle string `json:"project_title"`
	Amount       int64  `json:"amount"`
	PayeeID      uint   `json:"-"`
}
