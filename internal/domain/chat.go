package domain

// AttachmentKind tags the chat attachment variant.
type AttachmentKind string

const (
	AttachmentText        AttachmentKind = "text"
	AttachmentProductList AttachmentKind = "product_list"
	AttachmentOffer       AttachmentKind = "offer"
)

// ChatAttachment is a tagged variant; exactly the fields for its kind are
// set. Text attachments carry nothing beyond the reply itself.
type ChatAttachment struct {
	Kind     AttachmentKind `json:"kind"`
	Products []Product      `json:"products,omitempty"`
	Offer    *Offer         `json:"offer,omitempty"`
}

// ChatReply is the dispatcher's response for one inbound message.
type ChatReply struct {
	Intent      Intent           `json:"intent"`
	ReplyText   string           `json:"reply_text"`
	Attachments []ChatAttachment `json:"attachments,omitempty"`
}

// SessionContext is the per-session conversational state. It is passed into
// and returned from dispatch; there is no process-global bot state.
type SessionContext struct {
	SessionID     string `json:"session_id"`
	CustomerID    string `json:"customer_id,omitempty"`
	LastIntent    Intent `json:"last_intent,omitempty"`
	LastOfferCode string `json:"last_offer_code,omitempty"`
	MessageCount  int    `json:"message_count"`
}
