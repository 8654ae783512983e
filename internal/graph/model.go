package graph

// Message is one outbound fee letter mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Delivery reports what the Graph API did with a message. MessageID is set
// for drafts; the send endpoint accepts the message without returning one.
type Delivery struct {
	MessageID string
	Mode      string
}

// Delivery modes.
const (
	ModeDraft = "draft"
	ModeSent  = "sent"
)

// messagePayload is the Graph message resource for both drafts and sends.
type messagePayload struct {
	Subject      string      `json:"subject"`
	Body         bodyPayload `json:"body"`
	ToRecipients []recipient `json:"toRecipients"`
	From         *recipient  `json:"from,omitempty"`
}

type bodyPayload struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type emailAddress struct {
	Address string `json:"address"`
}

// sendPayload wraps a message for the sendMail endpoint.
type sendPayload struct {
	Message         messagePayload `json:"message"`
	SaveToSentItems bool           `json:"saveToSentItems"`
}

// draftResponse is the subset of the created draft resource we consume.
type draftResponse struct {
	ID string `json:"id"`
}

// apiError is the Graph error envelope.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
