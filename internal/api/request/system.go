package request

// MailTokenRequest is the body for storing the Microsoft Graph mail token.
type MailTokenRequest struct {
	Token string `json:"token"`
}
