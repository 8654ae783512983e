package model

// Mail delivery modes. Off disables the send endpoint entirely; draft files
// letters in the mailbox for review before anyone presses send; send
// delivers immediately.
const (
	MailModeOff   = "off"
	MailModeDraft = "draft"
	MailModeSend  = "send"
)

// ValidMailMode contains the allowed mail mode values.
var ValidMailMode = map[string]bool{
	MailModeOff:   true,
	MailModeDraft: true,
	MailModeSend:  true,
}

// VersionInfo contains version and feature information for the service.
// Features reports which optional subsystems (mail delivery, scheduled
// dataset refresh) are enabled by configuration.
type VersionInfo struct {
	AppVersion       string          `json:"app_version"`
	DbVersion        string          `json:"db_version"`
	Features         map[string]bool `json:"features"`
	MigrationNeeded  bool            `json:"migration_needed"`
	MigrationMessage *string         `json:"migration_message,omitempty"`
}
