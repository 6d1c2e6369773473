package connect

// MessageType tags the messages the callback controller hands back to
// the orchestrator. Each message is consumed at most once.
type MessageType string

const (
	MessageInstallationComplete MessageType = "installation-complete"
	MessageOAuthSuccess         MessageType = "oauth-success"
	MessageOAuthError           MessageType = "oauth-error"
)

type Message struct {
	Type           MessageType
	Origin         string
	InstallationID string
	Code           string
	State          string
	RawQuery       string
	Err            string
}
