package connect

import "errors"

var (
	ErrNotConfigured          = errors.New("GitHub client ID is not configured")
	ErrBrowserBlocked         = errors.New("failed to open browser window")
	ErrInstallationIncomplete = errors.New("GitHub App installation was not completed")
	ErrAuthorizationClosed    = errors.New("authorization window closed before completion")
	ErrAuthorizationFailed    = errors.New("failed to authorize with GitHub")
	ErrConnectionFailed       = errors.New("failed to connect to GitHub")
	ErrNotConnected           = errors.New("no active GitHub connection")
	ErrUnknownRepository      = errors.New("repository is not part of this connection")
)
