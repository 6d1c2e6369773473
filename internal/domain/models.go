package domain

type Account struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type Repository struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	CloneURL      string `json:"clone_url"`
	SSHURL        string `json:"ssh_url"`
	HTMLURL       string `json:"html_url"`
	Private       bool   `json:"private"`
	Description   string `json:"description"`
	UpdatedAt     string `json:"updated_at"`
	DefaultBranch string `json:"default_branch"`
}

type Connection struct {
	AccessToken  string       `json:"access_token"`
	Username     string       `json:"username"`
	Repositories []Repository `json:"repositories"`
	SelectedRepo string       `json:"selected_repo"`
}

// Valid reports whether every field of the connection is present and
// the selected repository names one of the fetched repositories. A
// connection that fails this check is treated as absent, never as a
// partially usable one.
func (c *Connection) Valid() bool {
	if c == nil {
		return false
	}
	if c.AccessToken == "" || c.Username == "" || len(c.Repositories) == 0 {
		return false
	}
	for _, repo := range c.Repositories {
		if repo.FullName == c.SelectedRepo {
			return true
		}
	}
	return false
}

func (c *Connection) Repository(fullName string) *Repository {
	if c == nil {
		return nil
	}
	for i := range c.Repositories {
		if c.Repositories[i].FullName == fullName {
			return &c.Repositories[i]
		}
	}
	return nil
}

// AuthorizationSession correlates one connect attempt with its
// callback. State is the CSRF token generated at connect time;
// InstallationID is written by the callback controller once the app
// installation leg completes.
type AuthorizationSession struct {
	State          string
	InstallationID string
}
