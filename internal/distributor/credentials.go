package distributor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Credentials are the opaque secrets a partner session needs. Which fields
// matter depends on the partner's credential rule.
type Credentials struct {
	APIKey   string `json:"api_key,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Credential rules.
const (
	CredentialAPIKey           = "api_key"
	CredentialUsernamePassword = "username_password"
)

// checkCredentials enforces a partner's credential rule.
func checkCredentials(rule, partnerName string, creds Credentials) error {
	switch rule {
	case CredentialAPIKey:
		if strings.TrimSpace(creds.APIKey) == "" {
			return fmt.Errorf("%s requires an API key", partnerName)
		}
	case CredentialUsernamePassword:
		if strings.TrimSpace(creds.Username) == "" || strings.TrimSpace(creds.Password) == "" {
			return fmt.Errorf("%s requires a username and password", partnerName)
		}
	default:
		return fmt.Errorf("unknown credential rule %q", rule)
	}
	return nil
}

// CredentialStore persists partner credentials between sessions.
type CredentialStore interface {
	Save(distributorID string, creds Credentials) error
	Load(distributorID string) (Credentials, bool, error)
	Delete(distributorID string) error
}

// FileCredentialStore keeps one JSON blob per partner under a directory.
// Blobs are stored as-is; encryption at rest is out of scope.
type FileCredentialStore struct {
	dir string
}

// NewFileCredentialStore returns a store rooted at dir.
func NewFileCredentialStore(dir string) *FileCredentialStore {
	return &FileCredentialStore{dir: dir}
}

func (s *FileCredentialStore) path(distributorID string) string {
	return filepath.Join(s.dir, distributorID+".json")
}

// Save writes the credentials blob with owner-only permissions.
func (s *FileCredentialStore) Save(distributorID string, creds Credentials) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("prepare credential dir: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(s.path(distributorID), data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Load reads stored credentials, reporting absence without error.
func (s *FileCredentialStore) Load(distributorID string) (Credentials, bool, error) {
	data, err := os.ReadFile(s.path(distributorID))
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, false, nil
	}
	if err != nil {
		return Credentials{}, false, fmt.Errorf("read credentials: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, false, fmt.Errorf("decode credentials: %w", err)
	}
	return creds, true, nil
}

// Delete removes stored credentials; deleting absent credentials is not an
// error.
func (s *FileCredentialStore) Delete(distributorID string) error {
	err := os.Remove(s.path(distributorID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}
