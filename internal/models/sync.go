package models

// SyncProvider names the remote blob store used for replication.
type SyncProvider string

const (
	ProviderGist   SyncProvider = "gist"
	ProviderSheets SyncProvider = "sheets"
)

// RemoteSyncConfig holds the credential and remote identifier for sync.
// It is stored under its own key, separate from the ledger document.
// The zero value means sync is disabled.
type RemoteSyncConfig struct {
	Provider    SyncProvider `json:"provider"`
	Token       string       `json:"token,omitempty"`
	GistID      string       `json:"gistId,omitempty"`
	EndpointURL string       `json:"endpointUrl,omitempty"`
}

// Enabled reports whether the configuration is complete enough to push.
func (c RemoteSyncConfig) Enabled() bool {
	switch c.Provider {
	case ProviderGist:
		return c.Token != "" && c.GistID != ""
	case ProviderSheets:
		return c.EndpointURL != ""
	default:
		return false
	}
}
