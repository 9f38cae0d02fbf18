package cloudsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mmynk/glasspos/internal/models"
)

const (
	DefaultGistAPI  = "https://api.github.com"
	gistFileName    = "pos_data.json"
	gistDescription = "GL POS Database"
	maxGistBody     = 64 << 20
)

// GistStore keeps the snapshot as the content of one file in a private gist.
type GistStore struct {
	client  *http.Client
	baseURL string
	token   string
	gistID  string
}

var _ Remote = (*GistStore)(nil)

// NewGistStore creates a gist-backed remote. gistID may be empty until Create runs.
func NewGistStore(client *http.Client, baseURL, token, gistID string) *GistStore {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultGistAPI
	}
	return &GistStore{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		gistID:  gistID,
	}
}

type gistFile struct {
	Content   string `json:"content"`
	Truncated bool   `json:"truncated,omitempty"`
	RawURL    string `json:"raw_url,omitempty"`
}

type gistPayload struct {
	ID          string              `json:"id,omitempty"`
	Description string              `json:"description,omitempty"`
	Public      *bool               `json:"public,omitempty"`
	Files       map[string]gistFile `json:"files"`
	Message     string              `json:"message,omitempty"`
}

func snapshotFiles(snap *models.Snapshot) (map[string]gistFile, error) {
	data, err := models.EncodeSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return map[string]gistFile{gistFileName: {Content: string(data)}}, nil
}

// Create makes a new private gist holding snap and returns its ID.
func (g *GistStore) Create(ctx context.Context, snap *models.Snapshot) (string, error) {
	files, err := snapshotFiles(snap)
	if err != nil {
		return "", err
	}
	private := false
	var out gistPayload
	err = g.do(ctx, http.MethodPost, "/gists", gistPayload{
		Description: gistDescription,
		Public:      &private,
		Files:       files,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", rejected(http.StatusOK, "response carried no gist id")
	}
	g.gistID = out.ID
	return out.ID, nil
}

// Push overwrites the gist file with snap.
func (g *GistStore) Push(ctx context.Context, snap *models.Snapshot) error {
	if g.gistID == "" {
		return ErrNotConfigured
	}
	files, err := snapshotFiles(snap)
	if err != nil {
		return err
	}
	return g.do(ctx, http.MethodPatch, "/gists/"+g.gistID, gistPayload{Files: files}, nil)
}

// Pull fetches and validates the snapshot stored in the gist.
func (g *GistStore) Pull(ctx context.Context) (*models.Snapshot, error) {
	if g.gistID == "" {
		return nil, ErrNotConfigured
	}
	var out gistPayload
	if err := g.do(ctx, http.MethodGet, "/gists/"+g.gistID, nil, &out); err != nil {
		return nil, err
	}
	file, ok := out.Files[gistFileName]
	if !ok {
		return nil, fmt.Errorf("%w: gist has no %s", models.ErrCorruptData, gistFileName)
	}

	content := []byte(file.Content)
	if file.Truncated && file.RawURL != "" {
		raw, err := g.fetchRaw(ctx, file.RawURL)
		if err != nil {
			return nil, err
		}
		content = raw
	}
	return models.DecodeSnapshot(content)
}

func (g *GistStore) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+g.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (g *GistStore) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := g.newRequest(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach gist api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxGistBody))
	if err != nil {
		return fmt.Errorf("failed to read gist response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg gistPayload
		_ = json.Unmarshal(data, &msg)
		return rejected(resp.StatusCode, msg.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", models.ErrCorruptData, err)
	}
	return nil
}

func (g *GistStore) fetchRaw(ctx context.Context, url string) ([]byte, error) {
	req, err := g.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch raw gist content: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, rejected(resp.StatusCode, "raw content unavailable")
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxGistBody))
}
