// Package client provides the Filebox HTTP API client with retry and auth.
package client

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SDRoan/Filebox-sub001/internal/logging"
	"github.com/SDRoan/Filebox-sub001/pkg/models"
	"github.com/SDRoan/Filebox-sub001/pkg/protocol"
	"github.com/SDRoan/Filebox-sub001/pkg/retry"
)

// Client provides the Filebox HTTP API client with retry and auth.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	retryConfig retry.Config

	mu        sync.RWMutex
	online    bool
	authToken string
}

// Config holds client configuration.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	RetryConfig retry.Config
	AuthToken   string
}

// New creates a new client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryConfig.MaxAttempts == 0 {
		cfg.RetryConfig = retry.DefaultConfig()
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		retryConfig: cfg.RetryConfig,
		online:      true,
		authToken:   cfg.AuthToken,
	}
}

// SetAuthToken sets the bearer token for requests.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

func (c *Client) applyAuth(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

// IsOnline returns true if the server is reachable.
func (c *Client) IsOnline() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.online
}

func (c *Client) setOnline(online bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.online != online {
		if online {
			logging.Info("server is back online")
		} else {
			logging.Warn("server is offline")
		}
	}
	c.online = online
}

// Ping checks if the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setOnline(false)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.setOnline(false)
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	c.setOnline(true)
	return nil
}

// apiError converts a non-2xx response into an error, marking 5xx as
// retryable. The body is consumed.
func (c *Client) apiError(resp *http.Response, op string) error {
	c.setOnline(false)
	if resp.StatusCode >= 500 {
		return retry.Retryable(fmt.Errorf("%s: server error: %d", op, resp.StatusCode))
	}
	var errResp protocol.ErrorResponse
	if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
		return fmt.Errorf("%s: %s", op, errResp.Error)
	}
	return fmt.Errorf("%s: server returned %d", op, resp.StatusCode)
}

// doJSON issues one request with retry, decoding a JSON response into out
// when out is non-nil. body is re-marshaled on every attempt.
func (c *Client) doJSON(ctx context.Context, method, path, op string, body, out any) error {
	return retry.Do(ctx, c.retryConfig, func() error {
		var reader io.Reader
		if body != nil {
			data, err := json.Marshal(body)
			if err != nil {
				return err
			}
			reader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		c.applyAuth(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.setOnline(false)
			return retry.Retryable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated &&
			resp.StatusCode != http.StatusNoContent {
			return c.apiError(resp, op)
		}

		c.setOnline(true)

		if out != nil {
			return json.NewDecoder(resp.Body).Decode(out)
		}
		return nil
	})
}

// listPath maps a scope to its listing endpoint.
func listPath(scope models.Scope) string {
	switch {
	case scope.IsTrash():
		return "/api/v1/trash"
	case scope.IsStarred():
		return "/api/v1/starred"
	default:
		if id, ok := scope.TeamFolderID(); ok {
			return "/api/v1/team/" + url.PathEscape(id) + "/entries"
		}
		if id, ok := scope.FolderID(); ok {
			return "/api/v1/entries?parent=" + url.QueryEscape(id)
		}
		return "/api/v1/entries?parent=" + protocol.RootParentID
	}
}

// ListEntries fetches the file and folder collections for a scope.
func (c *Client) ListEntries(ctx context.Context, scope models.Scope) (*protocol.ListResponse, error) {
	return retry.DoWithResult(ctx, c.retryConfig, func() (*protocol.ListResponse, error) {
		req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+listPath(scope), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept-Encoding", "gzip")
		c.applyAuth(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.setOnline(false)
			return nil, retry.Retryable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, c.apiError(resp, "list "+scope.String())
		}

		c.setOnline(true)

		var reader io.Reader = resp.Body
		if resp.Header.Get("Content-Encoding") == "gzip" {
			gr, err := gzip.NewReader(resp.Body)
			if err != nil {
				return nil, err
			}
			defer gr.Close()
			reader = gr
		}

		var list protocol.ListResponse
		if err := json.NewDecoder(reader).Decode(&list); err != nil {
			return nil, err
		}
		return &list, nil
	})
}

// FetchFolder fetches a single folder by id, used as the breadcrumb fallback
// when a stack entry is not in the loaded collection.
func (c *Client) FetchFolder(ctx context.Context, id string) (*models.FolderEntry, error) {
	var folder models.FolderEntry
	err := c.doJSON(ctx, "GET", "/api/v1/folders/"+url.PathEscape(id), "fetch folder", nil, &folder)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// CreateFolder creates a folder under the given parent.
func (c *Client) CreateFolder(ctx context.Context, name string, parent models.ParentRef) (*models.FolderEntry, error) {
	var folder models.FolderEntry
	body := protocol.CreateFolderRequest{Name: name, Parent: parent}
	if err := c.doJSON(ctx, "POST", "/api/v1/folders", "create folder", body, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// UploadFile uploads file content into the given parent folder.
func (c *Client) UploadFile(ctx context.Context, name string, parent models.ParentRef, contentType string, content io.Reader, size int64) (*models.FileEntry, error) {
	// Uploads are not retried: the body reader is consumed on first attempt.
	q := url.Values{"name": {name}}
	if id, ok := parent.FolderID(); ok {
		q.Set("parent", id)
	} else {
		q.Set("parent", protocol.RootParentID)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/files?"+q.Encode(), content)
	if err != nil {
		return nil, err
	}
	req.ContentLength = size
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	c.applyAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setOnline(false)
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp, "upload "+name)
	}

	c.setOnline(true)

	var upload protocol.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
		return nil, err
	}
	logging.Debug("file uploaded", zap.String("name", name), zap.Int64("size", size))
	return &upload.File, nil
}

// DeleteFile moves a file to the trash.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.doJSON(ctx, "DELETE", "/api/v1/files/"+url.PathEscape(id), "delete file", nil, nil)
}

// DeleteFolder moves a folder to the trash.
func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	return c.doJSON(ctx, "DELETE", "/api/v1/folders/"+url.PathEscape(id), "delete folder", nil, nil)
}

// RestoreFile restores a trashed file to its original location.
func (c *Client) RestoreFile(ctx context.Context, id string) error {
	return c.doJSON(ctx, "POST", "/api/v1/files/"+url.PathEscape(id)+"/restore", "restore file", nil, nil)
}

// RestoreFolder restores a trashed folder to its original location.
func (c *Client) RestoreFolder(ctx context.Context, id string) error {
	return c.doJSON(ctx, "POST", "/api/v1/folders/"+url.PathEscape(id)+"/restore", "restore folder", nil, nil)
}

// PurgeFile permanently deletes a trashed file.
func (c *Client) PurgeFile(ctx context.Context, id string) error {
	return c.doJSON(ctx, "DELETE", "/api/v1/trash/files/"+url.PathEscape(id), "purge file", nil, nil)
}

// PurgeFolder permanently deletes a trashed folder.
func (c *Client) PurgeFolder(ctx context.Context, id string) error {
	return c.doJSON(ctx, "DELETE", "/api/v1/trash/folders/"+url.PathEscape(id), "purge folder", nil, nil)
}

// MoveFile moves a file into the destination folder.
func (c *Client) MoveFile(ctx context.Context, id string, dest models.ParentRef) error {
	body := protocol.MoveRequest{Destination: dest}
	return c.doJSON(ctx, "POST", "/api/v1/files/"+url.PathEscape(id)+"/move", "move file", body, nil)
}

// MoveFolder moves a folder into the destination folder.
func (c *Client) MoveFolder(ctx context.Context, id string, dest models.ParentRef) error {
	body := protocol.MoveRequest{Destination: dest}
	return c.doJSON(ctx, "POST", "/api/v1/folders/"+url.PathEscape(id)+"/move", "move folder", body, nil)
}

// StarFile marks a file as starred.
func (c *Client) StarFile(ctx context.Context, id string) error {
	return c.doJSON(ctx, "PUT", "/api/v1/files/"+url.PathEscape(id)+"/star", "star file", nil, nil)
}

// UnstarFile clears a file's star flag.
func (c *Client) UnstarFile(ctx context.Context, id string) error {
	return c.doJSON(ctx, "DELETE", "/api/v1/files/"+url.PathEscape(id)+"/star", "unstar file", nil, nil)
}

// StarFolder marks a folder as starred.
func (c *Client) StarFolder(ctx context.Context, id string) error {
	return c.doJSON(ctx, "PUT", "/api/v1/folders/"+url.PathEscape(id)+"/star", "star folder", nil, nil)
}

// UnstarFolder clears a folder's star flag.
func (c *Client) UnstarFolder(ctx context.Context, id string) error {
	return c.doJSON(ctx, "DELETE", "/api/v1/folders/"+url.PathEscape(id)+"/star", "unstar folder", nil, nil)
}

// ErrOffline is returned when the server is offline.
var ErrOffline = errors.New("server is offline")

var _ models.MutationAPI = (*Client)(nil)
