// Package media uploads course files to the external media host and
// resolves their public URLs.
package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/coursehub/coursehub-api/pkg/config"
	apperrors "github.com/coursehub/coursehub-api/pkg/errors"
)

// Asset describes a stored file on the media host.
type Asset struct {
	URL      string `json:"secure_url"`
	PublicID string `json:"public_id"`
	Bytes    int64  `json:"bytes"`
}

// FileTypeForMIME maps an upload MIME type to the short category label
// stored alongside a material record.
func FileTypeForMIME(mime string) string {
	switch mime {
	case "application/pdf":
		return "pdf"
	case "application/msword":
		return "doc"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return "docx"
	case "application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation":
		return "ppt"
	case "application/zip", "application/x-zip-compressed":
		return "zip"
	case "video/mp4":
		return "video"
	case "image/jpeg", "image/png":
		return "image"
	default:
		return "file"
	}
}

// Client talks to the media host's upload API.
type Client struct {
	http      *resty.Client
	apiKey    string
	apiSecret string
	now       func() time.Time
}

func NewClient(cfg config.MediaConfig) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.UploadURL, "/")).
		SetTimeout(cfg.RequestTimeout)

	return &Client{
		http:      httpClient,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		now:       time.Now,
	}
}

// Upload stores the file under the given folder and returns the hosted asset.
// The request is signed the way the host expects: SHA-1 over the sorted
// non-file params concatenated with the API secret.
func (c *Client) Upload(ctx context.Context, folder, filename string, body io.Reader) (*Asset, error) {
	timestamp := fmt.Sprintf("%d", c.now().Unix())
	params := map[string]string{
		"folder":    folder,
		"timestamp": timestamp,
	}

	var asset Asset
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(params).
		SetFormData(map[string]string{
			"api_key":   c.apiKey,
			"signature": c.sign(params),
		}).
		SetFileReader("file", filename, body).
		SetResult(&asset).
		Post("/upload")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "media host upload failed")
	}
	if resp.IsError() {
		return nil, apperrors.Clone(apperrors.ErrUpstream, fmt.Sprintf("media host upload failed: status %d", resp.StatusCode()))
	}
	if asset.URL == "" {
		return nil, apperrors.Clone(apperrors.ErrUpstream, "media host returned no asset URL")
	}
	return &asset, nil
}

// Destroy removes an asset by its public ID. Callers treat failures as
// non-fatal; the database row is the source of truth.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	params := map[string]string{
		"public_id": publicID,
		"timestamp": fmt.Sprintf("%d", c.now().Unix()),
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(params).
		SetFormData(map[string]string{
			"api_key":   c.apiKey,
			"signature": c.sign(params),
		}).
		Post("/destroy")
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrUpstream.Code, apperrors.ErrUpstream.Status, "media host destroy failed")
	}
	if resp.IsError() {
		return apperrors.Clone(apperrors.ErrUpstream, fmt.Sprintf("media host destroy failed: status %d", resp.StatusCode()))
	}
	return nil
}

func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
