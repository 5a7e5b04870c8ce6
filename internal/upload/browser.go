package upload

import (
	"context"
	"strings"
)

// BrowserUploader uploads client bundle source maps. Browser stack frames
// carry URLs, so each bundle is reported as BaseURL + its path under the
// target directory.
type BrowserUploader struct {
	client *Client
}

func NewBrowserUploader(c *Client) *BrowserUploader {
	if c == nil {
		c = NewClient(nil)
	}
	return &BrowserUploader{client: c}
}

func (u *BrowserUploader) UploadMultiple(ctx context.Context, t Target) (Result, error) {
	return u.client.uploadMultiple(ctx, t, func(sm sourceMap) string {
		return browserBundleURL(t.BaseURL, sm.Rel)
	}, nil)
}

func browserBundleURL(base, rel string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(rel, "/")
}
