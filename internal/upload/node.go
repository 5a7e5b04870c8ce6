package upload

import (
	"context"
	"path/filepath"
	"strings"
)

// NodeUploader uploads server bundle source maps. Stack frames from the
// server runtime carry file paths, so bundles are reported by their path
// relative to the project root.
type NodeUploader struct {
	client *Client
}

func NewNodeUploader(c *Client) *NodeUploader {
	if c == nil {
		c = NewClient(nil)
	}
	return &NodeUploader{client: c}
}

func (u *NodeUploader) UploadMultiple(ctx context.Context, t Target) (Result, error) {
	var extra []field
	if t.ProjectRoot != "" {
		extra = append(extra, field{"projectRoot", t.ProjectRoot})
	}
	return u.client.uploadMultiple(ctx, t, func(sm sourceMap) string {
		return nodeBundlePath(t.ProjectRoot, sm.BundlePath)
	}, extra)
}

// nodeBundlePath reports bundle relative to root, or absolute when it lies outside.
func nodeBundlePath(root, bundle string) string {
	abs, err := filepath.Abs(bundle)
	if err != nil {
		abs = bundle
	}
	if root == "" {
		return filepath.ToSlash(abs)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}
