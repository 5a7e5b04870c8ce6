package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/releasepub/internal/foundation/errors"
	"git.home.luguber.info/inful/releasepub/internal/logfields"
	"git.home.luguber.info/inful/releasepub/internal/version"
)

const (
	sourceMapPath   = "/sourcemap"
	maxErrorSnippet = 512
)

// Uploader performs one multi-file upload for a target.
type Uploader interface {
	UploadMultiple(ctx context.Context, t Target) (Result, error)
}

// Client is the HTTP transport shared by both uploaders.
type Client struct {
	http *http.Client
}

// NewClient wraps httpClient; nil uses a client without a global timeout.
// Per-request limits come from Target.IdleTimeout.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{http: httpClient}
}

type field struct{ name, value string }

// urlFunc maps a discovered source map to the minifiedUrl reported for its bundle.
type urlFunc func(sm sourceMap) string

func (c *Client) uploadMultiple(ctx context.Context, t Target, minifiedURL urlFunc, extra []field) (Result, error) {
	start := time.Now()
	res := Result{Kind: t.Kind, Directory: t.Directory}
	log := t.logger().With(logfields.Target(string(t.Kind)), logfields.Directory(t.Directory))

	if strings.TrimSpace(t.APIKey) == "" {
		return res, targetError(ferrors.ConfigError("api key is empty"), t)
	}

	maps, err := discover(t.Directory)
	if err != nil {
		return res, targetError(ferrors.FileSystemError("artifact directory is unreadable").WithCause(err), t)
	}
	if len(maps) == 0 {
		log.WarnContext(ctx, "No source maps found")
		res.Duration = time.Since(start)
		return res, nil
	}

	log.InfoContext(ctx, "Uploading source maps", logfields.Count(len(maps)), logfields.Endpoint(t.Endpoint))
	for _, sm := range maps {
		if sm.BundlePath == "" {
			log.WarnContext(ctx, "Skipping source map without bundle", logfields.Path(sm.MapPath))
			res.Skipped++
			continue
		}
		u := minifiedURL(sm)
		if err := c.send(ctx, t, sm, u, extra); err != nil {
			res.Duration = time.Since(start)
			return res, err
		}
		res.Uploaded++
		log.DebugContext(ctx, "Source map uploaded", logfields.Path(sm.MapPath), logfields.URL(u))
	}
	res.Duration = time.Since(start)
	log.InfoContext(ctx, "Source maps uploaded", logfields.Count(res.Uploaded), logfields.Duration(res.Duration))
	return res, nil
}

func (c *Client) send(ctx context.Context, t Target, sm sourceMap, minifiedURL string, extra []field) error {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	fields := []field{{"apiKey", t.APIKey}, {"minifiedUrl", minifiedURL}}
	if t.AppVersion != "" {
		fields = append(fields, field{"appVersion", t.AppVersion})
	}
	if t.CodeBundleID != "" {
		fields = append(fields, field{"codeBundleId", t.CodeBundleID})
	}
	if t.Overwrite {
		fields = append(fields, field{"overwrite", "true"})
	}
	fields = append(fields, extra...)
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return targetError(ferrors.InternalError("failed to encode upload form").WithCause(err), t)
		}
	}
	if err := attachFile(mw, "sourceMap", sm.MapPath); err != nil {
		return targetError(ferrors.FileSystemError("failed to read source map").WithCause(err).WithContext("path", sm.MapPath), t)
	}
	if err := attachFile(mw, "minifiedFile", sm.BundlePath); err != nil {
		return targetError(ferrors.FileSystemError("failed to read bundle").WithCause(err).WithContext("path", sm.BundlePath), t)
	}
	if err := mw.Close(); err != nil {
		return targetError(ferrors.InternalError("failed to encode upload form").WithCause(err), t)
	}

	reqCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	idle := newIdleWatchdog(t.IdleTimeout, cancel)
	defer idle.stop()

	length := int64(body.Len())
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, t.Endpoint+sourceMapPath, idle.reader(body))
	if err != nil {
		return targetError(ferrors.ConfigError("invalid upload endpoint").WithCause(err).WithContext("endpoint", t.Endpoint), t)
	}
	req.ContentLength = length
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("User-Agent", "releasepub/"+version.Version)

	resp, err := c.http.Do(req)
	if err != nil {
		msg := "source map upload request failed"
		if errors.Is(context.Cause(reqCtx), errIdleTimeout) {
			msg = "source map upload timed out"
		}
		return targetError(ferrors.NetworkError(msg).WithCause(err).WithContext("path", sm.MapPath), t)
	}
	defer func() { _ = resp.Body.Close() }()

	snippet, _ := io.ReadAll(io.LimitReader(idle.reader(resp.Body), maxErrorSnippet))
	if resp.StatusCode >= 300 {
		t.logger().DebugContext(ctx, "Upload endpoint returned an error", logfields.Status(resp.StatusCode), logfields.Path(sm.MapPath))
	}
	return classifyStatus(t, sm, resp.StatusCode, strings.TrimSpace(string(snippet)))
}

func attachFile(mw *multipart.Writer, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	part, err := mw.CreateFormFile(name, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

func classifyStatus(t Target, sm sourceMap, status int, body string) error {
	if status >= 200 && status < 300 {
		return nil
	}
	cause := fmt.Errorf("HTTP %d: %s", status, body)
	var b *ferrors.ErrorBuilder
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		b = ferrors.AuthError("api key rejected by upload endpoint")
	case status == http.StatusConflict && !t.Overwrite:
		b = ferrors.NewError(ferrors.CategoryUpload, "source map already exists for this version").UserAction()
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		b = ferrors.NewError(ferrors.CategoryUpload, "upload rejected by endpoint")
	default:
		b = ferrors.NetworkError("upload endpoint returned an error")
	}
	return targetError(b.WithCause(cause).WithContext("status", status).WithContext("path", sm.MapPath), t)
}

func targetError(b *ferrors.ErrorBuilder, t Target) error {
	return b.WithContext("target", string(t.Kind)).WithContext("directory", t.Directory).Build()
}

// TargetOf extracts the target kind an upload error was raised for.
func TargetOf(err error) (Kind, bool) {
	classified, ok := ferrors.AsClassified(err)
	if !ok {
		return "", false
	}
	kind, ok := classified.Context().GetString("target")
	return Kind(kind), ok
}
