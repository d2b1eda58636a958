package backend

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"

	"github.com/gangstaai/scanclient/internal/analysis"
)

func (c *Client) SubmitPost(ctx context.Context, in analysis.PostInput) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writePostForm(mw, in))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/analyze-post", pr)
	if err != nil {
		_ = pr.Close()
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.do(req)
	if err != nil {
		_ = pr.Close()
		return "", err
	}
	defer closeBody(resp)
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return "", newAPIError(resp)
	}
	var out struct {
		ScanID string `json:"scan_id"`
	}
	if err := decodeJSON(resp, &out); err != nil {
		return "", err
	}
	if out.ScanID == "" {
		return "", fmt.Errorf("backend returned no scan_id")
	}
	return out.ScanID, nil
}

func writePostForm(mw *multipart.Writer, in analysis.PostInput) error {
	if err := mw.WriteField("caption", in.Caption); err != nil {
		return err
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename=%q`, in.Media.Name()))
	h.Set("Content-Type", mediaType(in.Media))
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := part.Write(in.Media.Data); err != nil {
		return err
	}
	return mw.Close()
}

func mediaType(m analysis.Media) string {
	if m.MIMEType != "" {
		return m.MIMEType
	}
	if t := mime.TypeByExtension(filepath.Ext(m.FileName)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// FetchPostResult treats 202 as "still running".
func (c *Client) FetchPostResult(ctx context.Context, scanID string) (*analysis.Result, bool, error) {
	return c.fetchResult(ctx, "/scan-results/"+url.PathEscape(scanID), http.StatusAccepted)
}

func (c *Client) SubmitText(ctx context.Context, scanID, text string) error {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/analyze-text", map[string]string{
		"text":    text,
		"scan_id": scanID,
	})
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer closeBody(resp)
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return newAPIError(resp)
	}
	return nil
}

// FetchTextResult treats 202 and 404 as "still running": the row only
// exists once the worker stored it.
func (c *Client) FetchTextResult(ctx context.Context, scanID string) (*analysis.Result, bool, error) {
	return c.fetchResult(ctx, "/text-scan-results/"+url.PathEscape(scanID), http.StatusAccepted, http.StatusNotFound)
}

func (c *Client) fetchResult(ctx context.Context, path string, pending ...int) (*analysis.Result, bool, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, false, err
	}
	defer closeBody(resp)
	for _, code := range pending {
		if resp.StatusCode == code {
			return nil, false, nil
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, newAPIError(resp)
	}
	var result analysis.Result
	if err := decodeJSON(resp, &result); err != nil {
		return nil, false, err
	}
	return &result, true, nil
}

func (c *Client) ListPostScans(ctx context.Context) ([]analysis.Result, error) {
	var list []analysis.Result
	if err := c.getJSON(ctx, "/post-scans", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer closeBody(resp)
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return newAPIError(resp)
	}
	return decodeJSON(resp, out)
}
