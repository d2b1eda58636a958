package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gangstaai/scanclient/internal/history"
)

func (c *Client) ListScanHistory(ctx context.Context) ([]history.Item, error) {
	var items []history.Item
	if err := c.getJSON(ctx, "/scan-history", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetScanHistory(ctx context.Context, id string) (*history.Item, error) {
	var item history.Item
	err := c.getJSON(ctx, "/scan-history/"+url.PathEscape(id), &item)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", history.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
