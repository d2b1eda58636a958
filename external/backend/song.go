package backend

import (
	"context"
	"net/http"

	"github.com/gangstaai/scanclient/internal/song"
)

func (c *Client) GenerateSong(ctx context.Context, r song.Request) (*song.Track, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, c.songPath, r)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return nil, newAPIError(resp)
	}
	var track song.Track
	if err := decodeJSON(resp, &track); err != nil {
		return nil, err
	}
	return &track, nil
}
