// Package netx holds plain HTTP helpers for presigned object URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxBody caps how much of an object Download reads.
const maxBody = 64 << 20

// Download fetches url with a GET and returns the body. Any status other than
// 200 is an error carrying the start of the response body.
func Download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxBody {
		return nil, fmt.Errorf("download failed: object larger than %d bytes", maxBody)
	}
	return b, nil
}
