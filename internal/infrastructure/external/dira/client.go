package dira

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"lottery-odds/internal/domain/lottery"
)

const maxBodyBytes = 16 << 20

// Client 平行抓取購屋抽籤系統的分頁查詢，並組成單一 JSON 陣列。
type Client struct {
	urls       []string
	httpClient *http.Client
}

func NewClient(urls []string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		urls:       append([]string(nil), urls...),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch 抓取所有分頁；任一頁失敗即整體失敗。回傳的陣列順序與 URL 順序相同，內容原樣保留。
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	if len(c.urls) == 0 {
		return nil, lottery.NewRetrievalError(lottery.ErrUpstreamUnavailable, fmt.Errorf("no upstream urls configured"))
	}

	bodies := make([][]byte, len(c.urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range c.urls {
		i, u := i, u
		g.Go(func() error {
			body, err := c.get(gctx, u)
			if err != nil {
				return err
			}
			bodies[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, b := range bodies {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, lottery.NewRetrievalError(lottery.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, lottery.NewRetrievalError(lottery.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, lottery.NewRetrievalError(lottery.ErrUpstreamUnavailable, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, lottery.NewRetrievalError(lottery.ErrUpstreamUnavailable, fmt.Errorf("upstream status %d", resp.StatusCode))
	}

	body = bytes.TrimSpace(body)
	if _, err := lottery.ParseBatch(body); err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return body, nil
}
