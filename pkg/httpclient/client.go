package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

const (
	// MaxBodySize は、エラーレスポンスから読み込むボディの最大サイズです。
	MaxBodySize = int64(1024)

	// サイトからのブロックを避けるためのUser-Agent
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"
)

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントのインターフェースです。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError は、200以外のステータスコードが返されたことを示します。
type StatusError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ページの取得に失敗しました: ステータスコード %d (URL: %s)", e.StatusCode, e.URL)
}

// Client は、1回きりのHTTP GETとHTML解析を行います。リトライは行いません。
type Client struct {
	httpClient Doer
	userAgent  string
}

// ClientOption はClientの設定を行うための関数型です。
type ClientOption func(*Client)

// WithHTTPClient はカスタムのDoerを設定します。
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithUserAgent は送信するUser-Agentを上書きします。
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New は、新しいClientを生成します。
// timeout が 0 の場合、HTTPリクエストにタイムアウトは設定されません。
func New(timeout time.Duration, options ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  UserAgent,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// FetchDocument はURLからHTMLを1回だけ取得し、goquery.Documentを返します。
// ステータスコードが200以外の場合は *StatusError を返します。
func (c *Client) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("GETリクエスト作成に失敗しました: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストに失敗しました (ネットワーク/接続エラー): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: body}
	}

	// Content-Type の charset に従って UTF-8 に変換する
	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("文字コードの判定に失敗しました: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました: %w", err)
	}
	return doc, nil
}
