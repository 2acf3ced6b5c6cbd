// Package geocode はジオコーディングAPI連携機能を提供する。
// 地名の自由入力テキストを緯度経度に解決する。
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/hitoshi/tabiplan/internal/model"
)

// Client はOpenCage互換のジオコーディングAPIクライアント。
// クエリテキストをGETパラメータで渡し、結果リストの先頭の座標を採用する。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
	apiKey     string
}

// NewClient はClientの新しいインスタンスを生成する。
// httpClientにはsecurity.OutboundGuardServiceが生成したクライアントを渡すことを想定している。
func NewClient(httpClient *http.Client, logger *slog.Logger, endpoint, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

// geocodeResponse はジオコーディングAPIのレスポンス形式。
type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve は地名クエリを緯度経度に解決する。
// 結果リストの先頭の座標を返す。結果が空の場合はLOCATION_NOT_FOUNDを返し、
// 通信失敗・不正レスポンスの場合はGEOCODE_FAILEDを返す。
// リトライは行わない（呼び出しはユーザー操作ごとに1回）。
func (c *Client) Resolve(ctx context.Context, query string) (*model.Coordinates, error) {
	if query == "" {
		return nil, model.NewValidationError("検索する地名を入力してください。")
	}

	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, model.NewGeocodeFailedError("エンドポイントURLが不正です")
	}

	q := reqURL.Query()
	q.Set("q", query)
	q.Set("key", c.apiKey)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}
	req.Header.Set("User-Agent", "Tabiplan/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("ジオコーディングAPIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
			slog.String("query", query),
		)
		return nil, model.NewGeocodeFailedError("接続に失敗しました")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("ジオコーディングAPIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("query", query),
		)
		return nil, model.NewGeocodeFailedError(fmt.Sprintf("ステータス %d が返されました", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("ジオコーディングAPIのレスポンスの読み取りに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, model.NewGeocodeFailedError("レスポンスの読み取りに失敗しました")
	}

	var result geocodeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("ジオコーディングAPIのレスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		return nil, model.NewGeocodeFailedError("レスポンスの解析に失敗しました")
	}

	// 結果リストの先頭を採用する
	if len(result.Results) == 0 {
		return nil, model.NewLocationNotFoundError(query)
	}

	first := result.Results[0].Geometry
	return &model.Coordinates{Lat: first.Lat, Lng: first.Lng}, nil
}
