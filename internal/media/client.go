// Package media はメディアアップロードAPI連携機能を提供する。
// data URLエンコードされた画像を外部ホスティングサービスへ送信し、公開URLを受け取る。
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/tabiplan/internal/model"
)

// avatarFolder はアバター画像のアップロード先フォルダタグ。
const avatarFolder = "avatars"

// Client はCloudinary互換のメディアアップロードAPIクライアント。
type Client struct {
	httpClient   *http.Client
	logger       *slog.Logger
	endpoint     string
	uploadPreset string
	maxSize      int64
}

// NewClient はClientの新しいインスタンスを生成する。
// httpClientにはsecurity.OutboundGuardServiceが生成したクライアントを渡すことを想定している。
// maxSizeはdata URL全体の最大バイト数。
func NewClient(httpClient *http.Client, logger *slog.Logger, endpoint, uploadPreset string, maxSize int64) *Client {
	return &Client{
		httpClient:   httpClient,
		logger:       logger,
		endpoint:     endpoint,
		uploadPreset: uploadPreset,
		maxSize:      maxSize,
	}
}

// uploadRequest はアップロードAPIのリクエストボディ。
type uploadRequest struct {
	File         string `json:"file"`
	UploadPreset string `json:"upload_preset"`
	Folder       string `json:"folder"`
}

// uploadResponse はアップロードAPIのレスポンスボディ。
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// UploadAvatar はdata URLエンコードされた画像をアップロードし、公開URLを返す。
// 失敗時はUPLOAD_FAILEDを返す。リトライは行わない。
func (c *Client) UploadAvatar(ctx context.Context, dataURL string) (string, error) {
	if dataURL == "" {
		return "", model.NewValidationError("画像が指定されていません。")
	}
	if !strings.HasPrefix(dataURL, "data:image/") {
		return "", model.NewUploadFailedError("data URL形式の画像のみ受け付けます")
	}
	if int64(len(dataURL)) > c.maxSize {
		return "", model.NewUploadFailedError(fmt.Sprintf("画像サイズが上限（%dバイト）を超えています", c.maxSize))
	}

	payload, err := json.Marshal(uploadRequest{
		File:         dataURL,
		UploadPreset: c.uploadPreset,
		Folder:       avatarFolder,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Tabiplan/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("メディアアップロードAPIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
		)
		return "", model.NewUploadFailedError("接続に失敗しました")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("メディアアップロードAPIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
		)
		return "", model.NewUploadFailedError(fmt.Sprintf("ステータス %d が返されました", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("メディアアップロードAPIのレスポンスの読み取りに失敗しました",
			slog.String("error", err.Error()),
		)
		return "", model.NewUploadFailedError("レスポンスの読み取りに失敗しました")
	}

	var result uploadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("メディアアップロードAPIのレスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		return "", model.NewUploadFailedError("レスポンスの解析に失敗しました")
	}

	if result.SecureURL == "" {
		return "", model.NewUploadFailedError("公開URLが返されませんでした")
	}

	return result.SecureURL, nil
}
