// Package model はドメインモデルを定義する。
package model

import "time"

// Travel はユーザーが所有する旅行計画を表す。
// Lat/Lngはジオコーディング成功時のみ設定され、未設定の場合はnil。
type Travel struct {
	ID           string
	OwnerID      string
	Destination  string
	Description  string
	Date         string
	LocationName string
	Lat          *float64
	Lng          *float64
	CreatedAt    time.Time
}

// TravelInput は旅行作成の入力を表す。
// Lat/Lngはジオコーディング済みの場合のみ設定される（任意）。
type TravelInput struct {
	Destination  string
	Description  string
	Date         string
	LocationName string
	Lat          *float64
	Lng          *float64
}

// Validate は旅行入力の必須項目を検証する。
// 不正な場合はVALIDATION_FAILEDのAPIErrorを返す。
func (in TravelInput) Validate() error {
	if in.Destination == "" {
		return NewValidationError("目的地は必須です。")
	}
	if in.Date == "" {
		return NewValidationError("日付は必須です。")
	}
	return nil
}

// Coordinates は地点の緯度経度を表す。
type Coordinates struct {
	Lat float64
	Lng float64
}
