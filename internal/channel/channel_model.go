package channel

import (
	"time"
)

// 검색 결과 수 제한 (기본 20, 최대 50)
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
)

// Channel은 'channels' 테이블의 스키마입니다. Slack에서 주기적으로 동기화됩니다.
type Channel struct {
	ID          string    `json:"id" db:"id"` // Slack 채널 ID (C...)
	ChannelName string    `json:"channel_name" db:"channel_name"`
	IsPrivate   bool      `json:"is_private" db:"is_private"`
	IsArchived  bool      `json:"is_archived" db:"is_archived"`
	NumMembers  int       `json:"num_members" db:"num_members"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ClampLimit은 요청된 결과 수를 허용 범위로 맞춥니다.
func ClampLimit(limit, def int) int {
	if def <= 0 || def > MaxSearchLimit {
		def = DefaultSearchLimit
	}
	if limit <= 0 {
		return def
	}
	if limit > MaxSearchLimit {
		return MaxSearchLimit
	}
	return limit
}
