package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sections는 섹션 이름별 설정 키 맵입니다. (Parameter Store Keyload 결과 또는 로컬 YAML)
type Sections map[string]map[string]interface{}

// 기본값
const (
	DefaultPort          = "3000"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultSearchLimit   = 20
	DefaultSyncInterval  = "@every 1h"
	DefaultAuditInterval = "@every 30m"
	DefaultRateLimit     = 60
)

// RepositoryConfig ('repository' 섹션)
type RepositoryConfig struct {
	User     string
	Password string
	Endpoint string
	Port     int
	Database string
}

// SlackConfig ('slack' 섹션)
type SlackConfig struct {
	BotToken     string
	AlertChannel string // 봇 초대 점검 알림 채널 ID (선택)
}

// ServerConfig ('server' 섹션)
type ServerConfig struct {
	Port          string
	LogLevel      string
	LogFormat     string
	SearchLimit   int
	RateLimit     int // 채널 검색 분당 허용 횟수 (IP 기준)
	SyncInterval  string
	AuditInterval string
}

// Config
type Config struct {
	Repository RepositoryConfig
	Slack      SlackConfig
	Server     ServerConfig
}

// LoadFile은 로컬 YAML 설정 파일을 읽습니다.
//
//	repository:
//	  User: app
//	  Port: 3306
//	slack:
//	  BotToken: xoxb-...
func LoadFile(path string) (Sections, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("설정 파일 읽기 실패: %w", err)
	}
	var sections Sections
	if err := yaml.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("설정 파일 파싱 실패 (%s): %w", path, err)
	}
	return sections, nil
}

// Load는 섹션 맵을 타입이 있는 Config로 변환합니다.
// 필수 키가 없으면 "section.Key" 이름을 담은 에러를 반환합니다.
// SERVER_PORT 환경 변수가 있으면 server.Port보다 우선합니다.
func Load(sections Sections) (*Config, error) {
	r := reader{sections: sections}
	cfg := &Config{
		Repository: RepositoryConfig{
			User:     r.requiredString("repository", "User"),
			Password: r.optionalString("repository", "Password", ""),
			Endpoint: r.requiredString("repository", "Endpoint"),
			Port:     r.optionalInt("repository", "Port", 3306),
			Database: r.requiredString("repository", "Database"),
		},
		Slack: SlackConfig{
			BotToken:     strings.TrimSpace(r.optionalString("slack", "BotToken", "")),
			AlertChannel: strings.TrimSpace(r.optionalString("slack", "AlertChannel", "")),
		},
		Server: ServerConfig{
			Port:          r.optionalString("server", "Port", DefaultPort),
			LogLevel:      r.optionalString("server", "LogLevel", DefaultLogLevel),
			LogFormat:     r.optionalString("server", "LogFormat", DefaultLogFormat),
			SearchLimit:   r.optionalInt("server", "SearchLimit", DefaultSearchLimit),
			RateLimit:     r.optionalInt("server", "RateLimit", DefaultRateLimit),
			SyncInterval:  r.optionalString("server", "SyncInterval", DefaultSyncInterval),
			AuditInterval: r.optionalString("server", "AuditInterval", DefaultAuditInterval),
		},
	}
	if r.err != nil {
		return nil, r.err
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	return cfg, nil
}

// reader는 첫 번째 에러만 기억합니다.
type reader struct {
	sections Sections
	err      error
}

func (r *reader) lookup(section, key string) (interface{}, bool) {
	values, ok := r.sections[section]
	if !ok {
		return nil, false
	}
	v, ok := values[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r *reader) fail(format string, args ...interface{}) {
	if r.err == nil {
		r.err = fmt.Errorf(format, args...)
	}
}

func (r *reader) requiredString(section, key string) string {
	v, ok := r.lookup(section, key)
	if !ok {
		r.fail("필수 설정 누락: %s.%s", section, key)
		return ""
	}
	s := fmt.Sprint(v)
	if strings.TrimSpace(s) == "" {
		r.fail("필수 설정 누락: %s.%s", section, key)
	}
	return s
}

func (r *reader) optionalString(section, key, def string) string {
	v, ok := r.lookup(section, key)
	if !ok {
		return def
	}
	if s := fmt.Sprint(v); s != "" {
		return s
	}
	return def
}

func (r *reader) optionalInt(section, key string, def int) int {
	v, ok := r.lookup(section, key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			r.fail("설정 값이 숫자가 아닙니다: %s.%s=%q", section, key, n)
			return def
		}
		return i
	}
	r.fail("설정 값 타입 오류: %s.%s (%T)", section, key, v)
	return def
}
