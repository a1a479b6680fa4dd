package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"weeklypulse/internal/channel"
	"weeklypulse/internal/member"
	"weeklypulse/internal/membership"
	"weeklypulse/internal/schedule"
)

// DefaultTimeout은 요청 하나의 기본 제한 시간입니다.
const DefaultTimeout = 10 * time.Second

// Client는 weeklypulse 서버의 HTTP API를 호출하는 저장소 클라이언트입니다.
// schedule.Repository, membership.Checker, channel.Searcher를 구현합니다.
type Client struct {
	baseURL string
	timeout time.Duration
}

var (
	_ schedule.Repository = (*Client)(nil)
	_ membership.Checker  = (*Client)(nil)
	_ channel.Searcher    = (*Client)(nil)
)

// New는 새 Client를 생성합니다. baseURL 예: "http://localhost:8080"
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// envelope는 서버 응답 공통 형태입니다. (response.Envelope와 동일, data는 나중에 해석)
type envelope struct {
	Code    int               `json:"code"`
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// StatusError는 2xx가 아닌 응답입니다.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
}

// do는 요청을 보내고 envelope.data를 out으로 해석합니다.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) (*envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	a.JSONEncoder(sonic.Marshal).JSONDecoder(sonic.Unmarshal)
	if body != nil {
		a.JSON(body)
	}
	a.Timeout(c.timeoutFor(ctx))

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return nil, err
	}
	code, raw, errs := a.Bytes()
	if len(errs) > 0 {
		log.Warnf("[backend] %s %s 요청 실패: %v", method, path, errs[0])
		return nil, errs[0]
	}

	var env envelope
	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &env); err != nil {
			if code < 200 || code >= 300 {
				return nil, &StatusError{Code: code}
			}
			return nil, fmt.Errorf("응답 해석 실패: %w", err)
		}
	}
	if code < 200 || code >= 300 {
		return &env, &StatusError{Code: code, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := sonic.Unmarshal(env.Data, out); err != nil {
			return &env, fmt.Errorf("응답 데이터 해석 실패: %w", err)
		}
	}
	return &env, nil
}

func (c *Client) timeoutFor(ctx context.Context) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < c.timeout {
			return left
		}
	}
	return c.timeout
}

// repoError는 저장소 작업 실패를 RepositoryError로 감쌉니다.
// 서버 메시지가 있으면 그대로, 없으면 기본 문구를 사용합니다.
func repoError(op string, env *envelope, err error) error {
	var message string
	cause := err
	if se, ok := err.(*StatusError); ok {
		message = se.Message
		switch {
		case se.Code == fiber.StatusNotFound:
			cause = fmt.Errorf("%w: %v", schedule.ErrScheduleNotFound, se)
		case se.Code == fiber.StatusUnprocessableEntity && env != nil && env.Errors["field"] != "":
			cause = &schedule.FieldError{Field: env.Errors["field"]}
		}
	}
	return schedule.NewRepositoryError(op, message, cause)
}

func schedulePath(id string) string {
	return "/api/schedules/" + url.PathEscape(id)
}

// List는 'GET /api/schedules' 입니다.
func (c *Client) List(ctx context.Context) ([]schedule.WeeklyOutputSchedule, error) {
	var out []schedule.WeeklyOutputSchedule
	env, err := c.do(ctx, fiber.MethodGet, "/api/schedules", nil, &out)
	if err != nil {
		return nil, repoError("list", env, err)
	}
	if out == nil {
		out = []schedule.WeeklyOutputSchedule{}
	}
	return out, nil
}

// Create는 'POST /api/schedules' 입니다.
func (c *Client) Create(ctx context.Context, in schedule.ScheduleInput) (*schedule.WeeklyOutputSchedule, error) {
	var out schedule.WeeklyOutputSchedule
	env, err := c.do(ctx, fiber.MethodPost, "/api/schedules", in, &out)
	if err != nil {
		return nil, repoError("create", env, err)
	}
	return &out, nil
}

// Update는 'PATCH /api/schedules/:id' 입니다. 패치에 지정된 필드만 전송됩니다.
func (c *Client) Update(ctx context.Context, id string, patch schedule.SchedulePatch) (*schedule.WeeklyOutputSchedule, error) {
	var out schedule.WeeklyOutputSchedule
	env, err := c.do(ctx, fiber.MethodPatch, schedulePath(id), patch, &out)
	if err != nil {
		return nil, repoError("update", env, err)
	}
	return &out, nil
}

// Delete는 'DELETE /api/schedules/:id' 입니다.
func (c *Client) Delete(ctx context.Context, id string) error {
	env, err := c.do(ctx, fiber.MethodDelete, schedulePath(id), nil, nil)
	if err != nil {
		return repoError("delete", env, err)
	}
	return nil
}

// Preview는 'GET /api/schedules/:id/preview' 입니다.
func (c *Client) Preview(ctx context.Context, id string) (*schedule.Preview, error) {
	var out schedule.Preview
	env, err := c.do(ctx, fiber.MethodGet, schedulePath(id)+"/preview", nil, &out)
	if err != nil {
		return nil, repoError("preview", env, err)
	}
	return &out, nil
}

// CheckMembership은 'GET /api/channels/:channelId/bot-membership' 입니다.
// 전송 실패나 2xx가 아닌 응답은 에러로 반환됩니다. (상태 error)
func (c *Client) CheckMembership(ctx context.Context, channelID string) (membership.Result, error) {
	var out membership.Result
	_, err := c.do(ctx, fiber.MethodGet, "/api/channels/"+url.PathEscape(channelID)+"/bot-membership", nil, &out)
	if err != nil {
		return membership.Result{}, err
	}
	return out, nil
}

// SearchChannels는 'GET /api/channels/search?q=' 입니다. (결과 수는 서버 기본값)
func (c *Client) SearchChannels(ctx context.Context, query string) ([]channel.Channel, error) {
	var out []channel.Channel
	env, err := c.do(ctx, fiber.MethodGet, "/api/channels/search?q="+url.QueryEscape(query), nil, &out)
	if err != nil {
		return nil, repoError("search-channels", env, err)
	}
	return out, nil
}

// ListMembersWithChannelIdentity는 'GET /api/members' 입니다.
func (c *Client) ListMembersWithChannelIdentity(ctx context.Context) ([]member.MemberView, error) {
	var out []member.MemberView
	env, err := c.do(ctx, fiber.MethodGet, "/api/members", nil, &out)
	if err != nil {
		return nil, repoError("list-members", env, err)
	}
	return out, nil
}
