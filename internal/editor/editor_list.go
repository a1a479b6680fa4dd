package editor

import (
	"context"
	"errors"
	"sync"

	"weeklypulse/internal/membership"
	"weeklypulse/internal/schedule"
)

var (
	// ErrToggleSuppressed는 봇이 초대되지 않은 채널의 활성 토글 시도입니다.
	ErrToggleSuppressed = errors.New("봇이 채널에 초대되지 않아 활성 상태를 변경할 수 없습니다")
	ErrNoPendingDelete  = errors.New("삭제 확인 대기 중인 스케줄이 없습니다")
	ErrUnknownRow       = errors.New("목록에 없는 스케줄입니다")
)

// Row는 목록의 한 행입니다.
type Row struct {
	Schedule   schedule.WeeklyOutputSchedule
	Membership membership.Status
}

// ShowToggle은 활성/비활성 토글을 보여줄지 여부입니다.
func (r Row) ShowToggle() bool {
	return membership.AllowsToggle(r.Membership)
}

// Hint는 봇 상태 안내 문구입니다.
func (r Row) Hint() string {
	return r.Membership.Hint()
}

// ListView는 스케줄 목록 화면의 상태입니다. 삭제는 성공이 확인된 뒤에만 목록에서 제거됩니다.
type ListView struct {
	repo    schedule.Repository
	checker membership.Checker
	tracker *membership.Tracker

	mu            sync.RWMutex
	rows          []Row
	banner        string
	pendingDelete string
}

// NewListView는 새 목록 화면 상태를 만듭니다.
func NewListView(repo schedule.Repository, checker membership.Checker) *ListView {
	return &ListView{repo: repo, checker: checker, tracker: membership.NewTracker()}
}

// Load는 목록을 불러오고 채널별 봇 초대 여부를 한 번씩 동시에 확인합니다.
// 각 행은 자기 채널의 확인이 끝나는 즉시 갱신됩니다.
func (v *ListView) Load(ctx context.Context) error {
	list, err := v.repo.List(ctx)
	if err != nil {
		v.setBanner(BannerMessage(err))
		return err
	}

	rows := make([]Row, 0, len(list))
	channelIDs := make([]string, 0, len(list))
	for _, ws := range list {
		rows = append(rows, Row{Schedule: ws, Membership: membership.StatusUnchecked})
		channelIDs = append(channelIDs, ws.ChannelID)
	}
	v.mu.Lock()
	v.rows = rows
	v.banner = ""
	v.mu.Unlock()

	if v.checker == nil {
		return nil
	}
	v.tracker.BatchCheck(ctx, v.checker, channelIDs, v.applyStatus)
	return nil
}

func (v *ListView) applyStatus(channelID string, st membership.Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.rows {
		if v.rows[i].Schedule.ChannelID == channelID {
			v.rows[i].Membership = st
		}
	}
}

// Rows는 현재 행의 복사본입니다.
func (v *ListView) Rows() []Row {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Row(nil), v.rows...)
}

// Banner는 현재 표시 중인 실패 배너입니다.
func (v *ListView) Banner() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.banner
}

// DismissBanner는 배너를 닫습니다.
func (v *ListView) DismissBanner() {
	v.setBanner("")
}

func (v *ListView) setBanner(msg string) {
	v.mu.Lock()
	v.banner = msg
	v.mu.Unlock()
}

func (v *ListView) find(id string) (int, bool) {
	for i := range v.rows {
		if v.rows[i].Schedule.ID == id {
			return i, true
		}
	}
	return -1, false
}

// ToggleActive는 is_active만 담은 부분 수정 요청을 보냅니다.
func (v *ListView) ToggleActive(ctx context.Context, id string) error {
	v.mu.RLock()
	i, ok := v.find(id)
	var row Row
	if ok {
		row = v.rows[i]
	}
	v.mu.RUnlock()
	if !ok {
		return ErrUnknownRow
	}
	if !row.ShowToggle() {
		return ErrToggleSuppressed
	}

	next := !row.Schedule.IsActive
	updated, err := v.repo.Update(ctx, id, schedule.SchedulePatch{IsActive: &next})
	if err != nil {
		v.setBanner(BannerMessage(err))
		return err
	}

	v.mu.Lock()
	if i, ok := v.find(id); ok {
		v.rows[i].Schedule = *updated
	}
	v.mu.Unlock()
	return nil
}

// RequestDelete는 삭제 확인 단계를 시작합니다. 저장소는 아직 호출하지 않습니다.
func (v *ListView) RequestDelete(id string) {
	v.mu.Lock()
	v.pendingDelete = id
	v.mu.Unlock()
}

// PendingDelete는 확인 대기 중인 스케줄 ID입니다.
func (v *ListView) PendingDelete() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pendingDelete
}

// CancelDelete는 삭제 확인을 취소합니다.
func (v *ListView) CancelDelete() {
	v.RequestDelete("")
}

// ConfirmDelete는 확인된 삭제를 실행합니다. 실패하면 목록은 그대로 두고 배너를 표시합니다.
func (v *ListView) ConfirmDelete(ctx context.Context) error {
	v.mu.Lock()
	id := v.pendingDelete
	v.pendingDelete = ""
	v.mu.Unlock()
	if id == "" {
		return ErrNoPendingDelete
	}

	if err := v.repo.Delete(ctx, id); err != nil {
		v.setBanner(BannerMessage(err))
		return err
	}

	v.mu.Lock()
	if i, ok := v.find(id); ok {
		v.rows = append(v.rows[:i], v.rows[i+1:]...)
	}
	v.mu.Unlock()
	return nil
}

// Upsert는 폼 저장 결과를 목록에 반영합니다.
func (v *ListView) Upsert(ws schedule.WeeklyOutputSchedule) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i, ok := v.find(ws.ID); ok {
		v.rows[i].Schedule = ws
		return
	}
	v.rows = append([]Row{{Schedule: ws, Membership: v.tracker.Status(ws.ChannelID)}}, v.rows...)
}
