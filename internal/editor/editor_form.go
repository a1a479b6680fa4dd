package editor

import (
	"context"
	"errors"
	"time"

	"weeklypulse/internal/member"
	"weeklypulse/internal/membership"
	"weeklypulse/internal/schedule"
)

// Form은 스케줄 생성/수정 화면의 상태입니다.
// 로컬 검증에 실패하면 저장소를 호출하지 않으며, 저장 실패 시에도 입력값은 그대로 유지됩니다.
type Form struct {
	repo    schedule.Repository
	checker membership.Checker
	tracker *membership.Tracker

	id       string
	original *schedule.WeeklyOutputSchedule

	Draft      schedule.ScheduleInput
	Preset     schedule.PresetState
	FieldError *schedule.FieldError // 인라인 표시
	Banner     string               // 닫을 수 있는 저장 실패 배너
}

// NewForm은 새 스케줄 작성 폼입니다. 발송 시점은 기본값으로 채워집니다.
func NewForm(repo schedule.Repository, checker membership.Checker) *Form {
	active := true
	return &Form{
		repo:    repo,
		checker: checker,
		tracker: membership.NewTracker(),
		Draft: schedule.ScheduleInput{
			ThreadSchedule:   schedule.DefaultThreadSchedule,
			ReminderSchedule: schedule.DefaultReminderSchedule,
			FinalSchedule:    schedule.DefaultFinalSchedule,
			IsActive:         &active,
		},
		Preset: schedule.PresetState{Key: schedule.PresetNone},
	}
}

// EditForm은 저장된 스케줄을 수정하는 폼입니다. 프리셋은 저장된 템플릿으로 판별합니다.
func EditForm(repo schedule.Repository, checker membership.Checker, ws *schedule.WeeklyOutputSchedule) *Form {
	key := ws.Preset()
	cp := *ws
	return &Form{
		repo:     repo,
		checker:  checker,
		tracker:  membership.NewTracker(),
		id:       ws.ID,
		original: &cp,
		Draft:    schedule.FromSchedule(ws),
		Preset:   schedule.PresetState{Key: key, ShowCustom: key == schedule.PresetCustom},
	}
}

// IsNew는 아직 저장되지 않은 폼인지 확인합니다.
func (f *Form) IsNew() bool {
	return f.id == ""
}

// ID는 저장된 스케줄 ID입니다. 새 폼이면 빈 문자열입니다.
func (f *Form) ID() string {
	return f.id
}

// SelectPreset은 프리셋 선택을 초안에 반영합니다.
func (f *Form) SelectPreset(key schedule.PresetKey) error {
	state, err := schedule.ApplyPreset(&f.Draft, key)
	if err != nil {
		return err
	}
	f.Preset = state
	return nil
}

// SetChannel은 채널을 선택하고 봇 초대 여부를 확인합니다.
// 이 폼에서 이미 확인이 끝난 채널을 다시 고르면 이전 결과를 씁니다.
func (f *Form) SetChannel(ctx context.Context, ch ChannelChoice) membership.Status {
	f.Draft.ChannelID = ch.ID
	f.Draft.ChannelName = ch.Name
	if f.Draft.ChannelID == "" || f.checker == nil {
		return membership.StatusUnchecked
	}
	return f.tracker.Ensure(ctx, f.checker, f.Draft.ChannelID)
}

// ChannelChoice는 검색 결과에서 선택한 채널입니다.
type ChannelChoice struct {
	ID   string
	Name string
}

// RecheckMembership은 현재 채널의 봇 초대 여부를 다시 확인합니다.
// 확인 결과는 저장 가능 여부에 영향을 주지 않습니다.
func (f *Form) RecheckMembership(ctx context.Context) membership.Status {
	if f.Draft.ChannelID == "" || f.checker == nil {
		return membership.StatusUnchecked
	}
	return f.tracker.Check(ctx, f.checker, f.Draft.ChannelID)
}

// Membership은 현재 채널의 확인 상태입니다.
func (f *Form) Membership() membership.Status {
	return f.tracker.Status(f.Draft.ChannelID)
}

// ToggleMember는 멤버 선택을 켜고 끕니다.
func (f *Form) ToggleMember(id string) {
	ids := schedule.NewMemberIDs(f.Draft.MemberIDs...)
	if ids.Contains(id) {
		out := ids[:0]
		for _, v := range ids {
			if v != id {
				out = append(out, v)
			}
		}
		f.Draft.MemberIDs = []string(out)
		return
	}
	f.Draft.MemberIDs = []string(schedule.NewMemberIDs(append(ids, id)...))
}

// Preview는 현재 초안의 세 단계 미리보기입니다.
func (f *Form) Preview(members []member.Member, now time.Time) *schedule.Preview {
	return schedule.BuildPreview(f.Draft.ToSchedule(), members, now)
}

// Save는 초안을 검증한 뒤 생성 또는 수정합니다.
//   - 검증 실패: FieldError를 채우고 저장소를 호출하지 않습니다.
//   - 저장 실패: Banner를 채우고 초안은 그대로 둡니다.
func (f *Form) Save(ctx context.Context) (*schedule.WeeklyOutputSchedule, error) {
	f.FieldError = nil
	if err := schedule.Validate(f.Draft); err != nil {
		var fe *schedule.FieldError
		if errors.As(err, &fe) {
			f.FieldError = fe
		}
		return nil, err
	}

	var (
		ws  *schedule.WeeklyOutputSchedule
		err error
	)
	if f.IsNew() {
		ws, err = f.repo.Create(ctx, f.Draft)
	} else {
		ws, err = f.repo.Update(ctx, f.id, f.Patch())
	}
	if err != nil {
		f.Banner = BannerMessage(err)
		return nil, err
	}

	f.Banner = ""
	f.id = ws.ID
	cp := *ws
	f.original = &cp
	return ws, nil
}

// DismissBanner는 저장 실패 배너를 닫습니다.
func (f *Form) DismissBanner() {
	f.Banner = ""
}

// Patch는 원본 대비 바뀐 필드만 담은 부분 수정 요청입니다.
func (f *Form) Patch() schedule.SchedulePatch {
	var p schedule.SchedulePatch
	o := f.original
	if o == nil {
		o = &schedule.WeeklyOutputSchedule{}
	}
	d := f.Draft

	if d.Name != o.Name {
		p.Name = &d.Name
	}
	if d.ChannelID != o.ChannelID {
		p.ChannelID = &d.ChannelID
	}
	if d.ChannelName != o.ChannelName {
		p.ChannelName = &d.ChannelName
	}
	if ids := schedule.NewMemberIDs(d.MemberIDs...); !sameIDs(ids, o.MemberIDs) {
		list := []string(ids)
		p.MemberIDs = &list
	}
	if t := d.ThreadSchedule; !t.IsZero() && !t.Equal(o.ThreadSchedule) {
		p.ThreadSchedule = &t
	}
	if t := d.ReminderSchedule; !t.IsZero() && !t.Equal(o.ReminderSchedule) {
		p.ReminderSchedule = &t
	}
	if t := d.FinalSchedule; !t.IsZero() && !t.Equal(o.FinalSchedule) {
		p.FinalSchedule = &t
	}
	if !sameText(d.ThreadMessage, o.ThreadMessage) {
		p.ThreadMessage = schedule.SetText(d.ThreadMessage)
	}
	if !sameText(d.ReminderMessage, o.ReminderMessage) {
		p.ReminderMessage = schedule.SetText(d.ReminderMessage)
	}
	if !sameText(d.FinalMessage, o.FinalMessage) {
		p.FinalMessage = schedule.SetText(d.FinalMessage)
	}
	if d.IsActive != nil && *d.IsActive != o.IsActive {
		v := *d.IsActive
		p.IsActive = &v
	}
	return p
}

func sameIDs(a, b schedule.MemberIDs) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameText(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// BannerMessage는 사용자에게 보여줄 저장 실패 문구입니다.
func BannerMessage(err error) string {
	var re *schedule.RepositoryError
	if errors.As(err, &re) {
		return re.Error()
	}
	return schedule.GenericRepositoryMessage
}
