package schedule

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// KST는 모든 스케줄 시간을 해석하는 조직 기준 타임존입니다.
// (tzdata 의존을 피하기 위해 고정 오프셋 사용)
var KST = time.FixedZone("KST", 9*60*60)

// MinuteStep은 편집 컨트롤이 허용하는 분 단위입니다. (0, 5, ..., 55)
const MinuteStep = 5

// Weekday는 'mon'..'sun' 형태의 요일 값입니다.
type Weekday string

const (
	Mon Weekday = "mon"
	Tue Weekday = "tue"
	Wed Weekday = "wed"
	Thu Weekday = "thu"
	Fri Weekday = "fri"
	Sat Weekday = "sat"
	Sun Weekday = "sun"
)

var weekdayIndex = map[Weekday]time.Weekday{
	Mon: time.Monday,
	Tue: time.Tuesday,
	Wed: time.Wednesday,
	Thu: time.Thursday,
	Fri: time.Friday,
	Sat: time.Saturday,
	Sun: time.Sunday,
}

var weekdayAbbrev = map[Weekday]string{
	Mon: "Mon", Tue: "Tue", Wed: "Wed", Thu: "Thu", Fri: "Fri", Sat: "Sat", Sun: "Sun",
}

// Valid는 알려진 요일인지 확인합니다.
func (d Weekday) Valid() bool {
	_, ok := weekdayIndex[d]
	return ok
}

// Abbrev는 표시용 약어("Thu")를 반환합니다.
func (d Weekday) Abbrev() string {
	return weekdayAbbrev[d]
}

// TimeWeekday는 표준 라이브러리의 time.Weekday로 변환합니다.
func (d Weekday) TimeWeekday() time.Weekday {
	return weekdayIndex[d]
}

// ScheduleTime은 주간 사이클 안의 한 발송 시점(요일, 시, 분)입니다.
// 타임존은 인스턴스마다 저장하지 않고 항상 KST로 해석합니다.
type ScheduleTime struct {
	DayOfWeek Weekday `json:"day_of_week"`
	Hour      int     `json:"hour"`
	Minute    int     `json:"minute"`
}

// NewScheduleTime은 범위를 검증한 뒤 ScheduleTime을 생성합니다.
func NewScheduleTime(day Weekday, hour, minute int) (ScheduleTime, error) {
	t := ScheduleTime{DayOfWeek: day, Hour: hour, Minute: minute}
	if err := t.Validate(); err != nil {
		return ScheduleTime{}, err
	}
	return t, nil
}

// MustScheduleTime은 고정 값(기본값, 프리셋 등) 초기화용입니다.
func MustScheduleTime(day Weekday, hour, minute int) ScheduleTime {
	t, err := NewScheduleTime(day, hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// Validate는 요일/시/분이 허용 범위인지 검사합니다.
func (t ScheduleTime) Validate() error {
	if !t.DayOfWeek.Valid() {
		return fmt.Errorf("%w: 알 수 없는 요일 %q", ErrInvalidScheduleTime, t.DayOfWeek)
	}
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("%w: 시(hour)는 0~23 이어야 합니다 (%d)", ErrInvalidScheduleTime, t.Hour)
	}
	if t.Minute < 0 || t.Minute > 59 || t.Minute%MinuteStep != 0 {
		return fmt.Errorf("%w: 분(minute)은 0~55 사이 5분 단위여야 합니다 (%d)", ErrInvalidScheduleTime, t.Minute)
	}
	return nil
}

// IsZero는 값이 지정되지 않았는지 확인합니다. 세 필드가 모두 비어 있어야 합니다.
// {"hour":25}처럼 일부만 채운 값은 zero가 아니므로 검증 대상입니다.
func (t ScheduleTime) IsZero() bool {
	return t.DayOfWeek == "" && t.Hour == 0 && t.Minute == 0
}

// Format은 "Thu 17:00" 형태의 표시 문자열을 만듭니다.
func (t ScheduleTime) Format() string {
	return fmt.Sprintf("%s %02d:%02d", t.DayOfWeek.Abbrev(), t.Hour, t.Minute)
}

// Equal은 세 필드가 모두 같을 때만 true입니다.
func (t ScheduleTime) Equal(o ScheduleTime) bool {
	return t.DayOfWeek == o.DayOfWeek && t.Hour == o.Hour && t.Minute == o.Minute
}

// Value는 JSON 컬럼으로 저장하기 위한 driver.Valuer 구현입니다.
func (t ScheduleTime) Value() (driver.Value, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan은 JSON 컬럼 값을 읽어옵니다.
func (t *ScheduleTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	case nil:
		*t = ScheduleTime{}
		return nil
	default:
		return fmt.Errorf("ScheduleTime: 지원하지 않는 컬럼 타입 %T", src)
	}
}
