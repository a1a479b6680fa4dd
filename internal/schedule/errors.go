package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRequiredField는 로컬 검증 실패입니다. 백엔드로 전송되지 않습니다.
	ErrMissingRequiredField = errors.New("필수 입력값이 비어 있습니다")
	ErrInvalidScheduleTime  = errors.New("유효하지 않은 스케줄 시간입니다")
	ErrUnknownPreset        = errors.New("알 수 없는 프리셋입니다")
	ErrScheduleNotFound     = errors.New("스케줄을 찾을 수 없습니다")
)

// GenericRepositoryMessage는 서버 메시지가 없을 때 사용하는 기본 문구입니다.
const GenericRepositoryMessage = "요청을 처리하지 못했습니다. 잠시 후 다시 시도해 주세요."

// FieldError는 어떤 필드가 비어 있는지 알려줍니다.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField.Error(), e.Field)
}

func (e *FieldError) Unwrap() error {
	return ErrMissingRequiredField
}

// RepositoryError는 create/update/delete/list 등 저장소 작업의 실패입니다.
// Message는 사용자에게 그대로 보여줄 문구입니다.
type RepositoryError struct {
	Op      string
	Message string
	Err     error
}

func (e *RepositoryError) Error() string {
	if e.Message == "" {
		return GenericRepositoryMessage
	}
	return e.Message
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError는 메시지가 비어 있으면 기본 문구로 채웁니다.
func NewRepositoryError(op, message string, err error) *RepositoryError {
	if message == "" {
		message = GenericRepositoryMessage
	}
	return &RepositoryError{Op: op, Message: message, Err: err}
}
