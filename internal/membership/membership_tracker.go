package membership

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentChecks는 일괄 확인 시 동시에 실행할 최대 호출 수입니다.
const maxConcurrentChecks = 8

// Tracker는 채널별 확인 상태를 보관합니다. 한 화면(세션) 동안 결과가 유지되며,
// 다시 확인하려면 Check/BatchCheck를 명시적으로 호출해야 합니다.
type Tracker struct {
	mu       sync.RWMutex
	statuses map[string]Status
}

// NewTracker는 빈 Tracker를 생성합니다.
func NewTracker() *Tracker {
	return &Tracker{statuses: make(map[string]Status)}
}

// Status는 채널의 현재 상태입니다. 확인한 적이 없으면 unchecked입니다.
func (t *Tracker) Status(channelID string) Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if st, ok := t.statuses[channelID]; ok {
		return st
	}
	return StatusUnchecked
}

func (t *Tracker) set(channelID string, st Status) {
	t.mu.Lock()
	t.statuses[channelID] = st
	t.mu.Unlock()
}

// Snapshot은 현재 상태의 복사본입니다.
func (t *Tracker) Snapshot() map[string]Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]Status, len(t.statuses))
	for k, v := range t.statuses {
		out[k] = v
	}
	return out
}

// Reset은 채널 상태를 unchecked로 되돌립니다.
func (t *Tracker) Reset(channelID string) {
	t.mu.Lock()
	delete(t.statuses, channelID)
	t.mu.Unlock()
}

// Check는 채널 하나를 (다시) 확인합니다.
func (t *Tracker) Check(ctx context.Context, checker Checker, channelID string) Status {
	t.set(channelID, StatusChecking)
	result, err := checker.CheckMembership(ctx, channelID)
	if err != nil {
		log.Warnf("봇 초대 여부 확인 실패 (채널: %s): %v", channelID, err)
	}
	st := StatusFor(result, err)
	t.set(channelID, st)
	return st
}

// Ensure는 이미 member/not_member로 끝난 채널은 다시 확인하지 않습니다.
// error나 미확인 상태면 Check와 같습니다.
func (t *Tracker) Ensure(ctx context.Context, checker Checker, channelID string) Status {
	if st := t.Status(channelID); st.Terminal() && st != StatusError {
		return st
	}
	return t.Check(ctx, checker, channelID)
}

// BatchCheck는 채널 ID를 중복 제거한 뒤 채널당 한 번씩 동시에 확인합니다.
// onResolve는 각 채널의 확인이 끝나는 즉시(다른 채널을 기다리지 않고) 호출되며,
// 여러 고루틴에서 동시에 호출될 수 있습니다. 발행한 확인 수를 반환합니다.
func (t *Tracker) BatchCheck(ctx context.Context, checker Checker, channelIDs []string, onResolve func(channelID string, st Status)) int {
	distinct := Distinct(channelIDs)
	for _, id := range distinct {
		t.set(id, StatusChecking)
	}

	var eg errgroup.Group
	eg.SetLimit(maxConcurrentChecks)
	for _, id := range distinct {
		channelID := id
		eg.Go(func() error {
			st := t.Check(ctx, checker, channelID)
			if onResolve != nil {
				onResolve(channelID, st)
			}
			return nil
		})
	}
	_ = eg.Wait()
	return len(distinct)
}

// Distinct는 빈 값을 제외하고 처음 등장한 순서대로 중복을 제거합니다.
func Distinct(channelIDs []string) []string {
	seen := make(map[string]bool, len(channelIDs))
	out := make([]string, 0, len(channelIDs))
	for _, id := range channelIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
