package channel

import (
	"context"
	"sync"
	"time"
)

// DebounceDelay는 마지막 입력 후 검색을 실행하기까지 기다리는 시간입니다.
const DebounceDelay = 300 * time.Millisecond

// Searcher는 채널 검색 계약입니다. (backend.Client가 만족)
type Searcher interface {
	SearchChannels(ctx context.Context, query string) ([]Channel, error)
}

// SearchResult는 한 번의 검색 결과입니다. Seq는 요청 순번입니다.
type SearchResult struct {
	Seq      uint64
	Query    string
	Channels []Channel
	Err      error
}

// SearchSession은 채널 선택 입력창의 검색 상태입니다.
//   - Type 호출이 300ms 동안 없을 때만 검색을 실행합니다.
//   - 진행 중인 검색은 취소하지 않습니다.
//   - 늦게 도착한 이전 요청의 결과는 조용히 버립니다.
type SearchSession struct {
	ctx      context.Context
	searcher Searcher
	delay    time.Duration
	onResult func(SearchResult)

	mu      sync.Mutex
	timer   *time.Timer
	pending uint64 // 디바운스 세대
	issued  uint64 // 마지막으로 보낸 요청 순번
	applied uint64 // 마지막으로 반영한 요청 순번
	latest  SearchResult
	closed  bool
	wg      sync.WaitGroup

	// deliver는 onResult 호출을 직렬화합니다. 호출 직전에 최신 여부를 다시 확인합니다.
	deliver       sync.Mutex
	beforeDeliver func(SearchResult)
}

// NewSearchSession은 새 검색 세션을 만듭니다. onResult는 최신 결과가 반영될 때마다 호출됩니다.
func NewSearchSession(ctx context.Context, searcher Searcher, onResult func(SearchResult)) *SearchSession {
	return &SearchSession{
		ctx:      ctx,
		searcher: searcher,
		delay:    DebounceDelay,
		onResult: onResult,
	}
}

// Type은 입력값이 바뀔 때 호출합니다. 이전에 예약된 검색은 취소됩니다.
func (s *SearchSession) Type(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending++
	gen := s.pending
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen, query) })
}

func (s *SearchSession) fire(gen uint64, query string) {
	s.mu.Lock()
	if s.closed || gen != s.pending {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.issue(query)
}

// Flush는 디바운스를 기다리지 않고 즉시 검색합니다. (Enter 입력 등)
func (s *SearchSession) Flush(query string) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending++
	s.mu.Unlock()
	s.issue(query)
}

func (s *SearchSession) issue(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.issued++
	seq := s.issued
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		channels, err := s.searcher.SearchChannels(s.ctx, query)
		s.apply(SearchResult{Seq: seq, Query: query, Channels: channels, Err: err})
	}()
}

// apply는 더 최신 결과가 이미 반영된 경우 false를 반환합니다.
func (s *SearchSession) apply(r SearchResult) bool {
	s.mu.Lock()
	if r.Seq <= s.applied {
		s.mu.Unlock()
		return false
	}
	s.applied = r.Seq
	s.latest = r
	cb, hook := s.onResult, s.beforeDeliver
	s.mu.Unlock()

	if hook != nil {
		hook(r)
	}

	s.deliver.Lock()
	defer s.deliver.Unlock()
	s.mu.Lock()
	current := r.Seq == s.applied
	s.mu.Unlock()
	if !current {
		return false
	}
	if cb != nil {
		cb(r)
	}
	return true
}

// Latest는 마지막으로 반영된 결과입니다.
func (s *SearchSession) Latest() SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Close는 예약된 검색을 취소하고 진행 중인 검색이 끝날 때까지 기다립니다.
func (s *SearchSession) Close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	s.wg.Wait()
}
