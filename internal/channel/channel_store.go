package channel

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// (한 번에 INSERT 할 최대 행 수)
const upsertBatchSize = 200

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Store
type Store struct {
	db *sqlx.DB
}

// NewStore
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// CountChannels (대시보드용, 보관된 채널 제외)
func (s *Store) CountChannels(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM channels WHERE is_archived = FALSE")
	if err != nil {
		log.Errorf("CountChannels DB 에러: %v", err)
		return 0, err
	}
	return count, nil
}

// SearchChannels는 채널명 부분 일치(대소문자 무시) 검색입니다.
func (s *Store) SearchChannels(ctx context.Context, query string, limit int) ([]Channel, error) {
	channels := []Channel{}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	q := `
		SELECT id, channel_name, is_private, is_archived, num_members, created_at, updated_at
		FROM channels
		WHERE is_archived = FALSE AND LOWER(channel_name) LIKE ?
		ORDER BY channel_name ASC
		LIMIT ?
	`
	err := s.db.SelectContext(ctx, &channels, q, pattern, limit)
	if err != nil {
		log.Errorf("SearchChannels DB 에러 (q: %s): %v", query, err)
		return nil, err
	}
	return channels, nil
}

// GetChannelByID
func (s *Store) GetChannelByID(ctx context.Context, id string) (*Channel, error) {
	var ch Channel
	q := `
		SELECT id, channel_name, is_private, is_archived, num_members, created_at, updated_at
		FROM channels
		WHERE id = ?
	`
	err := s.db.GetContext(ctx, &ch, q, id)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Errorf("GetChannelByID DB 에러: %v", err)
		}
		return nil, err
	}
	return &ch, nil
}

// UpsertChannels는 Slack에서 가져온 채널 목록을 한 트랜잭션으로 반영합니다.
func (s *Store) UpsertChannels(ctx context.Context, channels []Channel) error {
	if len(channels) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Errorf("UpsertChannels 트랜잭션 시작 실패: %v", err)
		return err
	}
	defer tx.Rollback()

	for start := 0; start < len(channels); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(channels) {
			end = len(channels)
		}

		query := "INSERT INTO channels (id, channel_name, is_private, is_archived, num_members) VALUES "
		var args []interface{}
		var valueStrings []string
		for _, ch := range channels[start:end] {
			valueStrings = append(valueStrings, "(?, ?, ?, ?, ?)")
			args = append(args, ch.ID, ch.ChannelName, ch.IsPrivate, ch.IsArchived, ch.NumMembers)
		}
		query = query + strings.Join(valueStrings, ",") + `
			ON DUPLICATE KEY UPDATE
				channel_name = VALUES(channel_name),
				is_private = VALUES(is_private),
				is_archived = VALUES(is_archived),
				num_members = VALUES(num_members),
				updated_at = NOW()`

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.Errorf("UpsertChannels Bulk INSERT 실패: %v", err)
			return err
		}
	}
	return tx.Commit()
}
