package member

import (
	"context"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// Store
type Store struct {
	db *sqlx.DB
}

// NewStore
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// GetAllMembers
func (s *Store) GetAllMembers(ctx context.Context) ([]Member, error) {
	var members []Member
	query := `
		SELECT id, user_name, email, slack_user_id, created_at, updated_at
		FROM members
		ORDER BY user_name ASC
	`
	err := s.db.SelectContext(ctx, &members, query)
	if err != nil {
		log.Errorf("GetAllMembers DB 에러: %v", err)
		return nil, err
	}
	return members, nil
}

// GetMembersWithoutIdentity는 Slack 계정이 연결되지 않은 멤버 목록입니다.
func (s *Store) GetMembersWithoutIdentity(ctx context.Context) ([]Member, error) {
	var members []Member
	query := `
		SELECT id, user_name, email, slack_user_id, created_at, updated_at
		FROM members
		WHERE slack_user_id IS NULL AND email <> ''
	`
	err := s.db.SelectContext(ctx, &members, query)
	if err != nil {
		log.Errorf("GetMembersWithoutIdentity DB 에러: %v", err)
		return nil, err
	}
	return members, nil
}

// CountMembersWithIdentity (대시보드용)
func (s *Store) CountMembersWithIdentity(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM members WHERE slack_user_id IS NOT NULL")
	if err != nil {
		log.Errorf("CountMembersWithIdentity DB 에러: %v", err)
		return 0, err
	}
	return count, nil
}

// UpdateSlackUserID
func (s *Store) UpdateSlackUserID(ctx context.Context, id, slackUserID string) error {
	query := "UPDATE members SET slack_user_id = ?, updated_at = NOW() WHERE id = ?"
	_, err := s.db.ExecContext(ctx, query, slackUserID, id)
	if err != nil {
		log.Errorf("UpdateSlackUserID DB 에러 (ID: %s): %v", id, err)
		return err
	}
	return nil
}
