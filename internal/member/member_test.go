package member

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/slack-go/slack"
)

type fakeStore struct {
	members []Member
	updates map[string]string
}

func (f *fakeStore) GetAllMembers(ctx context.Context) ([]Member, error) { return f.members, nil }

func (f *fakeStore) GetMembersWithoutIdentity(ctx context.Context) ([]Member, error) {
	var out []Member
	for _, m := range f.members {
		if !m.HasChannelIdentity() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateSlackUserID(ctx context.Context, id, slackUserID string) error {
	f.updates[id] = slackUserID
	return nil
}

type fakeLookup map[string]string

func (f fakeLookup) GetUserByEmailContext(ctx context.Context, email string) (*slack.User, error) {
	id, ok := f[email]
	if !ok {
		return nil, errors.New("users_not_found")
	}
	return &slack.User{ID: id}, nil
}

func strp(s string) *string { return &s }

func TestLinkChannelIdentities(t *testing.T) {
	store := &fakeStore{
		members: []Member{
			{ID: "m1", UserName: "alice", Email: "alice@corp.io"},
			{ID: "m2", UserName: "bob", Email: "bob@corp.io"},
			{ID: "m3", UserName: "carol", Email: "carol@corp.io", SlackUserID: strp("U3")},
		},
		updates: map[string]string{},
	}
	svc := NewService(store, fakeLookup{"alice@corp.io": "U1", "carol@corp.io": "U3"})

	linked, err := svc.LinkChannelIdentities(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if linked != 1 || store.updates["m1"] != "U1" || len(store.updates) != 1 {
		t.Fatalf("linked=%d updates=%v", linked, store.updates)
	}
}

func TestLinkWithoutLookupIsNoop(t *testing.T) {
	svc := NewService(&fakeStore{updates: map[string]string{}}, nil)
	if n, err := svc.LinkChannelIdentities(context.Background()); n != 0 || err != nil {
		t.Fatalf("n=%d err=%v", n, err)
	}
}

func TestListMembersWithChannelIdentity(t *testing.T) {
	store := &fakeStore{members: []Member{
		{ID: "m1", UserName: "alice"},
		{ID: "m2", Email: "bob@corp.io", SlackUserID: strp("U2")},
		{ID: "m3", UserName: "eve", SlackUserID: strp("")},
	}}
	views, err := NewService(store, nil).ListMembersWithChannelIdentity(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{false, true, false}
	for i, v := range views {
		if v.HasChannelIdentity != want[i] {
			t.Fatalf("views[%d].HasChannelIdentity = %v", i, v.HasChannelIdentity)
		}
	}
	if views[1].DisplayName() != "bob@corp.io" {
		t.Fatalf("display name = %q", views[1].DisplayName())
	}
}

func TestStoreGetAllMembers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	store := NewStore(sqlx.NewDb(db, "mysql"))

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_name", "email", "slack_user_id", "created_at", "updated_at"}).
		AddRow("m1", "alice", "alice@corp.io", nil, now, now).
		AddRow("m2", "bob", "bob@corp.io", "U2", now, now)
	mock.ExpectQuery(`(?s)SELECT.+FROM members\s+ORDER BY user_name`).WillReturnRows(rows)

	members, err := store.GetAllMembers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 2 || members[0].SlackUserID != nil || *members[1].SlackUserID != "U2" {
		t.Fatalf("members = %+v", members)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestStoreUpdateSlackUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	store := NewStore(sqlx.NewDb(db, "mysql"))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE members SET slack_user_id = ?, updated_at = NOW() WHERE id = ?")).
		WithArgs("U1", "m1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := store.UpdateSlackUserID(context.Background(), "m1", "U1"); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestStoreCountMembersWithIdentityUsesContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	store := NewStore(sqlx.NewDb(db, "mysql"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM members WHERE slack_user_id IS NOT NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	n, err := store.CountMembersWithIdentity(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("n=%d err=%v", n, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.CountMembersWithIdentity(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
