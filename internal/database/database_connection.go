package database

import (
	"fmt"
	"net/url"
	"time"
	_ "time/tzdata"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// DBI는 MySQL 접속 정보입니다.
type DBI struct {
	User     string
	Password string
	Endpoint string
	Port     int
	Database string
}

// (커넥션 풀 기본값)
const (
	maxOpenConns    = 20
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// DSN (Data Source Name)
//   - parseTime=true: DATETIME -> time.Time
//   - clientFoundRows=true: 값이 같아도 UPDATE 대상이 있으면 RowsAffected=1 (없는 ID 판별용)
//   - loc=Asia/Seoul + time_zone='+09:00': 세션이 NOW()/CURRENT_TIMESTAMP를 KST로 기록하고 같은 시간대로 읽음
func (i DBI) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&clientFoundRows=true&loc=%s&time_zone=%s",
		i.User, i.Password, i.Endpoint, i.Port, i.Database, url.QueryEscape("Asia/Seoul"), url.QueryEscape("'+09:00'"))
}

// CreateConnection
func CreateConnection(i DBI) (*sqlx.DB, error) {
	db, err := sqlx.Connect("mysql", i.DSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return db, nil
}
