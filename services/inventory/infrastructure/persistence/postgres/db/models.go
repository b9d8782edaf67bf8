package db

import (
	"database/sql"
	"time"
)

type Image struct {
	ID           int64
	StorageKey   string
	Title        string
	Description  string
	MimeType     string
	ReplacedByID sql.NullInt64
	CreatedAt    time.Time
	ReplacedAt   sql.NullTime
}

type Item struct {
	ID             int64
	Name           string
	TypeID         sql.NullInt64
	Description    string
	ExpiresAt      sql.NullTime
	OriginalWeight sql.NullFloat64
	CurrentWeight  sql.NullFloat64
	ImageID        sql.NullInt64
	IsPresent      bool
	PosPlate       sql.NullInt32
	PosRow         sql.NullInt32
	PosCol         sql.NullInt32
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      sql.NullTime
}

type ItemEvent struct {
	ID       int64
	ItemID   int64
	Type     string
	Ts       time.Time
	Weight   sql.NullFloat64
	PosPlate sql.NullInt32
	PosRow   sql.NullInt32
	PosCol   sql.NullInt32
	ImageID  sql.NullInt64
}

type ItemType struct {
	ID          int64
	Name        string
	Description string
	ParentID    sql.NullInt64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Tag struct {
	ID         int64
	Name       string
	Uid        string
	ItemID     sql.NullInt64
	CreatedAt  time.Time
	AttachedAt sql.NullTime
	UpdatedAt  time.Time
}
