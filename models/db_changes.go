package models

import "time"

// DBChange is one row of the change feed written by database triggers.
// The change monitor polls unprocessed rows and turns them into realtime
// events.
type DBChange struct {
	ID         int64     `gorm:"primaryKey;column:id" json:"id"`
	TableName  string    `gorm:"column:table_name;type:varchar(50);not null" json:"table_name"`
	RecordID   int64     `gorm:"column:record_id;not null" json:"record_id"`
	ActionType string    `gorm:"column:action_type;type:varchar(10);not null" json:"action_type"`
	ChangedAt  time.Time `gorm:"column:changed_at;not null" json:"changed_at"`
	Processed  bool      `gorm:"column:processed;not null;default:false" json:"processed"`
}
