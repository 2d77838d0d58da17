package models

import "time"

const SettingPasscodeHash = "passcode_hash"

type Setting struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}
