// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recording is one annotated wav file.
type Recording struct {
	Path        string `gorm:"primaryKey"`
	DurationMS  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Annotations []AnnotationRow `gorm:"foreignKey:RecordingPath;references:Path;constraint:OnDelete:CASCADE"`
}

// AnnotationRow is one point annotation of a recording.
type AnnotationRow struct {
	ID            string  `gorm:"primaryKey"`
	RecordingPath string  `gorm:"index:idx_annotations_recording_time,priority:1;not null"`
	Time          float64 `gorm:"index:idx_annotations_recording_time,priority:2"`
	Label         string  `gorm:"not null"`
	Position      int     // index in time order within the recording
	CreatedAt     time.Time
}

// TableName keeps the table name short.
func (AnnotationRow) TableName() string {
	return "annotations"
}

// BeforeCreate assigns an id to rows created without one.
func (a *AnnotationRow) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
