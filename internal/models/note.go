package models

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NoteAction is an operation checked against note ownership
type NoteAction string

const (
	NoteActionRead   NoteAction = "read"
	NoteActionUpdate NoteAction = "update"
	NoteActionDelete NoteAction = "delete"
)

// NoteArchive is the object written to storage when a tenant's notes are snapshotted
type NoteArchive struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	TenantSlug string    `json:"tenant_slug"`
	Plan       Plan      `json:"plan"`
	TakenAt    time.Time `json:"taken_at"`
	Notes      []*Note   `json:"notes"`
}

// NoteRequest is the payload for creating or updating a note
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
