package entity

import "time"

// JournalEntry carries the plaintext note. The sealed form exists only in
// storage.
type JournalEntry struct {
	ID        int64
	UserID    int64
	Title     string
	Note      string
	Mood      *int
	EntryType string
	CreatedAt time.Time
}

// JournalRecord is a journal entry as persisted.
type JournalRecord struct {
	ID         int64
	UserID     int64
	Title      string
	SealedNote []byte
	Mood       *int
	EntryType  string
	CreatedAt  time.Time
}
