// Package spystore persists spy records, the stats a faction member
// gathered on an enemy or the last stats fetched from TornStats.
package spystore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("no spy record for player")

type Record struct {
	PlayerID  string
	Strength  int64
	Speed     int64
	Dexterity int64
	Defense   int64
	// Total is always the sum of the four stats, stores compute it on Put.
	Total     int64
	Source    string
	Timestamp time.Time
}

func (r Record) withTotal() Record {
	r.Total = r.Strength + r.Speed + r.Dexterity + r.Defense
	return r
}

type Store interface {
	// Put inserts or replaces the record of a player and returns it as stored.
	Put(ctx context.Context, record Record) (Record, error)
	Get(ctx context.Context, playerID string) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, playerID string) error
	Close() error
}

// Open picks a store from a location: a path ending in .json is a FileStore,
// everything else goes to OpenSQL.
func Open(location string) (Store, error) {
	if isFileLocation(location) {
		return OpenFile(location)
	}
	return OpenSQL(location)
}
