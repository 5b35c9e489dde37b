package spystore

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	devenv "brotherowl-backend/dev/env"
	"brotherowl-backend/lib/timezone"

	"github.com/bytedance/sonic"
	"github.com/titanous/json5"
)

const dateLayout = "2006-01-02 15:04:05"

// fileEntry is one value of the spies.json object, keyed by player id.
type fileEntry struct {
	Strength  int64   `json:"strength"`
	Speed     int64   `json:"speed"`
	Dexterity int64   `json:"dexterity"`
	Defense   int64   `json:"defense"`
	Total     int64   `json:"total"`
	Source    string  `json:"source,omitempty"`
	Timestamp float64 `json:"timestamp"`
	Date      string  `json:"date"`
}

func (e fileEntry) record(playerID string) Record {
	sec, frac := math.Modf(e.Timestamp)
	return Record{
		PlayerID:  playerID,
		Strength:  e.Strength,
		Speed:     e.Speed,
		Dexterity: e.Dexterity,
		Defense:   e.Defense,
		Total:     e.Total,
		Source:    e.Source,
		Timestamp: time.Unix(int64(sec), int64(frac*1e9)).In(timezone.Location),
	}
}

func entryFrom(r Record) fileEntry {
	return fileEntry{
		Strength:  r.Strength,
		Speed:     r.Speed,
		Dexterity: r.Dexterity,
		Defense:   r.Defense,
		Total:     r.Total,
		Source:    r.Source,
		Timestamp: float64(r.Timestamp.UnixNano()) / 1e9,
		Date:      r.Timestamp.In(timezone.Location).Format(dateLayout),
	}
}

// FileStore keeps every record in one JSON object on disk. The whole file is
// read on each call and replaced atomically on each write.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func isFileLocation(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasSuffix(lower, ".json") || strings.HasSuffix(lower, ".json5")
}

func OpenFile(path string) (*FileStore, error) {
	path, err := devenv.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	err = os.MkdirAll(filepath.Dir(path), 0777)
	if err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) load() (map[string]fileEntry, error) {
	contents, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]fileEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(contents)) == "" {
		return map[string]fileEntry{}, nil
	}

	entries := map[string]fileEntry{}
	err = json5.Unmarshal(contents, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *FileStore) save(entries map[string]fileEntry) error {
	contents, err := sonic.ConfigStd.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".spies-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(contents)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Sync()
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Put(ctx context.Context, record Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return Record{}, err
	}
	record = record.withTotal()
	if record.Timestamp.IsZero() {
		record.Timestamp = timezone.Now()
	}
	record.Timestamp = record.Timestamp.In(timezone.Location)
	entries[record.PlayerID] = entryFrom(record)

	err = s.save(entries)
	if err != nil {
		return Record{}, err
	}
	return record, nil
}

func (s *FileStore) Get(ctx context.Context, playerID string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return Record{}, err
	}
	entry, ok := entries[playerID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return entry.record(playerID), nil
}

func (s *FileStore) List(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(entries))
	for id, entry := range entries {
		out = append(out, entry.record(id))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[playerID]; !ok {
		return ErrNotFound
	}
	delete(entries, playerID)
	return s.save(entries)
}

func (s *FileStore) Close() error {
	return nil
}
