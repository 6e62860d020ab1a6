package services

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/DimaKostyrskyj/PriceBot/internal/repository"
)

// SettingsService is the guild configuration store. Reads go through an
// immutable snapshot swapped atomically, so a handler never observes a
// half-applied reload.
type SettingsService interface {
	String(key, def string) string
	RoleIDs(key string) []string
	RoleID(key string) string
	ChannelID(key string) string
	Color(name string) int
	All() map[string]string

	Set(key, value string) error
	Reload() error
}

type settingsService struct {
	repo     repository.SettingRepository
	snapshot atomic.Value // map[string]string
}

const defaultColor = 0xFFD700

var defaultSettings = map[string]string{
	"prefix":         "!",
	"colors.primary": "0xFFD700",
	"colors.success": "0x00FF00",
	"colors.error":   "0xFF0000",
	"colors.warning": "0xFFA500",
	"colors.info":    "0x00BFFF",
}

func NewSettingsService(repo repository.SettingRepository) (SettingsService, error) {
	s := &settingsService{repo: repo}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *settingsService) current() map[string]string {
	m, _ := s.snapshot.Load().(map[string]string)
	return m
}

func (s *settingsService) String(key, def string) string {
	raw, ok := s.current()[key]
	if !ok {
		return def
	}

	// Values are stored JSON-encoded; older rows may hold bare strings.
	var v string
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func (s *settingsService) RoleIDs(key string) []string {
	raw, ok := s.current()[key]
	if !ok {
		return nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err == nil {
		return ids
	}

	// fallback: comma separated
	var out []string
	for _, part := range strings.Split(s.String(key, ""), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *settingsService) RoleID(key string) string {
	return s.String(key, "")
}

func (s *settingsService) ChannelID(key string) string {
	return s.String(key, "")
}

func (s *settingsService) Color(name string) int {
	raw := s.String("colors."+name, "")
	if raw == "" {
		return defaultColor
	}

	clean := strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "#")
	v, err := strconv.ParseInt(clean, 16, 64)
	if err != nil {
		return defaultColor
	}
	return int(v)
}

func (s *settingsService) All() map[string]string {
	cur := s.current()
	out := make(map[string]string, len(cur))
	for k, v := range cur {
		out[k] = v
	}
	return out
}

// Set persists the value and swaps in a fresh snapshot. The value may be a
// bare string, a JSON string or a JSON array of ids.
func (s *settingsService) Set(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("setting key is required")
	}

	if !json.Valid([]byte(value)) {
		b, err := json.Marshal(value)
		if err != nil {
			return err
		}
		value = string(b)
	}

	if err := s.repo.Upsert(key, value); err != nil {
		return err
	}
	return s.Reload()
}

// Reload replaces the whole snapshot. Concurrent readers see either the old
// or the new map, never a partially written one.
func (s *settingsService) Reload() error {
	stored, err := s.repo.FindAll()
	if err != nil {
		return err
	}

	next := make(map[string]string, len(defaultSettings)+len(stored))
	for k, v := range defaultSettings {
		b, _ := json.Marshal(v)
		next[k] = string(b)
	}
	for k, v := range stored {
		next[k] = v
	}

	s.snapshot.Store(next)
	return nil
}
