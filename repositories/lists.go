package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"party-planner/domain"
	apperrors "party-planner/errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// ListStore keeps one JSON file per party list under a single directory.
// The list's name doubles as its storage identity.
type ListStore struct {
	dir      string
	log      *slog.Logger
	validate *validator.Validate
}

func NewListStore(dir string, log *slog.Logger) (*ListStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating lists directory: %w", err)
	}
	return &ListStore{dir: dir, log: log, validate: validator.New()}, nil
}

type listFile struct {
	Name     string          `json:"name" validate:"required"`
	Contacts []cachedContact `json:"contacts" validate:"dive"`
}

// Create claims a new list name. It fails with ErrDuplicateList if a file
// for that name already exists on disk.
func (s *ListStore) Create(name string) (*domain.PartyList, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path(name)); err == nil {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrDuplicateList, name)
	}
	list := domain.NewPartyList(name)
	if err := s.Save(list); err != nil {
		return nil, err
	}
	return list, nil
}

// Load reads a list by name. Missing files yield ErrListNotFound; payloads
// failing schema validation or carrying duplicate handles yield
// ErrCorruptList.
func (s *ListStore) Load(name string) (*domain.PartyList, error) {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrListNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	var file listFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", apperrors.ErrCorruptList, name, err)
	}
	if err := s.validate.Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", apperrors.ErrCorruptList, name, err)
	}
	handles := lo.Map(file.Contacts, func(c cachedContact, _ int) string { return c.Handle })
	if len(lo.Uniq(handles)) != len(handles) {
		return nil, fmt.Errorf("%w: %q: duplicate handles", apperrors.ErrCorruptList, name)
	}

	list := domain.NewPartyList(file.Name)
	for _, c := range file.Contacts {
		list.Members = append(list.Members, domain.Contact{Name: c.Name, Handle: c.Handle})
	}
	return list, nil
}

// Save overwrites the list's file atomically: the payload is written to a
// temp file in the same directory and renamed over the old one, so an
// interrupted save leaves the previous version readable.
func (s *ListStore) Save(list *domain.PartyList) error {
	if err := validName(list.Name); err != nil {
		return err
	}
	file := listFile{
		Name: list.Name,
		Contacts: lo.Map(list.Members, func(m domain.Contact, _ int) cachedContact {
			return cachedContact{Name: m.Name, Handle: m.Handle}
		}),
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, list.Name+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path(list.Name)); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	s.log.Debug("list saved", "name", list.Name, "members", list.Len())
	return nil
}

// Names returns the saved list names, sorted.
func (s *ListStore) Names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a list's file. Deleting is only ever user-initiated.
func (s *ListStore) Delete(name string) error {
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %q", apperrors.ErrListNotFound, name)
	}
	return err
}

func (s *ListStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// validName rejects empty names and names that would escape the directory.
func validName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("list name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("invalid list name %q", name)
	}
	return nil
}
