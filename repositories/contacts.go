package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"party-planner/domain"

	"github.com/dgraph-io/badger/v4"
)

const contactPrefix = "contact:"

// ContactCache persists the most recent address-book snapshot in BadgerDB.
// Keys are formatted as "contact:{position_padded}:{handle}" so that a
// prefix scan returns contacts in their original fetch order, which the
// matcher relies on for stable ranking ties.
type ContactCache struct {
	db  *badger.DB
	log *slog.Logger
}

func NewContactCache(db *badger.DB, log *slog.Logger) ContactCache {
	return ContactCache{db: db, log: log}
}

// cachedContact is the on-disk value shape, shared with the list files.
// Both fields are mandatory: a member without a name or handle fails the
// list store's schema validation.
type cachedContact struct {
	Name   string `json:"name" validate:"required"`
	Handle string `json:"phone" validate:"required"`
}

// Snapshot returns the cached contacts, or an empty slice when nothing has
// been synced yet.
func (c ContactCache) Snapshot() ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(contactPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var cached cachedContact
				if err := json.Unmarshal(val, &cached); err != nil {
					return fmt.Errorf("decoding %s: %w", it.Item().Key(), err)
				}
				contacts = append(contacts, domain.Contact{
					Name:   cached.Name,
					Handle: cached.Handle,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// Replace swaps the whole snapshot inside a single transaction: either the
// new snapshot is fully written or the previous one stays intact. Handles
// must be unique within a snapshot; later duplicates are dropped.
func (c ContactCache) Replace(contacts []domain.Contact) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
		prefix := []byte(contactPrefix)
		var stale [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()
		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		seen := make(map[string]bool, len(contacts))
		position := 0
		for _, contact := range contacts {
			if seen[contact.Handle] {
				c.log.Warn("dropping duplicate handle from snapshot", "handle", contact.Handle)
				continue
			}
			seen[contact.Handle] = true

			value, err := json.Marshal(cachedContact{Name: contact.Name, Handle: contact.Handle})
			if err != nil {
				return err
			}
			key := fmt.Sprintf("%s%06d:%s", contactPrefix, position, contact.Handle)
			if err := txn.Set([]byte(key), value); err != nil {
				return err
			}
			position++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replacing contact cache: %w", err)
	}
	c.log.Debug("contact cache replaced", "contacts", len(contacts))
	return nil
}

// Count returns the number of cached contacts without decoding values.
func (c ContactCache) Count() (int, error) {
	count := 0
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
		defer it.Close()
		prefix := []byte(contactPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
