package boltstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// DeviceStore implements database.DeviceStore using BoltDB. Sessions
// are stored by token, with a secondary index by user so a ban cascade
// can delete all of a user's sessions in one transaction.
type DeviceStore struct {
	db    *bolt.DB
	owner *Store
}

var _ database.DeviceStore = (*DeviceStore)(nil)

// userKey builds the secondary-index key: "userID:token"
func userKey(userID, token string) []byte {
	return []byte(userID + ":" + token)
}

// SaveSession persists a session (upsert by token).
func (s *DeviceStore) SaveSession(ctx context.Context, session models.DeviceSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		sessions := tx.Bucket(BucketSessions)
		byUser := tx.Bucket(BucketSessionsByUser)
		if sessions == nil || byUser == nil {
			return fmt.Errorf("session buckets not found")
		}

		if err := sessions.Put([]byte(session.Token), data); err != nil {
			return err
		}
		return byUser.Put(userKey(session.UserID, session.Token), nil)
	})
}

// GetSession retrieves a session by token. Returns
// database.ErrNotFound when the token is unknown (or was revoked by a
// ban cascade).
func (s *DeviceStore) GetSession(ctx context.Context, token string) (*models.DeviceSession, error) {
	var session models.DeviceSession

	err := s.db.View(func(tx *bolt.Tx) error {
		sessions := tx.Bucket(BucketSessions)
		if sessions == nil {
			return fmt.Errorf("session bucket not found")
		}

		data := sessions.Get([]byte(token))
		if data == nil {
			return database.ErrNotFound
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a single session by token.
func (s *DeviceStore) DeleteSession(ctx context.Context, token string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		sessions := tx.Bucket(BucketSessions)
		byUser := tx.Bucket(BucketSessionsByUser)
		if sessions == nil || byUser == nil {
			return fmt.Errorf("session buckets not found")
		}

		data := sessions.Get([]byte(token))
		if data == nil {
			return nil
		}
		var session models.DeviceSession
		if err := json.Unmarshal(data, &session); err != nil {
			return err
		}

		if err := sessions.Delete([]byte(token)); err != nil {
			return err
		}
		return byUser.Delete(userKey(session.UserID, token))
	})
}

// DeleteAllForUser removes every session for the user in one
// transaction and reports how many were removed. Idempotent: a user
// with no sessions deletes zero.
func (s *DeviceStore) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	deleted := 0

	err := s.db.Update(func(tx *bolt.Tx) error {
		sessions := tx.Bucket(BucketSessions)
		byUser := tx.Bucket(BucketSessionsByUser)
		if sessions == nil || byUser == nil {
			return fmt.Errorf("session buckets not found")
		}

		prefix := []byte(userID + ":")
		c := byUser.Cursor()

		// Collect first, delete after: bbolt cursors do not support
		// deletion of the key under the cursor while iterating forward.
		var indexKeys [][]byte
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			indexKeys = append(indexKeys, append([]byte(nil), k...))
		}

		for _, k := range indexKeys {
			token := k[len(prefix):]
			if err := sessions.Delete(token); err != nil {
				return err
			}
			if err := byUser.Delete(k); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Close closes the owning store's database.
func (s *DeviceStore) Close() error {
	if s.owner != nil {
		return s.owner.Close()
	}
	return nil
}
