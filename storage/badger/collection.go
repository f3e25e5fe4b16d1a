package badger

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/esinocchi/ClassMate/storage"
)

// CollectionRepository implements storage.CollectionRepository for BadgerDB.
type CollectionRepository struct {
	backend *Backend
}

var _ storage.CollectionRepository = (*CollectionRepository)(nil)

// NewCollectionRepository creates a repository backed by a BadgerDB
// database at the given path.
func NewCollectionRepository(path string) (storage.CollectionRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &CollectionRepository{backend: backend}, nil
}

// newCollectionRepository wraps an already-open backend.
func newCollectionRepository(backend *Backend) *CollectionRepository {
	return &CollectionRepository{backend: backend}
}

// Close closes the underlying database.
func (r *CollectionRepository) Close() error {
	return r.backend.Close()
}

// WithTransaction delegates to the backend.
func (r *CollectionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveCollection atomically replaces the persisted state of a collection.
//
// Records go in under a version-qualified prefix through a write batch, so
// a collection larger than one transaction's limit still saves. Readers
// follow the version named by the metadata record, which is flipped in a
// single small transaction only after every record landed; a crash before
// the flip leaves the prior version intact.
func (r *CollectionRepository) SaveCollection(ctx context.Context, data *storage.CollectionData) error {
	collectionID := data.Meta.CollectionId
	version := data.Meta.Version

	// A re-save of the same version must not leak records from the prior
	// attempt after the item set shrinks.
	if err := r.deleteVersionRecords(collectionID, version); err != nil {
		return err
	}

	batch := r.backend.db.NewWriteBatch()
	defer batch.Cancel()

	for _, item := range data.Items {
		key := makeItemKey(collectionID, version, item.Id)
		if err := batch.Set(key, storage.MarshalContentItem(item)); err != nil {
			return err
		}
	}

	for _, course := range data.Courses {
		key := makeCourseKey(collectionID, version, course.Id)
		if err := batch.Set(key, storage.MarshalCourse(course)); err != nil {
			return err
		}
	}

	for _, chunk := range data.Chunks {
		key := makeChunkKey(collectionID, version, chunk.Id)
		if err := batch.Set(key, storage.MarshalChunk(chunk)); err != nil {
			return err
		}
	}

	if err := batch.Flush(); err != nil {
		return err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		meta := data.Meta
		if meta.SavedAt.IsZero() {
			meta.SavedAt = time.Now().UTC()
		}
		if err := tx.Set(makeMetaKey(collectionID), storage.MarshalCollectionMeta(&meta)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	return r.deleteStaleVersions(collectionID, version)
}

// LoadCollection retrieves the persisted state of a collection.
func (r *CollectionRepository) LoadCollection(ctx context.Context, collectionID string) (*storage.CollectionData, error) {
	data := &storage.CollectionData{}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeMetaKey(collectionID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		err = item.Value(func(val []byte) error {
			meta, err := storage.UnmarshalCollectionMeta(val)
			if err != nil {
				return err
			}
			data.Meta = *meta
			return nil
		})
		if err != nil {
			return err
		}

		version := data.Meta.Version

		err = iteratePrefix(tx, makeVersionPrefix(contentItemPrefix, collectionID, version), func(val []byte) error {
			contentItem, err := storage.UnmarshalContentItem(val)
			if err != nil {
				return err
			}
			data.Items = append(data.Items, contentItem)
			return nil
		})
		if err != nil {
			return err
		}

		err = iteratePrefix(tx, makeVersionPrefix(coursePrefix, collectionID, version), func(val []byte) error {
			course, err := storage.UnmarshalCourse(val)
			if err != nil {
				return err
			}
			data.Courses = append(data.Courses, course)
			return nil
		})
		if err != nil {
			return err
		}

		return iteratePrefix(tx, makeVersionPrefix(chunkPrefix, collectionID, version), func(val []byte) error {
			chunk, err := storage.UnmarshalChunk(val)
			if err != nil {
				return err
			}
			data.Chunks = append(data.Chunks, chunk)
			return nil
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return data, nil
}

// ListCollections returns the IDs of all persisted collections.
func (r *CollectionRepository) ListCollections(ctx context.Context) ([]string, error) {
	var ids []string
	prefix := collectionMetaPrefix + ":"

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := string(iter.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, prefix))
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteCollection removes a collection and all its records. The metadata
// record goes first so readers can't observe a collection whose records
// are mid-deletion.
func (r *CollectionRepository) DeleteCollection(ctx context.Context, collectionID string) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeMetaKey(collectionID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	keys, err := r.collectRecordKeys(collectionID, nil)
	if err != nil {
		return err
	}
	return r.deleteKeys(keys)
}

// deleteVersionRecords removes every record stored under one version of a
// collection.
func (r *CollectionRepository) deleteVersionRecords(collectionID string, version uint64) error {
	var keys [][]byte

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, kind := range []string{contentItemPrefix, coursePrefix, chunkPrefix} {
			prefix := makeVersionPrefix(kind, collectionID, version)
			keys = append(keys, collectKeys(tx, prefix)...)
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	return r.deleteKeys(keys)
}

// deleteStaleVersions removes every record of a collection whose version
// prefix differs from the one just saved.
func (r *CollectionRepository) deleteStaleVersions(collectionID string, keep uint64) error {
	keeps := make([][]byte, 0, 3)
	for _, kind := range []string{contentItemPrefix, coursePrefix, chunkPrefix} {
		keeps = append(keeps, makeVersionPrefix(kind, collectionID, keep))
	}

	keys, err := r.collectRecordKeys(collectionID, keeps)
	if err != nil {
		return err
	}
	return r.deleteKeys(keys)
}

// collectRecordKeys gathers every item, course, and chunk key of a
// collection, skipping keys under any of the given keep prefixes.
func (r *CollectionRepository) collectRecordKeys(collectionID string, keeps [][]byte) ([][]byte, error) {
	var keys [][]byte

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, kind := range []string{contentItemPrefix, coursePrefix, chunkPrefix} {
			prefix := makeCollectionPrefix(kind, collectionID)
			for _, key := range collectKeys(tx, prefix) {
				kept := false
				for _, keep := range keeps {
					if bytes.HasPrefix(key, keep) {
						kept = true
						break
					}
				}
				if !kept {
					keys = append(keys, key)
				}
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return keys, nil
}

// deleteKeys removes the given keys through a write batch.
func (r *CollectionRepository) deleteKeys(keys [][]byte) error {
	if len(keys) == 0 {
		return nil
	}

	batch := r.backend.db.NewWriteBatch()
	defer batch.Cancel()

	for _, key := range keys {
		if err := batch.Delete(key); err != nil {
			return err
		}
	}
	return batch.Flush()
}

// collectKeys returns a copy of every key under prefix.
func collectKeys(tx *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys
}

// iteratePrefix visits the value of every key under prefix.
func iteratePrefix(tx *badger.Txn, prefix []byte, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		if err := iter.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
