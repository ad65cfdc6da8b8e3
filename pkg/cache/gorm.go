package cache

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jrusco/local-pdf/pkg/core"
)

// GormStore implements Store using GORM. One row per module id.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates the cache table.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&core.CacheEntry{})
}

// Has reports whether a matching, non-stale entry exists.
func (s *GormStore) Has(ctx context.Context, id core.ModuleID, expectedDigest string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&core.CacheEntry{}).
		Where("module_id = ?", id).
		Where("digest = ?", expectedDigest).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Fetch returns the stored entry for the id.
func (s *GormStore) Fetch(ctx context.Context, id core.ModuleID) (*core.CacheEntry, error) {
	var entry core.CacheEntry
	err := s.db.WithContext(ctx).
		Where("module_id = ?", id).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.ErrCacheMiss
		}
		return nil, err
	}
	return &entry, nil
}

// Put upserts the entry for the id in a single transaction. A failed write
// rolls back, leaving any prior entry untouched.
func (s *GormStore) Put(ctx context.Context, id core.ModuleID, blob []byte, digest, version string) error {
	entry := &core.CacheEntry{
		ModuleID: id,
		Version:  version,
		Digest:   digest,
		Blob:     blob,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "module_id"}},
			UpdateAll: true,
		}).Create(entry).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrCacheWriteFailed, err)
	}
	return nil
}

// EvictStale deletes entries whose digest mismatches the expected set or
// whose module id is no longer known.
func (s *GormStore) EvictStale(ctx context.Context, expected map[core.ModuleID]string) (int, error) {
	var entries []core.CacheEntry
	err := s.db.WithContext(ctx).
		Select("module_id", "digest").
		Find(&entries).Error
	if err != nil {
		return 0, err
	}

	evicted := 0
	for _, e := range entries {
		digest, known := expected[e.ModuleID]
		if known && digest == e.Digest {
			continue
		}
		res := s.db.WithContext(ctx).
			Where("module_id = ?", e.ModuleID).
			Delete(&core.CacheEntry{})
		if res.Error != nil {
			return evicted, res.Error
		}
		evicted += int(res.RowsAffected)
	}
	return evicted, nil
}
