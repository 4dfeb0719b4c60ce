package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/haexhub/haexpass/internal/common"
	"github.com/haexhub/haexpass/internal/dbx"
	"github.com/haexhub/haexpass/internal/logging"
	"github.com/haexhub/haexpass/internal/vault/models"
	"github.com/haexhub/haexpass/internal/vault/repositories/binaries"
	"github.com/haexhub/haexpass/internal/vault/schema"
)

// BinaryService manages the content-addressed blob store: hashing,
// deduplicated inserts and the orphan sweep.
type BinaryService struct {
	db  *sql.DB
	t   schema.Tables
	log logging.Logger
}

func (s *BinaryService) guard() error {
	if s == nil || s.db == nil {
		return common.ErrNotInitialized
	}
	return nil
}

// Hash returns the lowercase hex SHA-256 digest of data. Equal bytes always
// produce the same address.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashBase64 decodes a base64 payload and hashes the raw bytes.
func HashBase64(data string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("invalid base64 payload: %w", common.ErrValidation)
	}
	return Hash(raw), nil
}

// AddBinary stores a blob under its content hash and returns the hash. When
// a blob with the same hash already exists the stored row is left untouched;
// the existing address is returned.
func (s *BinaryService) AddBinary(ctx context.Context, data []byte) (string, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	hash := Hash(data)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := binaries.NewSQLiteRepository(tx, s.t)
		existing, err := r.GetByHash(ctx, hash)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		return r.Insert(ctx, &models.Binary{
			Hash:      hash,
			Data:      base64.StdEncoding.EncodeToString(data),
			Size:      int64(len(data)),
			CreatedAt: models.Now(),
		})
	})
	if err != nil {
		return "", persistence(err)
	}
	return hash, nil
}

// AddBinaryBase64 stores an already base64-encoded blob, hashing the decoded
// bytes.
func (s *BinaryService) AddBinaryBase64(ctx context.Context, data string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("invalid base64 payload: %w", common.ErrValidation)
	}
	return s.AddBinary(ctx, raw)
}

// ReadBinary returns a blob by its hash, or nil if it does not exist.
func (s *BinaryService) ReadBinary(ctx context.Context, hash string) (*models.Binary, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	b, err := binaries.NewSQLiteRepository(s.db, s.t).GetByHash(ctx, hash)
	if err != nil {
		return nil, persistence(err)
	}
	return b, nil
}

// CleanupOrphanedBinaries removes every blob no longer referenced by an item
// binding or a frozen snapshot binding and returns how many were deleted.
func (s *BinaryService) CleanupOrphanedBinaries(ctx context.Context) (int64, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}
	var removed int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := binaries.NewSQLiteRepository(tx, s.t).DeleteOrphans(ctx)
		removed = n
		return err
	})
	if err != nil {
		return 0, persistence(err)
	}
	s.log.Info(ctx, "removed orphaned binaries", "count", removed)
	return removed, nil
}
