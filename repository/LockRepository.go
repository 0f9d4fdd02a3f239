package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/db"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
)

var (
	ErrLockAlreadyAcquired = errors.New("lock is already acquired by another instance")
	ErrLockNotFound        = errors.New("lock not found")
	ErrVersionMismatch     = errors.New("lock version mismatch - optimistic lock failure")
)

const (
	clockSkewMargin = 10 * time.Second
)

// LockRepository implements a lease-based mutex over a DB row. The version
// column acts as a fencing token, so a stale holder can never release or
// extend a lock it lost.
type LockRepository interface {
	TryAcquireLock(ctx context.Context, lockName string, instanceId string, leaseSeconds int) (bool, int64, error)
	ReleaseLock(ctx context.Context, lockName string, instanceId string, expectedVersion int64) error
	GetLockInfo(ctx context.Context, lockName string) (*entity.LockEntity, error)
}

type lockRepositoryImpl struct {
	cp db.ConnectionProvider
}

func NewLockRepository(cp db.ConnectionProvider) LockRepository {
	return &lockRepositoryImpl{cp: cp}
}

func (r *lockRepositoryImpl) TryAcquireLock(ctx context.Context, lockName string, instanceId string, leaseSeconds int) (bool, int64, error) {
	now := time.Now().UTC()
	safeNow := now.Add(-clockSkewMargin)
	expiresAt := now.Add(time.Duration(leaseSeconds) * time.Second)

	existingLock, err := r.findExistingLock(ctx, lockName)
	if err != nil {
		return false, 0, err
	}

	if existingLock == nil {
		acquired, err := r.createNewLock(ctx, lockName, instanceId, now, expiresAt)
		return acquired, 1, err
	}

	if existingLock.ExpiresAt.After(safeNow) {
		return false, 0, nil
	}

	return r.takeOverExpiredLock(ctx, lockName, instanceId, now, expiresAt, existingLock.Version, safeNow)
}

func (r *lockRepositoryImpl) findExistingLock(ctx context.Context, lockName string) (*entity.LockEntity, error) {
	var existingLock entity.LockEntity
	err := r.cp.GetConnection().ModelContext(ctx, &existingLock).
		Where("name = ?", lockName).
		Select()

	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check existing lock: %w", err)
	}

	return &existingLock, nil
}

func (r *lockRepositoryImpl) createNewLock(ctx context.Context, lockName, instanceId string, now, expiresAt time.Time) (bool, error) {
	lock := &entity.LockEntity{
		Name:       lockName,
		InstanceId: instanceId,
		AcquiredAt: now,
		ExpiresAt:  expiresAt,
		Version:    1,
	}

	_, err := r.cp.GetConnection().ModelContext(ctx, lock).Insert()
	if err != nil {
		if pgErr, ok := err.(pg.Error); ok && pgErr.IntegrityViolation() {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert lock: %w", err)
	}
	return true, nil
}

func (r *lockRepositoryImpl) takeOverExpiredLock(ctx context.Context, lockName, instanceId string, now, expiresAt time.Time, version int64, safeNow time.Time) (bool, int64, error) {
	result, err := r.cp.GetConnection().ModelContext(ctx, &entity.LockEntity{}).
		Set("instance_id = ?, acquired_at = ?, expires_at = ?, version = version + 1", instanceId, now, expiresAt).
		Where("name = ? AND version = ? AND expires_at < ?", lockName, version, safeNow).
		Update()

	if err != nil {
		return false, 0, fmt.Errorf("failed to take over lock: %w", err)
	}

	return result.RowsAffected() > 0, version + 1, nil
}

func (r *lockRepositoryImpl) ReleaseLock(ctx context.Context, lockName string, instanceId string, expectedVersion int64) error {
	pastTime := time.Now().UTC().Add(-clockSkewMargin)

	result, err := r.cp.GetConnection().ModelContext(ctx, &entity.LockEntity{}).
		Set("expires_at = ?, version = version + 1", pastTime).
		Where("name = ? AND instance_id = ? AND version = ?",
			lockName, instanceId, expectedVersion).
		Update()

	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}

	if result.RowsAffected() == 0 {
		lock, err := r.GetLockInfo(ctx, lockName)
		if err != nil {
			if errors.Is(err, ErrLockNotFound) {
				return nil
			}
			return err
		}

		if lock.Version != expectedVersion {
			return ErrVersionMismatch
		}

		if lock.InstanceId != instanceId {
			return ErrLockAlreadyAcquired
		}
	}

	return nil
}

func (r *lockRepositoryImpl) GetLockInfo(ctx context.Context, lockName string) (*entity.LockEntity, error) {
	var lock entity.LockEntity
	err := r.cp.GetConnection().ModelContext(ctx, &lock).
		Where("name = ?", lockName).
		Select()

	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, ErrLockNotFound
		}
		return nil, fmt.Errorf("failed to get lock info: %w", err)
	}

	return &lock, nil
}
