package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/utils"
	"github.com/bsm/redislock"
	"gorm.io/gorm"
)

const postingLockTTL = 30 * time.Second

// AcquireStorePostingLock serializes order posting per store across
// instances. With Redis configured it uses a distributed lock; on MySQL
// it falls back to a connection-scoped advisory lock; on sqlite the row
// locks plus the single writer are already enough, so it is a no-op.
//
// NOTE: the advisory lock is connection-scoped, so tx must be the same
// *gorm.DB that runs the posting transaction.
func AcquireStorePostingLock(ctx context.Context, tx *gorm.DB, storeId int) (release func(), err error) {
	lockKey := fmt.Sprintf("posting:store:%d", storeId)

	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, lockKey, postingLockTTL, &redislock.Options{
			RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 3),
		})
		if err == redislock.ErrNotObtained {
			return nil, utils.ConflictError(fmt.Sprintf("store %d is posting another order, retry", storeId))
		}
		if err != nil {
			return nil, err
		}
		return func() { _ = lock.Release(ctx) }, nil
	}

	if config.DatabaseDriver() != "mysql" {
		return func() {}, nil
	}

	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockKey).Scan(&ok).Error; err != nil {
		return nil, err
	}
	if ok != 1 {
		return nil, utils.ConflictError(fmt.Sprintf("could not acquire posting lock for store %d", storeId))
	}
	return func() {
		var released int
		_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockKey).Scan(&released).Error
	}, nil
}
