package utils

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// 異動後清掉對應 namespace 的回應快取（blog / events / gallery / discussions）
type CacheInvalidator struct{ rdb *redis.Client }

func NewCacheInvalidator(rdb *redis.Client) *CacheInvalidator { return &CacheInvalidator{rdb} }

// 清單跟單筆一起清：單筆 key 是 sha1 過的，無法精準對到 id，保守整批刪
func (ci *CacheInvalidator) Purge(ctx context.Context, namespace string) {
	for _, pattern := range []string{
		"cache:" + namespace + ":list:*",
		"cache:" + namespace + ":item:*",
	} {
		iter := ci.rdb.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			_ = ci.rdb.Del(ctx, iter.Val()).Err()
		}
	}
}
