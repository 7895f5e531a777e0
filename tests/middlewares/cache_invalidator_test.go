// 測試目的：CacheInvalidator.Purge 整批清掉 namespace 下的 list/item key，不動其他 namespace
package tests

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"clubapi/utils"
)

func TestCacheInvalidator_Purge(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	inv := utils.NewCacheInvalidator(rdb)
	ctx := context.Background()

	_ = rdb.Set(ctx, "cache:events:list:aaa", "x", 0).Err()
	_ = rdb.Set(ctx, "cache:events:item:bbb", "x", 0).Err()
	_ = rdb.Set(ctx, "cache:blog:list:ccc", "x", 0).Err()

	inv.Purge(ctx, "events")

	for _, key := range []string{"cache:events:list:aaa", "cache:events:item:bbb"} {
		if err := rdb.Get(ctx, key).Err(); err != redis.Nil {
			t.Fatalf("%s should be purged, got err=%v", key, err)
		}
	}
	// blog 的 key 要留著
	if v, err := rdb.Get(ctx, "cache:blog:list:ccc").Result(); err != nil || v != "x" {
		t.Fatalf("blog key must survive, got v=%q err=%v", v, err)
	}
}
