package sequence

import (
	// 外部依赖
	"context"
	"fmt"
	"testing"

	sqlite "gorm.io/driver/sqlite"
	gorm "gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	// 内部引用
	db "github.com/metabuildlab/lims/pkg/middleware/db"
	migrate "github.com/metabuildlab/lims/pkg/model/migrate"
)

func setupDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	ins, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetDBIns(ins)
	if err := migrate.Table(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func TestNextStrictlyIncreasing(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	store := NewSequenceRepo()

	for want := int64(1); want <= 5; want++ {
		got, err := store.Next(ctx, "sample", "202608")
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != want {
			t.Fatalf("next = %d, want %d", got, want)
		}
	}
}

func TestNextPeriodsAreIndependent(t *testing.T) {
	setupDB(t)
	ctx := context.Background()
	store := NewSequenceRepo()

	if _, err := store.Next(ctx, "sample", "202607"); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := store.Next(ctx, "sample", "202607"); err != nil {
		t.Fatalf("next: %v", err)
	}

	// 新周期从 1 重新计数
	got, err := store.Next(ctx, "sample", "202608")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if got != 1 {
		t.Fatalf("new period should start at 1, got %d", got)
	}

	// 不同实体互不影响
	got, err = store.Next(ctx, "receipt", "202607")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if got != 1 {
		t.Fatalf("new name should start at 1, got %d", got)
	}
}
