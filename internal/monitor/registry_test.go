package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"hl-fill-alerts/internal/fetcher"
	"hl-fill-alerts/internal/journal"
)

func newTestRegistry() *Registry {
	f := &scriptedFetcher{snapshots: [][]fetcher.Fill{nil}}
	return NewRegistry(Options{Interval: time.Hour}, f, journal.New(), nil, nil, zerolog.Nop())
}

func TestRegistryRejectsInvalidAddress(t *testing.T) {
	r := newTestRegistry()
	err := r.Start(context.Background(), Spec{Address: "not-an-address", Kind: KindTransactions})
	if !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("非法地址应返回 ErrInvalidAddress, 实际 %v", err)
	}
}

func TestRegistryRejectsPerpetuals(t *testing.T) {
	r := newTestRegistry()
	err := r.Start(context.Background(), Spec{
		Address: "0x1111111111111111111111111111111111111111",
		Kind:    KindPerpetuals,
	})
	if !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("perpetuals 应在注册时快速失败, 实际 %v", err)
	}
	if r.Count() != 0 {
		t.Fatal("失败的注册不应留下运行中的 loop")
	}
}

func TestRegistryDuplicateIsCaseInsensitive(t *testing.T) {
	r := newTestRegistry()
	defer r.StopAll()

	ctx := context.Background()
	lower := "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"
	if err := r.Start(ctx, Spec{Address: lower, Kind: KindTransactions}); err != nil {
		t.Fatalf("首次启动应成功: %v", err)
	}

	upper := "0xABCDEFABCDEFABCDEFABCDEFABCDEFABCDEFABCD"
	if err := r.Start(ctx, Spec{Address: upper, Kind: KindTransactions}); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("地址比较应忽略大小写, 实际 %v", err)
	}
	if r.Count() != 1 {
		t.Fatalf("应只有 1 个运行中的 loop, 实际 %d", r.Count())
	}

	running := r.Running()
	if len(running) != 1 || running[0] != lower+"/transactions" {
		t.Fatalf("Running 快照不正确: %v", running)
	}
}

func TestRegistryStop(t *testing.T) {
	r := newTestRegistry()

	ctx := context.Background()
	spec := Spec{Address: "0x2222222222222222222222222222222222222222", Kind: KindTransactions}
	if err := r.Start(ctx, spec); err != nil {
		t.Fatalf("启动失败: %v", err)
	}

	if !r.Stop(spec) {
		t.Fatal("Stop 应找到运行中的 loop")
	}
	if r.Stop(spec) {
		t.Fatal("重复 Stop 应返回 false")
	}

	r.StopAll()
	if r.Count() != 0 {
		t.Fatalf("StopAll 后不应有运行中的 loop, 实际 %d", r.Count())
	}
}

func TestRegistryRestartKeepsNewCancelHandle(t *testing.T) {
	r := newTestRegistry()
	defer r.StopAll()

	ctx := context.Background()
	spec := Spec{Address: "0x3333333333333333333333333333333333333333", Kind: KindTransactions}

	if err := r.Start(ctx, spec); err != nil {
		t.Fatalf("首次启动应成功: %v", err)
	}
	if !r.Stop(spec) {
		t.Fatal("Stop 应找到运行中的 loop")
	}

	// 旧 goroutine 还在退出途中就立即重启同一个 spec。
	if err := r.Start(ctx, spec); err != nil {
		t.Fatalf("重启应成功: %v", err)
	}

	// 给旧 goroutine 足够时间完成清理。
	time.Sleep(20 * time.Millisecond)

	if r.Count() != 1 {
		t.Fatalf("重启后的 loop 句柄不应被旧 goroutine 清掉, Count=%d", r.Count())
	}
	if !r.Stop(spec) {
		t.Fatal("重启后的 loop 应仍可通过 Stop 取消")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Transactions "); err != nil || k != KindTransactions {
		t.Fatalf("ParseKind(transactions) 失败: %v %v", k, err)
	}
	if k, err := ParseKind("perpetuals"); err != nil || k != KindPerpetuals {
		t.Fatalf("ParseKind(perpetuals) 失败: %v %v", k, err)
	}
	if _, err := ParseKind("spot"); err == nil {
		t.Fatal("未知类型应报错")
	}
}
