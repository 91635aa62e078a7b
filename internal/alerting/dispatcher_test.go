package alerting

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestDispatcherIsolatesKeyFailures(t *testing.T) {
	var delivered atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered.Add(1)
	}))
	defer srv.Close()

	channel := NewServerChan(time.Second, testLogger())
	channel.endpoint = func(key string) (string, error) {
		// 第一个 key 模拟 sctp 格式错误，其余照常投递。
		if key == "sctpXtYYYY" {
			return "", ErrInvalidKeyFormat
		}
		return srv.URL, nil
	}

	d := NewDispatcher(channel, []string{"sctpXtYYYY", "good-one", "", "good-two"}, testLogger())
	d.Send(context.Background(), "title", "body")

	if delivered.Load() != 2 {
		t.Fatalf("格式错误的 key 不应影响其余 key: 期望投递 2 次, 实际 %d", delivered.Load())
	}
}

func TestDispatcherEnabled(t *testing.T) {
	channel := NewServerChan(time.Second, testLogger())
	if NewDispatcher(channel, nil, testLogger()).Enabled() {
		t.Fatal("无 key 时 Enabled 应为 false")
	}
	if !NewDispatcher(channel, []string{"k"}, testLogger()).Enabled() {
		t.Fatal("有 key 时 Enabled 应为 true")
	}
}

func TestMaskKey(t *testing.T) {
	if got := MaskKey("abcdefghijkl"); got != "abcd...ijkl" {
		t.Fatalf("MaskKey 输出不正确: %s", got)
	}
	if got := MaskKey("short"); got != "short" {
		t.Fatalf("短 key 应原样返回: %s", got)
	}
}
