package alerting

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestEndpointForSctpKey(t *testing.T) {
	got, err := EndpointFor("sctp1234tXXXX")
	if err != nil {
		t.Fatalf("合法 sctp key 不应报错: %v", err)
	}
	want := "https://1234.push.ft07.com/send/sctp1234tXXXX.send"
	if got != want {
		t.Fatalf("URL 不正确:\n  期望 %s\n  实际 %s", want, got)
	}
}

func TestEndpointForPlainKey(t *testing.T) {
	got, err := EndpointFor("XXXX")
	if err != nil {
		t.Fatalf("普通 key 不应报错: %v", err)
	}
	if got != "https://sctapi.ftqq.com/XXXX.send" {
		t.Fatalf("URL 不正确: %s", got)
	}
}

func TestEndpointForMalformedSctpKey(t *testing.T) {
	if _, err := EndpointFor("sctpXtYYYY"); !errors.Is(err, ErrInvalidKeyFormat) {
		t.Fatalf("sctp 与 t 之间无数字应返回 ErrInvalidKeyFormat, 实际 %v", err)
	}
}

func TestPushWireFormat(t *testing.T) {
	var gotContentType, gotContentLength string
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotContentLength = r.Header.Get("Content-Length")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		_, _ = w.Write([]byte(`{"code":0}`))
	}))
	defer srv.Close()

	s := NewServerChan(time.Second, testLogger())
	s.endpoint = func(string) (string, error) { return srv.URL, nil }

	if err := s.Push(context.Background(), "[LONG] title", "body line", "anykey"); err != nil {
		t.Fatalf("Push 应成功: %v", err)
	}

	if gotContentType != "application/x-www-form-urlencoded" {
		t.Fatalf("Content-Type 不正确: %s", gotContentType)
	}
	if gotContentLength != strconv.Itoa(len(gotBody)) {
		t.Fatalf("Content-Length %s 与请求体长度 %d 不一致", gotContentLength, len(gotBody))
	}

	form, err := url.ParseQuery(gotBody)
	if err != nil {
		t.Fatalf("请求体应为表单编码: %v", err)
	}
	if form.Get("text") != "[LONG] title" || form.Get("desp") != "body line" {
		t.Fatalf("表单字段不正确: %s", gotBody)
	}
	if len(form) != 2 {
		t.Fatalf("请求体应只含 text/desp 两个字段: %s", gotBody)
	}
}

func TestPushMalformedKeyFails(t *testing.T) {
	s := NewServerChan(time.Second, testLogger())
	if err := s.Push(context.Background(), "t", "d", "sctpXtYYYY"); !errors.Is(err, ErrInvalidKeyFormat) {
		t.Fatalf("应返回 ErrInvalidKeyFormat, 实际 %v", err)
	}
}
