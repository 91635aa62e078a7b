package alerting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrInvalidKeyFormat 表示 sctp 前缀的 sendkey 中提取不到数字编号。
var ErrInvalidKeyFormat = errors.New("alerting: invalid sendkey format for sctp")

var sctpKeyPattern = regexp.MustCompile(`sctp(\d+)t`)

// ServerChan 通过 Server酱 推送通道投递消息。每个 key 每条消息只尝试一次。
type ServerChan struct {
	client   *http.Client
	logger   zerolog.Logger
	endpoint func(key string) (string, error)
}

// NewServerChan 构造 Server酱 推送通道。
func NewServerChan(timeout time.Duration, logger zerolog.Logger) *ServerChan {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ServerChan{
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "serverchan").Logger(),
		endpoint: EndpointFor,
	}
}

// EndpointFor builds the delivery URL for a sendkey. Keys starting with
// "sctp" route to the per-instance push host; the instance number is the
// digit run between "sctp" and the following "t".
func EndpointFor(key string) (string, error) {
	if strings.HasPrefix(key, "sctp") {
		m := sctpKeyPattern.FindStringSubmatch(key)
		if m == nil {
			return "", ErrInvalidKeyFormat
		}
		return fmt.Sprintf("https://%s.push.ft07.com/send/%s.send", m[1], key), nil
	}
	return fmt.Sprintf("https://sctapi.ftqq.com/%s.send", key), nil
}

// Push 向单个 sendkey 投递一条消息。请求体固定为 text/desp 两个表单字段。
func (s *ServerChan) Push(ctx context.Context, title, body, key string) error {
	endpoint, err := s.endpoint(key)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("text", title)
	form.Set("desp", body)
	encoded := form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Content-Length", strconv.Itoa(len(encoded)))
	req.ContentLength = int64(len(encoded))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push request: %w", err)
	}
	defer resp.Body.Close()

	// 响应内容不参与成败判定，读完即弃。
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("read push response: %w", err)
	}

	return nil
}
