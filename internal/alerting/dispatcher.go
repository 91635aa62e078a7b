package alerting

import (
	"context"

	"github.com/rs/zerolog"
)

// Dispatcher 将一条消息按注册顺序推送给每一个 sendkey。单个 key 的失败不影响
// 后续 key；不聚合结果也不重试（fire-and-forget）。
type Dispatcher struct {
	channel *ServerChan
	keys    []string
	logger  zerolog.Logger
}

// NewDispatcher 构造通知分发器。keys 保持注册顺序，允许重复（重复即重复发送）。
func NewDispatcher(channel *ServerChan, keys []string, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		channel: channel,
		keys:    keys,
		logger:  logger.With().Str("component", "alert_dispatcher").Logger(),
	}
}

// Enabled reports whether at least one sendkey is registered.
func (d *Dispatcher) Enabled() bool {
	return len(d.keys) > 0
}

// Send fans the message out to every registered key sequentially. Delivery
// failures are logged and swallowed.
func (d *Dispatcher) Send(ctx context.Context, title, body string) {
	for _, key := range d.keys {
		if key == "" {
			continue
		}
		if err := d.channel.Push(ctx, title, body, key); err != nil {
			d.logger.Warn().Err(err).Str("key", MaskKey(key)).Msg("通知推送失败")
			continue
		}
		d.logger.Debug().Str("key", MaskKey(key)).Msg("notification delivered")
	}
}

// MaskKey hides the middle of a sendkey for log output.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:4] + "..." + key[len(key)-4:]
}
