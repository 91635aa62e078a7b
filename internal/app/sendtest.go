package app

import (
	"context"
	"errors"

	"hl-fill-alerts/internal/alerting"
)

// SendTest pushes a test notification through every configured sendkey.
func (a *App) SendTest(ctx context.Context, opts SendTestOptions) error {
	if len(a.Config.SendKeys) == 0 {
		return errors.New("no sendkeys configured")
	}

	channel := alerting.NewServerChan(a.Config.ServerChan.RequestTimeout, a.Logger)

	delivered := 0
	for _, key := range a.Config.SendKeys {
		if key == "" {
			continue
		}
		if err := channel.Push(ctx, opts.Title, opts.Body, key); err != nil {
			a.Logger.Error().Err(err).Str("key", alerting.MaskKey(key)).Msg("test notification failed")
			continue
		}
		a.Logger.Info().Str("key", alerting.MaskKey(key)).Msg("test notification sent")
		delivered++
	}

	if delivered == 0 {
		return errors.New("test notification failed for all sendkeys")
	}
	return nil
}
