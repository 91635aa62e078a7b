package alerting

import (
	"fmt"
	"strings"
	"time"

	"hl-fill-alerts/internal/journal"
)

// 展示时区固定为北京时间（UTC+8，无夏令时）。
var displayZone = time.FixedZone("UTC+8", 8*60*60)

const displayLayout = "2006-01-02 15:04:05"

// FormatLocalTime renders a millisecond timestamp in UTC+8.
func FormatLocalTime(tsMs int64) string {
	return time.UnixMilli(tsMs).In(displayZone).Format(displayLayout)
}

// SideLabel maps an exchange side string to its display label. Unknown
// sides pass through unchanged.
func SideLabel(side string) string {
	switch strings.ToLower(side) {
	case "buy":
		return "Buy"
	case "sell":
		return "Sell"
	case "long":
		return "Long"
	case "short":
		return "Short"
	case "deposit":
		return "Deposit"
	case "withdraw":
		return "Withdraw"
	case "transfer", "send":
		return "Transfer"
	case "receive":
		return "Receive"
	default:
		return side
	}
}

func sideTag(side string) string {
	switch strings.ToLower(side) {
	case "buy", "long":
		return "[LONG]"
	case "sell", "short":
		return "[SHORT]"
	case "deposit":
		return "[DEPOSIT]"
	case "withdraw":
		return "[WITHDRAW]"
	case "transfer", "send":
		return "[TRANSFER]"
	case "receive":
		return "[RECEIVE]"
	default:
		return "[TRANSACTION]"
	}
}

// FillMessage builds the notification title and body for one new record.
func FillMessage(address string, rec journal.Record) (title, body string) {
	timeStr := FormatLocalTime(rec.TimestampMs)
	label := SideLabel(rec.Side)

	title = fmt.Sprintf("%s %s %s %s", sideTag(rec.Side), timeStr, rec.Token, label)
	body = fmt.Sprintf(
		"Address: %s\nToken: %s\nAction: %s\nSize: %s\nPrice: %s\nTime: %s",
		address, rec.Token, label, rec.Size.String(), rec.EntryPrice.String(), timeStr,
	)
	return title, body
}
