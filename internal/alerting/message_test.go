package alerting

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"hl-fill-alerts/internal/journal"
)

func TestSideLabel(t *testing.T) {
	cases := map[string]string{
		"buy":      "Buy",
		"sell":     "Sell",
		"long":     "Long",
		"SHORT":    "Short",
		"deposit":  "Deposit",
		"withdraw": "Withdraw",
		"transfer": "Transfer",
		"send":     "Transfer",
		"receive":  "Receive",
		"foo":      "foo",
	}
	for side, want := range cases {
		if got := SideLabel(side); got != want {
			t.Fatalf("SideLabel(%q) = %q, 期望 %q", side, got, want)
		}
	}
}

func TestFormatLocalTimeIsFixedOffset(t *testing.T) {
	// Epoch 零点在 UTC+8 应为早上 8 点。
	if got := FormatLocalTime(0); got != "1970-01-01 08:00:00" {
		t.Fatalf("时间格式化错误: %s", got)
	}
}

func TestFillMessageTitleTags(t *testing.T) {
	cases := map[string]string{
		"buy":      "[LONG]",
		"long":     "[LONG]",
		"sell":     "[SHORT]",
		"short":    "[SHORT]",
		"deposit":  "[DEPOSIT]",
		"withdraw": "[WITHDRAW]",
		"transfer": "[TRANSFER]",
		"send":     "[TRANSFER]",
		"receive":  "[RECEIVE]",
		"foo":      "[TRANSACTION]",
	}

	for side, tag := range cases {
		rec := journal.Record{
			TimestampMs: 1700000000000,
			Token:       "ETH",
			Side:        side,
			Size:        decimal.RequireFromString("1.5"),
			Leverage:    decimal.NewFromInt(1),
			EntryPrice:  decimal.RequireFromString("2000.25"),
		}
		title, body := FillMessage("0xabc", rec)
		if !strings.HasPrefix(title, tag+" ") {
			t.Fatalf("side %q 的标题应以 %s 开头: %s", side, tag, title)
		}
		if !strings.Contains(title, "ETH") {
			t.Fatalf("标题应包含 token: %s", title)
		}
		if !strings.Contains(body, "Address: 0xabc") || !strings.Contains(body, "Size: 1.5") || !strings.Contains(body, "Price: 2000.25") {
			t.Fatalf("正文缺少字段: %s", body)
		}
	}
}
