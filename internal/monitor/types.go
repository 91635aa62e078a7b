package monitor

import (
	"fmt"
	"strings"
)

// Kind selects which account activity a monitor tracks.
type Kind int

const (
	KindTransactions Kind = iota
	KindPerpetuals
)

func (k Kind) String() string {
	switch k {
	case KindTransactions:
		return "transactions"
	case KindPerpetuals:
		return "perpetuals"
	default:
		return "unknown"
	}
}

// ParseKind maps the persisted monitor_type string to a Kind.
func ParseKind(v string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "transactions":
		return KindTransactions, nil
	case "perpetuals":
		return KindPerpetuals, nil
	default:
		return 0, fmt.Errorf("unknown monitor kind %q", v)
	}
}

// Spec pairs one account address with a tracked activity kind. Immutable
// while its loop is running.
type Spec struct {
	Address string
	Kind    Kind
	Active  bool
}
