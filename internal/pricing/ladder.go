package pricing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

var hundred = decimal.NewFromInt(100)

// Ladder holds the volume discount steps for both scopes, each sorted by MinQuantity
type Ladder struct {
	item []domain.VolumeDiscount
	cart []domain.VolumeDiscount
}

// NewLadder validates a set of volume discount steps.
// Within a scope, MinQuantity must be strictly increasing and DiscountPercent must never decrease.
func NewLadder(steps []domain.VolumeDiscount) (*Ladder, error) {
	l := &Ladder{}
	for _, step := range steps {
		if step.MinQuantity <= 0 {
			return nil, ladderError("min quantity %d must be positive", step.MinQuantity)
		}
		if step.DiscountPercent.IsNegative() || step.DiscountPercent.GreaterThan(hundred) {
			return nil, ladderError("discount %s%% is outside 0..100", step.DiscountPercent)
		}
		switch step.AppliesTo {
		case domain.DiscountScopeItem:
			l.item = append(l.item, step)
		case domain.DiscountScopeCart:
			l.cart = append(l.cart, step)
		default:
			return nil, ladderError("unknown scope %q", step.AppliesTo)
		}
	}

	for _, scoped := range [][]domain.VolumeDiscount{l.item, l.cart} {
		sort.SliceStable(scoped, func(i, j int) bool {
			return scoped[i].MinQuantity < scoped[j].MinQuantity
		})
		for i := 1; i < len(scoped); i++ {
			prev, cur := scoped[i-1], scoped[i]
			if cur.MinQuantity == prev.MinQuantity {
				return nil, ladderError("duplicate %s step at quantity %d", cur.AppliesTo, cur.MinQuantity)
			}
			if cur.DiscountPercent.LessThan(prev.DiscountPercent) {
				return nil, ladderError("%s discount drops from %s%% to %s%% at quantity %d",
					cur.AppliesTo, prev.DiscountPercent, cur.DiscountPercent, cur.MinQuantity)
			}
		}
	}

	return l, nil
}

// ParseLadder parses "min:percent[:scope]" steps separated by commas, e.g. "5:5,10:10:item,100:2:cart".
// The scope defaults to item.
func ParseLadder(def string) (*Ladder, error) {
	def = strings.TrimSpace(def)
	if def == "" {
		return NewLadder(nil)
	}

	var steps []domain.VolumeDiscount
	for _, raw := range strings.Split(def, ",") {
		parts := strings.Split(strings.TrimSpace(raw), ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, ladderError("malformed step %q", raw)
		}

		minQty, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, ladderError("malformed min quantity in %q", raw)
		}
		percent, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, ladderError("malformed discount in %q", raw)
		}
		scope := domain.DiscountScopeItem
		if len(parts) == 3 {
			scope = domain.DiscountScope(strings.ToLower(strings.TrimSpace(parts[2])))
		}

		steps = append(steps, domain.VolumeDiscount{MinQuantity: minQty, DiscountPercent: percent, AppliesTo: scope})
	}

	return NewLadder(steps)
}

// Select returns the step with the largest MinQuantity not above quantity, or nil
func (l *Ladder) Select(scope domain.DiscountScope, quantity int) *domain.VolumeDiscount {
	steps := l.item
	if scope == domain.DiscountScopeCart {
		steps = l.cart
	}

	var selected *domain.VolumeDiscount
	for i := range steps {
		if steps[i].MinQuantity > quantity {
			break
		}
		step := steps[i]
		selected = &step
	}
	return selected
}

// Steps returns every step, item scope first
func (l *Ladder) Steps() []domain.VolumeDiscount {
	out := make([]domain.VolumeDiscount, 0, len(l.item)+len(l.cart))
	out = append(out, l.item...)
	return append(out, l.cart...)
}

func ladderError(format string, args ...any) error {
	return &errors.ErrConfiguration{Component: "volume discount ladder", Message: fmt.Sprintf(format, args...)}
}
