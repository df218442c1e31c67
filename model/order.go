package model

import (
	"fmt"
	"strings"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus int8

// These are the order states; OrderStatusClosed means fully filled
const (
	OrderStatusUnknown  OrderStatus = 0
	OrderStatusPending  OrderStatus = 1
	OrderStatusOpen     OrderStatus = 2
	OrderStatusClosed   OrderStatus = 3
	OrderStatusCanceled OrderStatus = 4
	OrderStatusExpired  OrderStatus = 5
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusUnknown:  "unknown",
	OrderStatusPending:  "pending",
	OrderStatusOpen:     "open",
	OrderStatusClosed:   "closed",
	OrderStatusCanceled: "canceled",
	OrderStatusExpired:  "expired",
}

// String is the stringer function
func (s OrderStatus) String() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return "error, unrecognized order status"
}

// IsTerminal returns true if the order can no longer change
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusClosed || s == OrderStatusCanceled || s == OrderStatusExpired
}

// OrderStatusFromString converts from common strings, unrecognized strings map to OrderStatusUnknown
func OrderStatusFromString(s string) OrderStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "cancelled" {
		s = "canceled"
	}
	for status, name := range orderStatusNames {
		if name == s {
			return status
		}
	}
	return OrderStatusUnknown
}

// Order represents an order placed by the trading account.
// Fields that the exchange did not report are nil
type Order struct {
	ID        string
	Market    Market
	Type      OrderType
	Side      Side
	Status    OrderStatus
	Amount    *Money
	Filled    *Money
	Remaining *Money
	Cost      *Money
	Fee       *Money
	Price     *Money
	Info      map[string]interface{}
	CreatedAt *Timestamp
	ClosedAt  *Timestamp
}

// OrderParams carries the fields needed to build an Order
type OrderParams struct {
	ID        string
	Market    Market
	Type      OrderType
	Side      Side
	Status    OrderStatus
	Amount    *Money
	Filled    *Money
	Cost      *Money
	Fee       *Money
	Price     *Money
	Info      map[string]interface{}
	CreatedAt *Timestamp
	ClosedAt  *Timestamp
}

// MakeOrder is a factory method that derives Remaining = Amount - Filled when both are known
func MakeOrder(p OrderParams) (*Order, error) {
	var remaining *Money
	if p.Amount != nil && p.Filled != nil {
		r, e := p.Amount.Sub(*p.Filled)
		if e != nil {
			return nil, fmt.Errorf("cannot compute remaining amount of order %s: %s", p.ID, e)
		}
		remaining = r
	}

	return &Order{
		ID:        p.ID,
		Market:    p.Market,
		Type:      p.Type,
		Side:      p.Side,
		Status:    p.Status,
		Amount:    p.Amount,
		Filled:    p.Filled,
		Remaining: remaining,
		Cost:      p.Cost,
		Fee:       p.Fee,
		Price:     p.Price,
		Info:      p.Info,
		CreatedAt: p.CreatedAt,
		ClosedAt:  p.ClosedAt,
	}, nil
}

// String is the stringer function
func (o Order) String() string {
	return fmt.Sprintf("Order[id=%s, market=%s, type=%s, side=%s, status=%s, amount=%s, filled=%s, remaining=%s, price=%s, ts=%s]",
		o.ID,
		o.Market,
		o.Type,
		o.Side,
		o.Status,
		checkedString(o.Amount),
		checkedString(o.Filled),
		checkedString(o.Remaining),
		checkedString(o.Price),
		checkedString(o.CreatedAt),
	)
}

func checkedString(v fmt.Stringer) string {
	switch t := v.(type) {
	case *Money:
		if t == nil {
			return "<nil>"
		}
	case *Timestamp:
		if t == nil {
			return "<nil>"
		}
	}
	return v.String()
}
