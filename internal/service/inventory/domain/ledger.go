// internal/service/inventory/domain/ledger.go
package domain

import (
	"sync"

	"storefront/internal/pkg/idgen"
)

// StockLevel 是某个商品当前的库存视图
type StockLevel struct {
	ProductID string
	Quantity  int
}

// Available 库存大于 0 即视为可售
func (s StockLevel) Available() bool {
	return s.Quantity > 0
}

// Reservation 是对库存的一次临时占用。存在期间，其数量已经从库存中扣除。
type Reservation struct {
	ID        string
	ProductID string
	Quantity  int
}

// Outcome 描述预占被如何了结
type Outcome string

const (
	OutcomeReserved  Outcome = "reserved"
	OutcomeCommitted Outcome = "committed"
	OutcomeCancelled Outcome = "cancelled"
)

// Movement 是一次账本变更的结果：涉及的预占，以及变更后该商品的库存
type Movement struct {
	Outcome     Outcome
	Reservation Reservation
	Stock       StockLevel
}

// Ledger 持有两张表：商品库存和未了结的预占。
//
// 所有操作都在同一把互斥锁内完成，Reserve 的“检查库存再扣减”因此是原子的，
// 并发预占不会超卖。对任意商品 p 始终满足：
// stock[p] + sum(未了结预占在 p 上的数量) == p 的初始库存。
type Ledger struct {
	mu           sync.Mutex
	stock        map[string]int
	reservations map[string]Reservation
	ids          idgen.Generator
}

// NewLedger 用种子库存创建账本，ids 用于生成预占 ID
func NewLedger(seed map[string]int, ids idgen.Generator) *Ledger {
	stock := make(map[string]int, len(seed))
	for productID, qty := range seed {
		if qty < 0 {
			qty = 0
		}
		stock[productID] = qty
	}
	return &Ledger{
		stock:        stock,
		reservations: make(map[string]Reservation),
		ids:          ids,
	}
}

// GetStock 只读查询，商品不存在返回 ErrProductNotFound
func (l *Ledger) GetStock(productID string) (StockLevel, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	qty, ok := l.stock[productID]
	if !ok {
		return StockLevel{}, ErrProductNotFound
	}
	return StockLevel{ProductID: productID, Quantity: qty}, nil
}

// Reserve 乐观扣减：立即从库存中扣除，等待后续 Resolve 提交或回滚
func (l *Ledger) Reserve(productID string, quantity int) (Movement, error) {
	if quantity <= 0 {
		return Movement{}, ErrInvalidQuantity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	qty, ok := l.stock[productID]
	if !ok {
		return Movement{}, ErrUnknownProduct
	}
	if quantity > qty {
		return Movement{}, ErrInsufficientStock
	}

	res := Reservation{ID: l.nextID(), ProductID: productID, Quantity: quantity}
	l.reservations[res.ID] = res
	l.stock[productID] = qty - quantity

	return Movement{
		Outcome:     OutcomeReserved,
		Reservation: res,
		Stock:       StockLevel{ProductID: productID, Quantity: l.stock[productID]},
	}, nil
}

// Resolve 了结一笔预占：commit=true 扣减生效，false 把数量归还库存。
// 了结后记录被删除，再次 Resolve 同一个 ID 返回 ErrReservationNotFound。
func (l *Ledger) Resolve(reservationID string, commit bool) (Movement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, ok := l.reservations[reservationID]
	if !ok {
		return Movement{}, ErrReservationNotFound
	}
	delete(l.reservations, reservationID)

	outcome := OutcomeCommitted
	if !commit {
		l.stock[res.ProductID] += res.Quantity
		outcome = OutcomeCancelled
	}

	return Movement{
		Outcome:     outcome,
		Reservation: res,
		Stock:       StockLevel{ProductID: res.ProductID, Quantity: l.stock[res.ProductID]},
	}, nil
}

// Held 返回某个商品上所有未了结预占的数量之和
func (l *Ledger) Held(productID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := 0
	for _, res := range l.reservations {
		if res.ProductID == productID {
			total += res.Quantity
		}
	}
	return total
}

// nextID 在持锁状态下调用；生成器理论上不会重复，这里仍跳过已占用的 ID
func (l *Ledger) nextID() string {
	for {
		id := l.ids.NewID()
		if _, taken := l.reservations[id]; !taken {
			return id
		}
	}
}
