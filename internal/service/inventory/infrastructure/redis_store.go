// internal/service/inventory/infrastructure/redis_store.go
package infrastructure

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"storefront/internal/pkg/idgen"
	"storefront/internal/pkg/redis"
	"storefront/internal/service/inventory/domain"
)

const (
	reserveScriptName = "inventory_reserve"
	resolveScriptName = "inventory_resolve"

	// 所有账本 key 共用 {ledger} 哈希标签，集群模式下落在同一个 slot，脚本才能同时操作
	ledgerKeyPrefix = "inventory:{ledger}:"
	maxIDAttempts   = 3
)

// Reserve 脚本的返回码，非负数表示扣减后的剩余库存
const (
	codeUnknownProduct    = -1
	codeInsufficientStock = -2
	codeIDTaken           = -3
	codeProductMismatch   = -4
)

// RedisLedgerStore 是 LedgerStore 的 Redis 实现。
// 检查库存和扣减在同一个 Lua 脚本里执行，多个服务实例共享同一份账本也不会超卖。
type RedisLedgerStore struct {
	client *redis.Client
	ids    idgen.Generator
}

// NewRedisLedgerStore 在创建时加载所有需要的 Lua 脚本
func NewRedisLedgerStore(client *redis.Client, ids idgen.Generator) (*RedisLedgerStore, error) {
	if err := client.LoadScriptFromContent(reserveScriptName, reserveScript); err != nil {
		return nil, errors.Wrap(err, "load reserve script")
	}
	if err := client.LoadScriptFromContent(resolveScriptName, resolveScript); err != nil {
		return nil, errors.Wrap(err, "load resolve script")
	}
	return &RedisLedgerStore{client: client, ids: ids}, nil
}

func stockKey(productID string) string {
	return ledgerKeyPrefix + "stock:" + productID
}

func reservationKey(reservationID string) string {
	return fmt.Sprintf("%sreservation:%s", ledgerKeyPrefix, reservationID)
}

// Seed 初始化库存；已存在的 key 不覆盖，多实例重启不会重置线上库存
func (s *RedisLedgerStore) Seed(ctx context.Context, seed map[string]int) error {
	pipe := s.client.GetClient().Pipeline()
	for productID, qty := range seed {
		if qty < 0 {
			qty = 0
		}
		pipe.SetNX(ctx, stockKey(productID), qty, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "seed inventory stock")
	}
	return nil
}

func (s *RedisLedgerStore) GetStock(ctx context.Context, productID string) (domain.StockLevel, error) {
	qty, err := s.client.GetClient().Get(ctx, stockKey(productID)).Int()
	if errors.Is(err, goredis.Nil) {
		return domain.StockLevel{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.StockLevel{}, errors.Wrapf(err, "get stock of %s", productID)
	}
	return domain.StockLevel{ProductID: productID, Quantity: qty}, nil
}

func (s *RedisLedgerStore) Reserve(ctx context.Context, productID string, quantity int) (domain.Movement, error) {
	if quantity <= 0 {
		return domain.Movement{}, domain.ErrInvalidQuantity
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		reservationID := s.ids.NewID()
		keys := []string{stockKey(productID), reservationKey(reservationID)}

		result, err := s.client.RunScript(ctx, reserveScriptName, keys, quantity, productID)
		if err != nil {
			return domain.Movement{}, errors.Wrap(err, "run reserve script")
		}
		code, ok := result.(int64)
		if !ok {
			return domain.Movement{}, fmt.Errorf("unexpected result type from reserve script: %T", result)
		}

		switch {
		case code >= 0:
			return domain.Movement{
				Outcome:     domain.OutcomeReserved,
				Reservation: domain.Reservation{ID: reservationID, ProductID: productID, Quantity: quantity},
				Stock:       domain.StockLevel{ProductID: productID, Quantity: int(code)},
			}, nil
		case code == codeUnknownProduct:
			return domain.Movement{}, domain.ErrUnknownProduct
		case code == codeInsufficientStock:
			return domain.Movement{}, domain.ErrInsufficientStock
		case code == codeIDTaken:
			continue
		default:
			return domain.Movement{}, fmt.Errorf("unknown result code from reserve script: %d", code)
		}
	}
	return domain.Movement{}, errors.New("could not allocate a unique reservation id")
}

func (s *RedisLedgerStore) Resolve(ctx context.Context, reservationID string, commit bool) (domain.Movement, error) {
	commitArg := "0"
	if commit {
		commitArg = "1"
	}

	// 1. 先读出预占对应的商品，脚本需要提前声明库存 key
	resKey := reservationKey(reservationID)
	owner, err := s.client.GetClient().HGet(ctx, resKey, "productId").Result()
	if errors.Is(err, goredis.Nil) {
		return domain.Movement{}, domain.ErrReservationNotFound
	}
	if err != nil {
		return domain.Movement{}, errors.Wrapf(err, "get reservation %s", reservationID)
	}

	// 2. 脚本内再次校验预占仍存在且商品一致，并发结算时只有一个能成功
	keys := []string{resKey, stockKey(owner)}
	result, err := s.client.RunScript(ctx, resolveScriptName, keys, commitArg, owner)
	if err != nil {
		return domain.Movement{}, errors.Wrap(err, "run resolve script")
	}

	fields, ok := result.([]interface{})
	if !ok || len(fields) != 3 {
		code, isInt := result.(int64)
		switch {
		case isInt && code == codeUnknownProduct:
			return domain.Movement{}, domain.ErrReservationNotFound
		case isInt && code == codeProductMismatch:
			return domain.Movement{}, fmt.Errorf("reservation %s changed product during resolve", reservationID)
		}
		return domain.Movement{}, fmt.Errorf("unexpected result from resolve script: %v", result)
	}

	productID, _ := fields[0].(string)
	quantity, qOK := fields[1].(int64)
	remaining, rOK := fields[2].(int64)
	if productID == "" || !qOK || !rOK {
		return domain.Movement{}, fmt.Errorf("malformed result from resolve script: %v", fields)
	}

	outcome := domain.OutcomeCommitted
	if !commit {
		outcome = domain.OutcomeCancelled
	}
	return domain.Movement{
		Outcome:     outcome,
		Reservation: domain.Reservation{ID: reservationID, ProductID: productID, Quantity: int(quantity)},
		Stock:       domain.StockLevel{ProductID: productID, Quantity: int(remaining)},
	}, nil
}

var reserveScript = `
-- KEYS[1]: 库存 key, 例如 inventory:{ledger}:stock:prod-123
-- KEYS[2]: 预占 key, 例如 inventory:{ledger}:reservation:res-xxx
-- ARGV[1]: 预占数量
-- ARGV[2]: 商品 ID

local stock = redis.call('get', KEYS[1])
if not stock then
    return -1
end
stock = tonumber(stock)

local qty = tonumber(ARGV[1])
if qty > stock then
    return -2
end

if redis.call('exists', KEYS[2]) == 1 then
    return -3
end

redis.call('decrby', KEYS[1], qty)
redis.call('hset', KEYS[2], 'productId', ARGV[2], 'quantity', qty)
return stock - qty
`

var resolveScript = `
-- KEYS[1]: 预占 key
-- KEYS[2]: 库存 key
-- ARGV[1]: '1' 提交, '0' 取消
-- ARGV[2]: 调用方读到的商品 ID

local fields = redis.call('hmget', KEYS[1], 'productId', 'quantity')
if not fields[1] then
    return -1
end

local productId = fields[1]
if productId ~= ARGV[2] then
    return -4
end
local qty = tonumber(fields[2])

redis.call('del', KEYS[1])

local remaining
if ARGV[1] == '0' then
    remaining = redis.call('incrby', KEYS[2], qty)
else
    remaining = tonumber(redis.call('get', KEYS[2]) or '0')
end

return {productId, qty, remaining}
`
