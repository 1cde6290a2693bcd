package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/metinatakli/cinema-tickets/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Redis Lua script that allocates seats against the venue capacity and records the
// allocation per account. Returns the number of seats left, or -1 when the request
// does not fit.
var allocateSeats = redis.NewScript(`
	local allocatedKey = KEYS[1]
	local accountsKey = KEYS[2]
	local requested = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local accountId = ARGV[3]

	local allocated = tonumber(redis.call("GET", allocatedKey) or "0")

	if allocated + requested > capacity then
		return -1
	end

	redis.call("INCRBY", allocatedKey, requested)
	redis.call("HINCRBY", accountsKey, accountId, requested)

	return capacity - allocated - requested
`)

// RedisSeatAllocator reserves seats from a fixed-capacity pool held in Redis.
type RedisSeatAllocator struct {
	client   redis.UniversalClient
	venue    string
	capacity int
}

func NewRedisSeatAllocator(client redis.UniversalClient, venue string, capacity int) *RedisSeatAllocator {
	return &RedisSeatAllocator{
		client:   client,
		venue:    venue,
		capacity: capacity,
	}
}

func seatsAllocatedKey(venue string) string {
	return fmt.Sprintf("venue:%s:seats_allocated", venue)
}

func accountSeatsKey(venue string) string {
	return fmt.Sprintf("venue:%s:account_seats", venue)
}

func (r *RedisSeatAllocator) ReserveSeats(ctx context.Context, accountID int64, seats int) error {
	if seats < 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSeatCount, seats)
	}

	keys := []string{seatsAllocatedKey(r.venue), accountSeatsKey(r.venue)}

	remaining, err := allocateSeats.Run(ctx, r.client, keys, seats, r.capacity, accountID).Int64()
	if err != nil {
		return fmt.Errorf("failed to run allocateSeats script: %w", err)
	}

	if remaining < 0 {
		return fmt.Errorf("%w: requested %d", domain.ErrNotEnoughSeats, seats)
	}

	return nil
}

// SeatsAvailable returns how many seats are still unallocated.
func (r *RedisSeatAllocator) SeatsAvailable(ctx context.Context) (int, error) {
	allocated, err := r.client.Get(ctx, seatsAllocatedKey(r.venue)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}

	return r.capacity - allocated, nil
}

func (r *RedisSeatAllocator) SeatsReservedByAccount(ctx context.Context, accountID int64) (int, error) {
	seats, err := r.client.HGet(ctx, accountSeatsKey(r.venue), strconv.FormatInt(accountID, 10)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, err
	}

	return seats, nil
}
