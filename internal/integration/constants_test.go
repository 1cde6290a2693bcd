package integration_test

const (
	// Accounts
	TestAccountId          = 1001
	TestOtherAccountId     = 1002
	TestDecliningAccountId = 4002

	// Venue used by the Redis allocator
	TestVenueName     = "screen-1"
	TestVenueCapacity = 10

	TestDeclineMessage = "card declined"
)
