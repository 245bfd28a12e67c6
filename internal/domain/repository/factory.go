package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Merchants() MerchantRepository
	Shops() ShopRepository
	Orders() OrderRepository
	Sequences() SequenceAllocator
}
