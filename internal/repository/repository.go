package repository

import "marquee/internal/database"

type Repositories struct {
	Seats   *SeatRepository
	Orders  *OrderRepository
	Catalog *CatalogRepository
	Users   *UserRepository
}

func NewRepositories(db *database.DB) *Repositories {
	seats := NewSeatRepository(db)
	return &Repositories{
		Seats:   seats,
		Orders:  NewOrderRepository(db, seats),
		Catalog: NewCatalogRepository(db),
		Users:   NewUserRepository(db),
	}
}
