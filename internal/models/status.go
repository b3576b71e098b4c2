package models

// SlotStatus is the closed set of calendar slot states.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotConfirmed SlotStatus = "confirmed"
	SlotCanceled  SlotStatus = "canceled"
)

func (s SlotStatus) Valid() bool {
	switch s {
	case SlotAvailable, SlotBooked, SlotConfirmed, SlotCanceled:
		return true
	}
	return false
}

// OrderStatus is the closed set of order states.
type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderPaid     OrderStatus = "paid"
	OrderCanceled OrderStatus = "canceled"
	OrderRefunded OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderCanceled, OrderRefunded:
		return true
	}
	return false
}

// SlotMode is informational: how the service is delivered.
type SlotMode string

const (
	ModeOnline SlotMode = "online"
	ModeOnSite SlotMode = "on-site"
)

func (m SlotMode) Valid() bool {
	return m == ModeOnline || m == ModeOnSite
}
