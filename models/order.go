package models

import "time"

// OrderItem is one line item as submitted by the web storefront.
type OrderItem struct {
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	Total        int64  `json:"total"`
	SelectedSize string `json:"selectedSize,omitempty"`
}

type CreateOrderInput struct {
	UserID        int64
	Username      string
	FirstName     string
	CustomerName  string
	CustomerPhone string
	CustomerAddr  string // free-text address from the storefront
	Items         []OrderItem
	TotalAmount   int64
	Branch        string // declared branch label from the storefront
	Lat           *float64
	Lon           *float64
	DeliveryFee   *int64
	NearestBranch *string
}

// Order is a row from the orders table.
type Order struct {
	ID            string
	UserID        int64
	Username      string
	FirstName     string
	CustomerName  string
	CustomerPhone string
	CustomerAddr  string
	Items         []OrderItem
	TotalAmount   int64
	Branch        string
	Lat           *float64
	Lon           *float64
	DeliveryFee   *int64
	NearestBranch *string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GrandTotal is the declared items total plus the delivery fee, when one
// has been attached.
func (o *Order) GrandTotal() int64 {
	if o.DeliveryFee != nil {
		return o.TotalAmount + *o.DeliveryFee
	}
	return o.TotalAmount
}

type Statistics struct {
	TotalOrders      int
	TotalUsers       int
	CompletedRevenue int64
	OrdersByStatus   map[string]int
}

type DailyStats struct {
	OrdersCount     int
	ItemsRevenue    int64
	DeliveryRevenue int64
	GrandRevenue    int64
}
