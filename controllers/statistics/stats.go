package statisticsControllers

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/datle0910/delicious-bakery/models"
)

const (
	topListSize       = 10
	lowStockThreshold = 10
	recentWindowDays  = 30
	recentWindowWeeks = 12
)

type TopProduct struct {
	ProductID         uint    `json:"product_id"`
	ProductName       string  `json:"product_name"`
	ProductImage      string  `json:"product_image"`
	TotalQuantitySold int     `json:"total_quantity_sold"`
	TotalRevenue      float64 `json:"total_revenue"`
	PurchaseCount     int     `json:"purchase_count"`
	CurrentStock      int     `json:"current_stock"`
}

type ProductStatistics struct {
	BestSellingProducts        []TopProduct `json:"best_selling_products"`
	SlowSellingProducts        []TopProduct `json:"slow_selling_products"`
	TopProductsByPurchaseCount []TopProduct `json:"top_products_by_purchase_count"`
	TotalProducts              int          `json:"total_products"`
	LowStockProducts           int          `json:"low_stock_products"`
	OutOfStockProducts         int          `json:"out_of_stock_products"`
}

type RevenueByPeriod struct {
	Period     string  `json:"period"`
	Revenue    float64 `json:"revenue"`
	OrderCount int     `json:"order_count"`
}

type RevenueStatistics struct {
	TotalRevenue      float64           `json:"total_revenue"`
	AverageOrderValue float64           `json:"average_order_value"`
	TotalOrders       int               `json:"total_orders"`
	RevenueByDay      []RevenueByPeriod `json:"revenue_by_day"`
	RevenueByWeek     []RevenueByPeriod `json:"revenue_by_week"`
	RevenueByMonth    []RevenueByPeriod `json:"revenue_by_month"`
	RevenueByYear     []RevenueByPeriod `json:"revenue_by_year"`
}

type TopCustomer struct {
	CustomerID    uint    `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	PurchaseCount int     `json:"purchase_count"`
	TotalSpending float64 `json:"total_spending"`
}

type CustomerStatistics struct {
	TotalCustomers              int           `json:"total_customers"`
	ActiveCustomers             int           `json:"active_customers"`
	NewCustomers                int           `json:"new_customers"`
	TopCustomersByPurchaseCount []TopCustomer `json:"top_customers_by_purchase_count"`
	TopCustomersByTotalSpending []TopCustomer `json:"top_customers_by_total_spending"`
}

// -------- Core Logic --------

// ProductStats aggregates sales per product across all order items. Best and
// slow sellers both exclude products that never sold.
func ProductStats(db *gorm.DB) (*ProductStatistics, error) {
	var products []models.Product
	if err := db.Find(&products).Error; err != nil {
		return nil, err
	}
	var items []models.OrderItem
	if err := db.Find(&items).Error; err != nil {
		return nil, err
	}

	type acc struct {
		quantity int
		revenue  float64
		count    int
	}
	byProduct := make(map[uint]*acc)
	for _, item := range items {
		a := byProduct[item.ProductID]
		if a == nil {
			a = &acc{}
			byProduct[item.ProductID] = a
		}
		a.quantity += item.Quantity
		a.revenue += item.TotalPrice
		a.count++
	}

	stats := &ProductStatistics{TotalProducts: len(products)}
	var all []TopProduct
	for _, p := range products {
		if p.Stock == 0 {
			stats.OutOfStockProducts++
		} else if p.Stock < lowStockThreshold {
			stats.LowStockProducts++
		}
		a := byProduct[p.ID]
		if a == nil {
			continue
		}
		all = append(all, TopProduct{
			ProductID:         p.ID,
			ProductName:       p.Name,
			ProductImage:      p.Image,
			TotalQuantitySold: a.quantity,
			TotalRevenue:      a.revenue,
			PurchaseCount:     a.count,
			CurrentStock:      p.Stock,
		})
	}

	best := make([]TopProduct, len(all))
	copy(best, all)
	sort.Slice(best, func(i, j int) bool { return best[i].TotalQuantitySold > best[j].TotalQuantitySold })
	stats.BestSellingProducts = topN(best, topListSize)

	slow := make([]TopProduct, len(all))
	copy(slow, all)
	sort.Slice(slow, func(i, j int) bool { return slow[i].TotalQuantitySold < slow[j].TotalQuantitySold })
	stats.SlowSellingProducts = topN(slow, topListSize)

	byCount := make([]TopProduct, len(all))
	copy(byCount, all)
	sort.Slice(byCount, func(i, j int) bool { return byCount[i].PurchaseCount > byCount[j].PurchaseCount })
	stats.TopProductsByPurchaseCount = topN(byCount, topListSize)

	return stats, nil
}

func topN(list []TopProduct, n int) []TopProduct {
	if len(list) > n {
		return list[:n]
	}
	return list
}

// RevenueStats counts only orders whose payment is PAID.
func RevenueStats(db *gorm.DB) (*RevenueStatistics, error) {
	var orders []models.Order
	if err := db.Preload("Payment").Find(&orders).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	dayCutoff := now.AddDate(0, 0, -recentWindowDays)
	weekCutoff := now.AddDate(0, 0, -recentWindowWeeks*7)

	byDay := make(map[string]*RevenueByPeriod)
	byWeek := make(map[string]*RevenueByPeriod)
	byMonth := make(map[string]*RevenueByPeriod)
	byYear := make(map[string]*RevenueByPeriod)

	add := func(m map[string]*RevenueByPeriod, key string, amount float64) {
		p := m[key]
		if p == nil {
			p = &RevenueByPeriod{Period: key}
			m[key] = p
		}
		p.Revenue += amount
		p.OrderCount++
	}

	stats := &RevenueStatistics{}
	for _, order := range orders {
		if order.Payment == nil || order.Payment.Status != models.PaymentStatusPaid {
			continue
		}
		stats.TotalRevenue += order.TotalAmount
		stats.TotalOrders++

		t := order.CreatedAt
		add(byMonth, t.Format("2006-01"), order.TotalAmount)
		add(byYear, t.Format("2006"), order.TotalAmount)
		if t.After(dayCutoff) {
			add(byDay, t.Format("2006-01-02"), order.TotalAmount)
		}
		if t.After(weekCutoff) {
			year, week := t.ISOWeek()
			add(byWeek, fmt.Sprintf("%d-W%02d", year, week), order.TotalAmount)
		}
	}

	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue / float64(stats.TotalOrders)
	}
	stats.RevenueByDay = sortedPeriods(byDay)
	stats.RevenueByWeek = sortedPeriods(byWeek)
	stats.RevenueByMonth = sortedPeriods(byMonth)
	stats.RevenueByYear = sortedPeriods(byYear)
	return stats, nil
}

func sortedPeriods(m map[string]*RevenueByPeriod) []RevenueByPeriod {
	out := make([]RevenueByPeriod, 0, len(m))
	for _, p := range m {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// CustomerStats: purchase counts include every order, spending only paid ones.
func CustomerStats(db *gorm.DB) (*CustomerStatistics, error) {
	var role models.Role
	if err := db.Where("name = ?", models.RoleCustomer).First(&role).Error; err != nil {
		return &CustomerStatistics{
			TopCustomersByPurchaseCount: []TopCustomer{},
			TopCustomersByTotalSpending: []TopCustomer{},
		}, nil
	}

	var customers []models.User
	if err := db.Where("role_id = ?", role.ID).Find(&customers).Error; err != nil {
		return nil, err
	}
	var orders []models.Order
	if err := db.Preload("Payment").Find(&orders).Error; err != nil {
		return nil, err
	}

	type acc struct {
		count    int
		spending float64
	}
	byCustomer := make(map[uint]*acc)
	for _, order := range orders {
		a := byCustomer[order.CustomerID]
		if a == nil {
			a = &acc{}
			byCustomer[order.CustomerID] = a
		}
		a.count++
		if order.Payment != nil && order.Payment.Status == models.PaymentStatusPaid {
			a.spending += order.TotalAmount
		}
	}

	stats := &CustomerStatistics{TotalCustomers: len(customers)}
	newCutoff := time.Now().AddDate(0, 0, -recentWindowDays)
	var all []TopCustomer
	for _, customer := range customers {
		if customer.CreatedAt.After(newCutoff) {
			stats.NewCustomers++
		}
		a := byCustomer[customer.ID]
		if a == nil || a.count == 0 {
			continue
		}
		stats.ActiveCustomers++
		all = append(all, TopCustomer{
			CustomerID:    customer.ID,
			CustomerName:  customer.FullName,
			CustomerEmail: customer.Email,
			PurchaseCount: a.count,
			TotalSpending: a.spending,
		})
	}

	byCount := make([]TopCustomer, len(all))
	copy(byCount, all)
	sort.Slice(byCount, func(i, j int) bool { return byCount[i].PurchaseCount > byCount[j].PurchaseCount })
	if len(byCount) > topListSize {
		byCount = byCount[:topListSize]
	}
	stats.TopCustomersByPurchaseCount = byCount

	bySpending := make([]TopCustomer, 0, len(all))
	for _, c := range all {
		if c.TotalSpending > 0 {
			bySpending = append(bySpending, c)
		}
	}
	sort.Slice(bySpending, func(i, j int) bool { return bySpending[i].TotalSpending > bySpending[j].TotalSpending })
	if len(bySpending) > topListSize {
		bySpending = bySpending[:topListSize]
	}
	stats.TopCustomersByTotalSpending = bySpending

	return stats, nil
}

// -------- Handlers --------

// GET /admin/statistics/products
func ProductStatsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := ProductStats(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// GET /admin/statistics/revenue
func RevenueStatsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := RevenueStats(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// GET /admin/statistics/customers
func CustomerStatsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := CustomerStats(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
