package statisticsControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

func formatVND(amount float64) string {
	digits := strconv.FormatFloat(amount, 'f', 0, 64)
	neg := false
	if len(digits) > 0 && digits[0] == '-' {
		neg = true
		digits = digits[1:]
	}
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}
	s := string(out) + " ₫"
	if neg {
		s = "-" + s
	}
	return s
}

func writeExcel(c *gin.Context, filename string, file *xlsx.File) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}

func addHeaderRow(sheet *xlsx.Sheet, headers ...string) {
	row := sheet.AddRow()
	for _, h := range headers {
		cell := row.AddCell()
		cell.SetValue(h)
		style := xlsx.NewStyle()
		style.Font.Bold = true
		style.ApplyFont = true
		cell.SetStyle(style)
	}
}

// GET /admin/statistics/products/export/excel
func ExportProductStatsExcelHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := ProductStats(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		addHeaderRow(sheet, "Product Statistics")
		sheet.AddRow()

		summary := [][2]interface{}{
			{"Total products", stats.TotalProducts},
			{"Low stock", stats.LowStockProducts},
			{"Out of stock", stats.OutOfStockProducts},
		}
		for _, line := range summary {
			row := sheet.AddRow()
			row.AddCell().SetValue(line[0])
			row.AddCell().SetValue(line[1])
		}
		sheet.AddRow()

		addHeaderRow(sheet, "Top 10 best sellers")
		addHeaderRow(sheet, "Product", "Quantity Sold", "Revenue", "Purchase Count", "Stock")
		for _, p := range stats.BestSellingProducts {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ProductName)
			row.AddCell().SetValue(p.TotalQuantitySold)
			row.AddCell().SetValue(formatVND(p.TotalRevenue))
			row.AddCell().SetValue(p.PurchaseCount)
			row.AddCell().SetValue(p.CurrentStock)
		}
		sheet.AddRow()

		addHeaderRow(sheet, "Top 10 by purchase count")
		addHeaderRow(sheet, "Product", "Purchase Count", "Quantity Sold", "Revenue", "Stock")
		for _, p := range stats.TopProductsByPurchaseCount {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ProductName)
			row.AddCell().SetValue(p.PurchaseCount)
			row.AddCell().SetValue(p.TotalQuantitySold)
			row.AddCell().SetValue(formatVND(p.TotalRevenue))
			row.AddCell().SetValue(p.CurrentStock)
		}
		sheet.AddRow()

		addHeaderRow(sheet, "Slow sellers")
		addHeaderRow(sheet, "Product", "Quantity Sold", "Revenue", "Stock")
		for _, p := range stats.SlowSellingProducts {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ProductName)
			row.AddCell().SetValue(p.TotalQuantitySold)
			row.AddCell().SetValue(formatVND(p.TotalRevenue))
			row.AddCell().SetValue(p.CurrentStock)
		}

		writeExcel(c, "product-statistics.xlsx", file)
	}
}

// GET /admin/statistics/revenue/export/excel
func ExportRevenueStatsExcelHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := RevenueStats(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Revenue")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		addHeaderRow(sheet, "Revenue Statistics")
		sheet.AddRow()

		summary := [][2]interface{}{
			{"Total revenue", formatVND(stats.TotalRevenue)},
			{"Total paid orders", stats.TotalOrders},
			{"Average order value", formatVND(stats.AverageOrderValue)},
		}
		for _, line := range summary {
			row := sheet.AddRow()
			row.AddCell().SetValue(line[0])
			row.AddCell().SetValue(line[1])
		}
		sheet.AddRow()

		sections := []struct {
			title   string
			periods []RevenueByPeriod
		}{
			{"Revenue by day (last 30 days)", stats.RevenueByDay},
			{"Revenue by week (last 12 weeks)", stats.RevenueByWeek},
			{"Revenue by month", stats.RevenueByMonth},
			{"Revenue by year", stats.RevenueByYear},
		}
		for _, section := range sections {
			addHeaderRow(sheet, section.title)
			addHeaderRow(sheet, "Period", "Revenue", "Orders")
			for _, p := range section.periods {
				row := sheet.AddRow()
				row.AddCell().SetValue(p.Period)
				row.AddCell().SetValue(formatVND(p.Revenue))
				row.AddCell().SetValue(p.OrderCount)
			}
			sheet.AddRow()
		}

		writeExcel(c, "revenue-statistics.xlsx", file)
	}
}

// GET /admin/statistics/customers/export/excel
func ExportCustomerStatsExcelHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := CustomerStats(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Customers")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		addHeaderRow(sheet, "Customer Statistics")
		sheet.AddRow()

		summary := [][2]interface{}{
			{"Total customers", stats.TotalCustomers},
			{"Active customers", stats.ActiveCustomers},
			{"New customers (last 30 days)", stats.NewCustomers},
		}
		for _, line := range summary {
			row := sheet.AddRow()
			row.AddCell().SetValue(line[0])
			row.AddCell().SetValue(line[1])
		}
		sheet.AddRow()

		addHeaderRow(sheet, "Top 10 by purchase count")
		addHeaderRow(sheet, "Customer", "Email", "Orders", "Total Spending")
		for _, cu := range stats.TopCustomersByPurchaseCount {
			row := sheet.AddRow()
			row.AddCell().SetValue(cu.CustomerName)
			row.AddCell().SetValue(cu.CustomerEmail)
			row.AddCell().SetValue(cu.PurchaseCount)
			row.AddCell().SetValue(formatVND(cu.TotalSpending))
		}
		sheet.AddRow()

		addHeaderRow(sheet, "Top 10 by total spending")
		addHeaderRow(sheet, "Customer", "Email", "Total Spending", "Orders")
		for _, cu := range stats.TopCustomersByTotalSpending {
			row := sheet.AddRow()
			row.AddCell().SetValue(cu.CustomerName)
			row.AddCell().SetValue(cu.CustomerEmail)
			row.AddCell().SetValue(formatVND(cu.TotalSpending))
			row.AddCell().SetValue(cu.PurchaseCount)
		}

		writeExcel(c, "customer-statistics.xlsx", file)
	}
}
