package statisticsControllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

// The built-in PDF fonts cannot render the dong sign, so PDF exports spell
// out the currency instead.
func formatAmountPDF(amount float64) string {
	digits := strconv.FormatFloat(amount, 'f', 0, 64)
	neg := false
	if len(digits) > 0 && digits[0] == '-' {
		neg = true
		digits = digits[1:]
	}
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	s := string(out) + " VND"
	if neg {
		s = "-" + s
	}
	return s
}

func newStatsPDF(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 8, "Generated "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(12)
	return pdf
}

func pdfSection(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
}

func pdfTable(pdf *gofpdf.Fpdf, widths []float64, header []string, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func writePDF(c *gin.Context, filename string, pdf *gofpdf.Fpdf) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/pdf")
	if err := pdf.Output(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write PDF file"})
	}
}

// GET /admin/statistics/products/export/pdf
func ExportProductStatsPDFHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := ProductStats(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		pdf := newStatsPDF("Product Statistics")

		pdfSection(pdf, "Summary")
		pdfTable(pdf,
			[]float64{60, 40},
			[]string{"Metric", "Value"},
			[][]string{
				{"Total products", strconv.Itoa(stats.TotalProducts)},
				{"Low stock", strconv.Itoa(stats.LowStockProducts)},
				{"Out of stock", strconv.Itoa(stats.OutOfStockProducts)},
			})

		productRows := func(list []TopProduct) [][]string {
			rows := make([][]string, 0, len(list))
			for _, p := range list {
				rows = append(rows, []string{
					p.ProductName,
					strconv.Itoa(p.TotalQuantitySold),
					formatAmountPDF(p.TotalRevenue),
					strconv.Itoa(p.CurrentStock),
				})
			}
			return rows
		}
		widths := []float64{70, 35, 45, 25}
		header := []string{"Product", "Qty Sold", "Revenue", "Stock"}

		pdfSection(pdf, "Top 10 best sellers")
		pdfTable(pdf, widths, header, productRows(stats.BestSellingProducts))

		pdfSection(pdf, "Slow sellers")
		pdfTable(pdf, widths, header, productRows(stats.SlowSellingProducts))

		writePDF(c, "product-statistics.pdf", pdf)
	}
}

// GET /admin/statistics/revenue/export/pdf
func ExportRevenueStatsPDFHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := RevenueStats(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		pdf := newStatsPDF("Revenue Statistics")

		pdfSection(pdf, "Summary")
		pdfTable(pdf,
			[]float64{60, 60},
			[]string{"Metric", "Value"},
			[][]string{
				{"Total revenue", formatAmountPDF(stats.TotalRevenue)},
				{"Total paid orders", strconv.Itoa(stats.TotalOrders)},
				{"Average order value", formatAmountPDF(stats.AverageOrderValue)},
			})

		periodRows := func(list []RevenueByPeriod) [][]string {
			rows := make([][]string, 0, len(list))
			for _, p := range list {
				rows = append(rows, []string{p.Period, formatAmountPDF(p.Revenue), fmt.Sprintf("%d", p.OrderCount)})
			}
			return rows
		}
		widths := []float64{45, 55, 30}
		header := []string{"Period", "Revenue", "Orders"}

		pdfSection(pdf, "By day (last 30 days)")
		pdfTable(pdf, widths, header, periodRows(stats.RevenueByDay))

		pdfSection(pdf, "By week (last 12 weeks)")
		pdfTable(pdf, widths, header, periodRows(stats.RevenueByWeek))

		pdfSection(pdf, "By month")
		pdfTable(pdf, widths, header, periodRows(stats.RevenueByMonth))

		pdfSection(pdf, "By year")
		pdfTable(pdf, widths, header, periodRows(stats.RevenueByYear))

		writePDF(c, "revenue-statistics.pdf", pdf)
	}
}

// GET /admin/statistics/customers/export/pdf
func ExportCustomerStatsPDFHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := CustomerStats(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		pdf := newStatsPDF("Customer Statistics")

		pdfSection(pdf, "Summary")
		pdfTable(pdf,
			[]float64{70, 40},
			[]string{"Metric", "Value"},
			[][]string{
				{"Total customers", strconv.Itoa(stats.TotalCustomers)},
				{"Active customers", strconv.Itoa(stats.ActiveCustomers)},
				{"New customers (30 days)", strconv.Itoa(stats.NewCustomers)},
			})

		customerRows := func(list []TopCustomer) [][]string {
			rows := make([][]string, 0, len(list))
			for _, cu := range list {
				rows = append(rows, []string{
					cu.CustomerName,
					cu.CustomerEmail,
					strconv.Itoa(cu.PurchaseCount),
					formatAmountPDF(cu.TotalSpending),
				})
			}
			return rows
		}
		widths := []float64{45, 60, 25, 45}
		header := []string{"Customer", "Email", "Orders", "Spending"}

		pdfSection(pdf, "Top 10 by purchase count")
		pdfTable(pdf, widths, header, customerRows(stats.TopCustomersByPurchaseCount))

		pdfSection(pdf, "Top 10 by total spending")
		pdfTable(pdf, widths, header, customerRows(stats.TopCustomersByTotalSpending))

		writePDF(c, "customer-statistics.pdf", pdf)
	}
}
