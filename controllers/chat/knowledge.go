package chatControllers

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/datle0910/delicious-bakery/models"
)

const knowledgeTTL = 5 * time.Minute

// knowledgeCache rebuilds the storefront snapshot lazily: the first chat
// request after expiry pays the rebuild cost, everyone else reads the cache.
type knowledgeCache struct {
	mu        sync.Mutex
	value     string
	expiresAt time.Time
	now       func() time.Time
}

var knowledge = &knowledgeCache{now: time.Now}

func (kc *knowledgeCache) get(db *gorm.DB) string {
	kc.mu.Lock()
	defer kc.mu.Unlock()
	if kc.value != "" && kc.now().Before(kc.expiresAt) {
		return kc.value
	}
	kc.value = buildKnowledge(db)
	kc.expiresAt = kc.now().Add(knowledgeTTL)
	return kc.value
}

// buildKnowledge renders the live catalog as markdown the model can quote
// from: every product grouped under its category, with price and stock.
func buildKnowledge(db *gorm.DB) string {
	var b strings.Builder
	b.WriteString("# DeliciousBakery - Knowledge Base\n\n")
	b.WriteString("DeliciousBakery is an online bakery. Customers browse cakes and pastries, ")
	b.WriteString("add them to a cart, check out with cash on delivery or Stripe, and track ")
	b.WriteString("their order until delivery.\n\n")
	b.WriteString("## CURRENT CATALOG:\n\n")

	var categories []models.Category
	var products []models.Product
	if err := db.Order("name ASC").Find(&categories).Error; err != nil {
		b.WriteString("Catalog temporarily unavailable.\n")
		return b.String()
	}
	if err := db.Find(&products).Error; err != nil {
		b.WriteString("Catalog temporarily unavailable.\n")
		return b.String()
	}

	totalStock := 0
	for _, category := range categories {
		b.WriteString("### " + category.Name + "\n")
		found := false
		for _, p := range products {
			if p.CategoryID != category.ID {
				continue
			}
			found = true
			fmt.Fprintf(&b, "- **%s** - Price: %.0f VND - In stock: %d\n", p.Name, p.Price, p.Stock)
			if p.Description != "" {
				b.WriteString("  " + p.Description + "\n")
			}
		}
		if !found {
			b.WriteString("- No products in this category yet.\n")
		}
		b.WriteString("\n")
	}

	for _, p := range products {
		totalStock += p.Stock
	}
	b.WriteString("## SUMMARY:\n")
	fmt.Fprintf(&b, "- Categories: %d\n", len(categories))
	fmt.Fprintf(&b, "- Products: %d\n", len(products))
	fmt.Fprintf(&b, "- Units in stock: %d\n", totalStock)

	return b.String()
}
