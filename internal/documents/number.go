// Package documents holds the pure building blocks shared by quotation and
// purchase services: document numbering and line-item pricing.
package documents

import (
	"fmt"
	"math/rand"
	"time"
)

// Document number prefixes.
const (
	PrefixQuotation = "QT"
	PrefixPurchase  = "PO"
)

// Number generates a human-readable document number formatted
// {PREFIX}-{YYMMDD}-{4-digit-random}. The random suffix admits collisions;
// the unique constraint on the number column is the actual collision guard
// and a violation surfaces as a Conflict from the document service.
func Number(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, at.Format("060102"), rand.Intn(10000))
}
