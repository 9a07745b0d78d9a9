package tax

import (
	"context"
	"fmt"

	"github.com/taxbridge/backend/internal/domain/tax"
)

// FieldExtractor reads the shipping and charge fields of an order from the
// host order-field store.
type FieldExtractor struct {
	reader tax.OrderFieldReader
}

// NewFieldExtractor creates a new FieldExtractor
func NewFieldExtractor(reader tax.OrderFieldReader) *FieldExtractor {
	return &FieldExtractor{reader: reader}
}

// Extract performs exactly one store read per field, in tax.OrderFields order.
// A field with no value becomes "". No completeness check is applied.
func (e *FieldExtractor) Extract(ctx context.Context, orderID string) (tax.OrderContext, error) {
	order := tax.OrderContext{OrderID: orderID}
	for _, name := range tax.OrderFields {
		value, err := e.reader.GetValue(ctx, tax.FieldCategoryOrder, name, orderID)
		if err != nil {
			return tax.OrderContext{}, fmt.Errorf("%w: %s for order %s: %w", tax.ErrOrderFieldRead, name, orderID, err)
		}
		if value != nil {
			order.Set(name, *value)
		}
	}
	return order, nil
}
