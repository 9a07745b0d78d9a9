package tax

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taxbridge/backend/internal/domain/tax"
)

func TestFieldExtractor_ReadsEveryFieldOnceInOrder(t *testing.T) {
	reader := &mapFieldReader{values: map[string]string{
		tax.FieldShippingCity:       "Austin",
		tax.FieldShippingPostalCode: "78701",
	}}

	order, err := NewFieldExtractor(reader).Extract(context.Background(), "1001")
	require.NoError(t, err)

	want := make([]string, 0, len(tax.OrderFields))
	for _, name := range tax.OrderFields {
		want = append(want, tax.FieldCategoryOrder+"/"+name)
	}
	assert.Equal(t, want, reader.reads)
	assert.Equal(t, "1001", order.OrderID)
	assert.Equal(t, "Austin", order.City)
	assert.Equal(t, "78701", order.PostalCode)
	assert.Equal(t, "", order.Address1)
	assert.Equal(t, "", order.ShippingCharge)
}

func TestFieldExtractor_StoreFailureIsNotAbsence(t *testing.T) {
	reader := new(MockOrderFieldReader)
	reader.On("GetValue", mock.Anything, tax.FieldCategoryOrder, tax.FieldShippingFirstName, "7").Return(strPtr("Ada"), nil)
	reader.On("GetValue", mock.Anything, tax.FieldCategoryOrder, tax.FieldShippingLastName, "7").Return(nil, errors.New("connection reset"))

	_, err := NewFieldExtractor(reader).Extract(context.Background(), "7")

	require.Error(t, err)
	assert.ErrorIs(t, err, tax.ErrOrderFieldRead)
	assert.Contains(t, err.Error(), "connection reset")
	reader.AssertNumberOfCalls(t, "GetValue", 2)
}
