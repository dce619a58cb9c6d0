package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "orders", Order{}.TableName())
	assert.Equal(t, "order_items", OrderItem{}.TableName())
	assert.Equal(t, "completion_photos", CompletionPhoto{}.TableName())
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    OrderStatus
		wantErr bool
	}{
		{"processing", "processing", OrderStatusProcessing, false},
		{"assigned", "assigned", OrderStatusAssigned, false},
		{"printing", "printing", OrderStatusPrinting, false},
		{"completed", "completed", OrderStatusCompleted, false},
		{"shipped", "shipped", OrderStatusShipped, false},
		{"cancelled", "cancelled", OrderStatusCancelled, false},
		{"unknown value", "done", "", true},
		{"wrong case", "Printing", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrderStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderStatus_Classification(t *testing.T) {
	assert.True(t, OrderStatusAssigned.IsActiveProduction())
	assert.True(t, OrderStatusPrinting.IsActiveProduction())
	assert.False(t, OrderStatusProcessing.IsActiveProduction())
	assert.False(t, OrderStatusCompleted.IsActiveProduction())

	assert.True(t, OrderStatusShipped.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusCompleted.IsTerminal())
}

func TestStatusScanAndValue(t *testing.T) {
	var os OrderStatus
	require.NoError(t, os.Scan([]byte("printing")))
	assert.Equal(t, OrderStatusPrinting, os)
	assert.Error(t, os.Scan("bogus"))

	var cs CompletionStatus
	require.NoError(t, cs.Scan("completed"))
	assert.Equal(t, CompletionCompleted, cs)
	assert.Error(t, cs.Scan(nil))

	var ps PhotoStatus
	require.NoError(t, ps.Scan("needs_review"))
	assert.Equal(t, PhotoNeedsReview, ps)

	v, err := PhotoMatched.Value()
	require.NoError(t, err)
	assert.Equal(t, "matched", v)

	_, err = PhotoStatus("archived").Value()
	assert.Error(t, err)
	_, err = CompletionStatus("").Value()
	assert.Error(t, err)
}

func TestOrderItem_IsCompleted(t *testing.T) {
	assert.True(t, OrderItem{CompletionStatus: CompletionCompleted}.IsCompleted())
	assert.False(t, OrderItem{CompletionStatus: CompletionPending}.IsCompleted())
}
