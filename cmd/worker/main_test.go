package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFulfillmentTimeout(t *testing.T) {
	t.Run("defaults to ten seconds", func(t *testing.T) {
		t.Setenv("FULFILLMENT_TIMEOUT_SECONDS", "")
		assert.Equal(t, 10*time.Second, fulfillmentTimeout())
	})

	t.Run("honors the configured value", func(t *testing.T) {
		t.Setenv("FULFILLMENT_TIMEOUT_SECONDS", "3")
		assert.Equal(t, 3*time.Second, fulfillmentTimeout())
	})

	t.Run("falls back on invalid values", func(t *testing.T) {
		t.Setenv("FULFILLMENT_TIMEOUT_SECONDS", "-1")
		assert.Equal(t, 10*time.Second, fulfillmentTimeout())

		t.Setenv("FULFILLMENT_TIMEOUT_SECONDS", "soon")
		assert.Equal(t, 10*time.Second, fulfillmentTimeout())
	})
}
