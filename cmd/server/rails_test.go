package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabison/suppliers/internal/platform/config"
)

func TestBuildRails(t *testing.T) {
	cfg := config.Default()
	cfg.Payments.Rails = []string{config.RailSandbox}
	got, err := buildRails(cfg)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sandbox", string(got[0].Method()))

	cfg.Payments.Rails = []string{config.RailMpesa}
	_, err = buildRails(cfg)
	assert.ErrorContains(t, err, "consumer key")

	cfg.Payments.Rails = []string{config.RailCard, config.RailPayPal}
	cfg.Payments.Card.SecretKey = "sk_test_123"
	cfg.Payments.PayPal.ClientID = "client"
	cfg.Payments.PayPal.ClientSecret = "secret"
	got, err = buildRails(cfg)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "card", string(got[0].Method()))
	assert.Equal(t, "paypal", string(got[1].Method()))
}
