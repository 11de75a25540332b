package gateway_fx

import (
	"os"

	"go.uber.org/fx"

	"tradementor/internal/gateway"
)

var Module = fx.Provide(
	provideGatewayClient)

func provideGatewayClient() gateway.Client {
	return gateway.NewClient(gateway.Config{
		BaseURL:     os.Getenv("NICEPAY_BASE_URL"),
		MID:         os.Getenv("NICEPAY_MID"),
		MerchantKey: os.Getenv("NICEPAY_MERCHANT_KEY"),
	})
}
