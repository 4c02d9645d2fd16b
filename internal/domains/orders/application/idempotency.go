package application

import (
	"crypto/sha256"
	"encoding/hex"

	json "github.com/goccy/go-json"

	"github.com/Apurer/agrovet-registry/internal/domains/orders/application/types"
)

// MaxIdempotencyKeyLength bounds client-supplied keys.
const MaxIdempotencyKeyLength = 255

type normalizedOrderInput struct {
	ProductID    uint64 `json:"productId"`
	CustomerName string `json:"customerName"`
	Quantity     uint64 `json:"quantity"`
}

// FingerprintOrder builds a deterministic hash of the order payload (excluding the idempotency key).
func FingerprintOrder(input types.CreateOrderInput) (string, error) {
	payload, err := json.Marshal(normalizedOrderInput{
		ProductID:    input.ProductID,
		CustomerName: input.CustomerName,
		Quantity:     input.Quantity,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
