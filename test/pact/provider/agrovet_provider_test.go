//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/agrovet-registry/test/pact"

	marketplaceserver "github.com/Apurer/agrovet-registry/go"
	"github.com/Apurer/agrovet-registry/internal/app/state"
	agrovetobs "github.com/Apurer/agrovet-registry/internal/domains/agrovets/adapters/observability"
	agrovettypes "github.com/Apurer/agrovet-registry/internal/domains/agrovets/application/types"
	feedbackobs "github.com/Apurer/agrovet-registry/internal/domains/feedback/adapters/observability"
	orderobs "github.com/Apurer/agrovet-registry/internal/domains/orders/adapters/observability"
	orderworkflows "github.com/Apurer/agrovet-registry/internal/domains/orders/adapters/workflows"
	productobs "github.com/Apurer/agrovet-registry/internal/domains/products/adapters/observability"
	producttypes "github.com/Apurer/agrovet-registry/internal/domains/products/application/types"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem/inmem"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestAgrovetProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateEmpty: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateAgrovetExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedAgrovet(t)
			}
			return nil, nil
		},
		pacttest.StateProductListed: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedAgrovet(t)
				app.seedProduct(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp swaps in a fresh registry for every provider state so
// ids restart at 1.
type contractProviderApp struct {
	mu     sync.RWMutex
	state  *state.State
	router *gin.Engine
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	st, err := state.Open(context.Background(), inmem.NewRegion())
	require.NoError(t, err)

	orderService := orderobs.New(st.OrderService)
	handlers := marketplaceserver.ApiHandleFunctions{
		AgrovetAPI:  marketplaceserver.NewAgrovetAPI(agrovetobs.New(st.AgrovetService)),
		ProductAPI:  marketplaceserver.NewProductAPI(productobs.New(st.ProductService)),
		OrderAPI:    marketplaceserver.NewOrderAPI(orderService, orderworkflows.NewInlineOrderWorkflows(orderService)),
		FeedbackAPI: marketplaceserver.NewFeedbackAPI(feedbackobs.New(st.FeedbackService)),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router = marketplaceserver.NewRouterWithGinEngine(router, handlers)

	a.mu.Lock()
	previous := a.state
	a.state, a.router = st, router
	a.mu.Unlock()
	if previous != nil {
		_ = previous.Close()
	}
}

func (a *contractProviderApp) seedAgrovet(t testing.TB) {
	t.Helper()
	example := pacttest.ExampleAgrovetPayload()
	a.mu.RLock()
	defer a.mu.RUnlock()
	created, err := a.state.AgrovetService.CreateAgrovet(context.Background(), agrovettypes.CreateAgrovetInput{
		Name:     example["name"].(string),
		Location: example["location"].(string),
		Contact:  example["contact"].(string),
		Email:    example["email"].(string),
		Products: example["products"].([]string),
	})
	require.NoError(t, err)
	require.Equal(t, pacttest.ExistingAgrovetID, created.ID)
}

func (a *contractProviderApp) seedProduct(t testing.TB) {
	t.Helper()
	example := pacttest.ExampleProductPayload()
	a.mu.RLock()
	defer a.mu.RUnlock()
	created, err := a.state.ProductService.CreateProduct(context.Background(), producttypes.CreateProductInput{
		AgrovetID: pacttest.ExistingAgrovetID,
		Name:      example["name"].(string),
		Category:  example["category"].(string),
		Price:     uint64(example["price"].(int)),
		Stock:     uint64(example["stock"].(int)),
	})
	require.NoError(t, err)
	require.Equal(t, pacttest.ExistingProductID, created.ID)
}
