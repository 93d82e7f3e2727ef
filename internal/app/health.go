package app

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/oauth-broker/internal/oauth"
)

const healthCheckTimeout = 2 * time.Second

type HealthChecker struct {
	infra    Infrastructure
	registry *oauth.Registry
}

func NewHealthChecker(infra Infrastructure, registry *oauth.Registry) *HealthChecker {
	return &HealthChecker{
		infra:    infra,
		registry: registry,
	}
}

// check pings every backing store concurrently and reports failures by name
func (h *HealthChecker) check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	pings := map[string]func(context.Context) error{
		"postgres": h.infra.Postgres().Ping,
		"redis":    h.infra.Redis().Ping,
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]string, len(pings))
	)

	for name, ping := range pings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status := "pass"
			if err := ping(ctx); err != nil {
				status = err.Error()
			}
			mu.Lock()
			results[name] = status
			mu.Unlock()
		}()
	}
	wg.Wait()

	return results
}

func (h *HealthChecker) Handler(c *gin.Context) {
	checks := h.check(c.Request.Context())

	for _, status := range checks {
		if status != "pass" {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "fail",
				"checks": checks,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "pass",
		"checks":    checks,
		"providers": h.registry.Enabled(),
	})
}
