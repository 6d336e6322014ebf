package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kestrelsec/warden/internal/gate"
	"github.com/kestrelsec/warden/internal/metrics"
	"github.com/kestrelsec/warden/internal/models"
	"github.com/kestrelsec/warden/internal/services"
)

// blockAfterStrikes is how many consecutive rate-limit rejections an
// identifier accumulates before the middleware blocks it.
const blockAfterStrikes = 5

// Admission gates every request through the block list and the rate
// limiter. The block list wins: a blocked identifier is rejected regardless
// of its window state. Repeated rate-limit rejections escalate into a
// temporary block, which is the caller-side blocking behavior the gate's
// rate limiter deliberately does not do itself.
func Admission(g *gate.Gate, audit *services.AuditService) gin.HandlerFunc {
	var mu sync.Mutex
	strikes := make(map[string]int)

	return func(c *gin.Context) {
		id := c.ClientIP()

		if g.IsBlocked(id) {
			metrics.IncAdmissionRejected()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "identifier temporarily blocked"})
			return
		}

		dec := g.CheckRateLimit(id)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(dec.ResetTime.Unix(), 10))

		if !dec.Allowed {
			metrics.IncAdmissionRejected()

			mu.Lock()
			strikes[id]++
			escalate := strikes[id] >= blockAfterStrikes
			if escalate {
				delete(strikes, id)
			}
			mu.Unlock()

			if escalate {
				g.BlockIdentifier(id, gate.DefaultBlockReason)
			}
			if audit != nil {
				_ = audit.LogDecision(&models.GateDecision{
					Source:     "ratelimit",
					Action:     "reject",
					Identifier: id,
					Details:    "rate limit exceeded",
				})
			}

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		mu.Lock()
		delete(strikes, id)
		mu.Unlock()

		metrics.IncAdmissionAllowed()
		c.Next()
	}
}
