package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// HeaderRequestID cabecera con el identificador de petición.
const HeaderRequestID = fiber.HeaderXRequestID

// RequestID asigna un UUID por petición (o respeta el recibido) y lo devuelve en la cabecera.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     HeaderRequestID,
		Generator:  uuid.NewString,
		ContextKey: "requestid",
	})
}

// RequestLogger registra método, ruta, estado, latencia e id de petición. Nunca registra cuerpos.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		rid, _ := c.Locals("requestid").(string)

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("rid", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("HTTP")
		return err
	}
}

// limiterIdleTTL tiempo sin peticiones tras el cual se olvida el bucket de una IP.
const limiterIdleTTL = 10 * time.Minute

type ipClient struct {
	lim  *rate.Limiter
	seen time.Time
}

// ipLimiter token bucket por IP. Los buckets inactivos se descartan en barridos periódicos;
// nunca antes de que el bucket se haya rellenado, así olvidar una IP no le da ráfaga extra.
type ipLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	idle      time.Duration
	clients   map[string]*ipClient
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiter(rps float64, burst int) *ipLimiter {
	if burst < 1 {
		burst = 1
	}
	idle := limiterIdleTTL
	if rps > 0 {
		if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return &ipLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		idle:    idle,
		clients: make(map[string]*ipClient),
		now:     time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		for key, c := range l.clients {
			if now.Sub(c.seen) >= l.idle {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}
	c, ok := l.clients[ip]
	if !ok {
		c = &ipClient{lim: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = c
	}
	c.seen = now
	return c.lim.AllowN(now, 1)
}

func (l *ipLimiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimitPerIP limita peticiones por IP con un token bucket por cliente.
func RateLimitPerIP(rps float64, burst int) fiber.Handler {
	lim := newIPLimiter(rps, burst)
	return func(c *fiber.Ctx) error {
		if lim.allow(c.IP()) {
			return c.Next()
		}
		return writeBridgeError(c, fiber.StatusTooManyRequests, CodeRateLimited, "demasiadas peticiones")
	}
}
