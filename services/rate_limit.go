package services

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/Starefossen/NisseKomm-sub003/dto"
	"github.com/Starefossen/NisseKomm-sub003/shared"
)

// RateLimitService throttles per-session and per-IP request rates using
// fixed windows stored in Redis. Counters expire with their window, so
// there is no cleanup job.
type RateLimitService struct {
	context.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex

	redisSvc *RedisService
}

// RateLimitConfig represents rate limiting configuration
type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	Description  string
	IsActive     bool
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.configs = make(map[string]*RateLimitConfig)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.initDefaultConfigs()
	return nil
}

// ==================== CONFIGURATION MANAGEMENT ====================

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*RateLimitConfig{
		"login": {
			EndpointType: "login",
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			Description:  "Login attempts rate limit",
			IsActive:     true,
		},
		"register": {
			EndpointType: "register",
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			Description:  "Registration rate limit",
			IsActive:     true,
		},
		"submit_code": {
			EndpointType: "submit_code",
			MaxRequests:  30,
			WindowSize:   10 * time.Minute,
			Description:  "Mission code submission rate limit",
			IsActive:     true,
		},
		"decrypt": {
			EndpointType: "decrypt",
			MaxRequests:  30,
			WindowSize:   10 * time.Minute,
			Description:  "Decryption attempt rate limit",
			IsActive:     true,
		},
		"crisis": {
			EndpointType: "crisis",
			MaxRequests:  20,
			WindowSize:   10 * time.Minute,
			Description:  "Crisis resolution rate limit",
			IsActive:     true,
		},
		"api_general": {
			EndpointType: "api_general",
			MaxRequests:  1000,
			WindowSize:   time.Hour,
			Description:  "General API rate limit per IP",
			IsActive:     true,
		},
	}
}

// ==================== CORE RATE LIMITING LOGIC ====================

func (svc *RateLimitService) IsAllowed(identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	svc.mutex.RLock()
	config, exists := svc.configs[endpointType]
	svc.mutex.RUnlock()

	if !exists || !config.IsActive {
		return true, &dto.RateLimitInfo{Allowed: true, Remaining: -1}, nil
	}

	now := time.Now()
	window := now.Unix() / int64(config.WindowSize.Seconds())
	key := fmt.Sprintf("nissekomm:ratelimit:%s:%s:%d", endpointType, identifier, window)

	count, err := svc.redisSvc.Increment(key, config.WindowSize)
	if err != nil {
		return false, nil, err
	}

	resetTime := time.Unix((window+1)*int64(config.WindowSize.Seconds()), 0)
	info := &dto.RateLimitInfo{
		Allowed:   count <= int64(config.MaxRequests),
		Remaining: config.MaxRequests - int(count),
		ResetTime: &resetTime,
	}
	if info.Remaining < 0 {
		info.Remaining = 0
	}

	return info.Allowed, info, nil
}

// ==================== MIDDLEWARE FUNCTIONS ====================

// RateLimit limits requests per authenticated session, falling back to the
// client IP when no session is on the request.
func (svc *RateLimitService) RateLimit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := ""
		if sessionID := c.Locals(shared.SessionID); sessionID != nil {
			identifier, _ = sessionID.(string)
		}
		if identifier == "" {
			identifier = getClientIP(c)
		}

		allowed, info, err := svc.IsAllowed(identifier, endpointType)
		if err != nil {
			log.WithError(err).WithField("endpoint", endpointType).Warn("Rate limit check failed")
			// Continue with request on error to avoid blocking users due to backend issues
			return c.Next()
		}

		svc.addRateLimitHeaders(c, info)

		if !allowed {
			return svc.handleRateLimitExceeded(c, endpointType, info)
		}

		return c.Next()
	}
}

// IPRateLimit applies general rate limiting by IP address
func (svc *RateLimitService) IPRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := getClientIP(c)

		allowed, info, err := svc.IsAllowed(ip, "api_general")
		if err != nil {
			log.WithError(err).WithField("ip", ip).Warn("IP rate limit check failed")
			return c.Next()
		}

		svc.addRateLimitHeaders(c, info)

		if !allowed {
			return svc.handleRateLimitExceeded(c, "api_general", info)
		}

		return c.Next()
	}
}

// ==================== HELPER FUNCTIONS ====================

func (svc *RateLimitService) addRateLimitHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	if info == nil {
		return
	}
	if info.Remaining >= 0 {
		c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}
	if info.ResetTime != nil {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (svc *RateLimitService) handleRateLimitExceeded(c *fiber.Ctx, endpointType string, info *dto.RateLimitInfo) error {
	if info != nil && info.ResetTime != nil {
		c.Set("Retry-After", strconv.FormatInt(info.ResetTime.Unix()-time.Now().Unix(), 10))
	}

	log.WithFields(log.Fields{
		"endpoint": endpointType,
		"ip":       getClientIP(c),
	}).Warn("Rate limit exceeded")

	return shared.ResponseJSON(c, http.StatusTooManyRequests, "Too many requests, please slow down", nil)
}

func getClientIP(c *fiber.Ctx) string {
	forwarded := c.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	realIP := c.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(c.Context().RemoteAddr().String())
	if err != nil {
		return c.IP()
	}

	return ip
}
