// Package devserver serves GET /api/hot-news from a static catalog so the
// panel can be run without the dashboard backend.
package devserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/abelbrown/hotnews/internal/hotnews"
	"github.com/abelbrown/hotnews/internal/logging"
)

type Server struct {
	catalog *Catalog
	limiter *rate.Limiter
	now     func() time.Time
}

// NewServer serves catalog. A nil limiter disables rate limiting.
func NewServer(catalog *Catalog, limiter *rate.Limiter) *Server {
	if catalog == nil {
		catalog = &Catalog{}
	}
	return &Server{catalog: catalog, limiter: limiter, now: time.Now}
}

// NewLimiter allows perSecond requests with the given burst. perSecond <= 0
// means no limit.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.Use(cors())
	r.GET("/health", s.health)

	api := r.Group("/api")
	api.Use(s.rateLimit())
	{
		api.GET("/hot-news", s.hotNews)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) hotNews(c *gin.Context) {
	ids := splitSources(c.Query("sources"))
	if len(ids) == 0 {
		for _, g := range s.catalog.Sources {
			ids = append(ids, g.Source)
		}
	}

	count, err := strconv.Atoi(c.DefaultQuery("count", strconv.Itoa(hotnews.DefaultItemCount)))
	if err != nil || count <= 0 {
		count = hotnews.DefaultItemCount
	}

	updated := s.catalog.UpdatedAt
	if updated == "" {
		updated = s.now().Format("2006-01-02 15:04:05")
	}

	resp := hotnews.Response{
		UpdatedAt: updated,
		Sources:   s.catalog.Select(ids, count),
	}
	logging.Debug("hot-news served", "sources", strings.Join(ids, ","), "count", count, "groups", len(resp.Sources))
	c.JSON(http.StatusOK, resp)
}

func splitSources(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter != nil && !s.limiter.Allow() {
			logging.Warn("rate limited", "path", c.Request.URL.Path, "remote", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    "rate_limited",
				"message": "too many requests",
			})
			return
		}
		c.Next()
	}
}

// cors lets a browser dashboard on another origin call the dev server.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
