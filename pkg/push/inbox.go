package push

import (
	"net/http"
	"time"

	"github.com/example/quickbite/pkg/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Message is an inbound push payload: title, body and a data map that
// may carry the order the message is about.
type Message struct {
	Title string            `json:"title" binding:"required"`
	Body  string            `json:"body" binding:"required"`
	Data  map[string]string `json:"data"`
}

// Inbox is the local HTTP endpoint inbound push messages are delivered
// to. Each accepted message is surfaced through the Notifier.
type Inbox struct {
	config   *config.PushConfig
	notifier Notifier
	logger   *zap.Logger
	router   *gin.Engine
}

func NewInbox(cfg *config.PushConfig, notifier Notifier, logger *zap.Logger) *Inbox {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	inbox := &Inbox{
		config:   cfg,
		notifier: notifier,
		logger:   logger,
		router:   router,
	}
	inbox.setupRoutes()
	return inbox
}

func (i *Inbox) setupRoutes() {
	// Health check
	i.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	i.router.POST("/push", i.receive)
}

func (i *Inbox) Start() error {
	addr := i.config.Addr()
	i.logger.Info("Push inbox starting", zap.String("address", addr))
	return i.router.Run(addr)
}

// Handler exposes the router for tests and embedding.
func (i *Inbox) Handler() http.Handler {
	return i.router
}

func (i *Inbox) receive(c *gin.Context) {
	var msg Message
	if err := c.BindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderID := msg.Data["order_id"]
	i.notifier.Notify(msg.Title, msg.Body, orderID)

	c.JSON(http.StatusOK, gin.H{
		"delivered": true,
	})
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
