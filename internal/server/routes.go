package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/hitgub616/txt-mafia-v0/internal/config"
	"github.com/hitgub616/txt-mafia-v0/internal/game"
	"github.com/hitgub616/txt-mafia-v0/internal/logger"
)

// NewRouter wires the HTTP surface: liveness, status, room stats and
// the websocket upgrade.
func NewRouter(cfg config.Config, registry *game.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Origin",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	r.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "Mafia game server is running")
	})

	r.GET("/status", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":    "online",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"rooms":     registry.RoomIDs(),
			"env": gin.H{
				"port":    cfg.Port,
				"ginMode": cfg.GinMode,
			},
		})
	})

	r.GET("/api/room-stats", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, registry.Stats())
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(req *http.Request) bool {
			origin := req.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range cfg.AllowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}

	r.GET("/ws", func(ctx *gin.Context) {
		conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			logger.Warningf("websocket upgrade failed: %v", err)
			return
		}
		client := NewClient(newWSConn(conn), registry)
		go client.WritePump()
		go client.ReadPump()
	})

	return r
}
