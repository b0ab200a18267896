package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/filemart/filemart-backend/internal/app/service"
	apperrors "github.com/filemart/filemart-backend/internal/errors"
	"github.com/filemart/filemart-backend/internal/middleware"
	ws "github.com/filemart/filemart-backend/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"https://filemart.io":    true,
			"http://localhost:5173":  true, // local dashboard
			"http://localhost:3000":  true, // local dashboard
		}
		return allowedOrigins[origin]
	},
}

type WSController struct {
	storeService service.StoreService
	hub          *ws.Hub
}

func NewWSController(storeService service.StoreService, hub *ws.Hub) *WSController {
	return &WSController{
		storeService: storeService,
		hub:          hub,
	}
}

// Connect upgrades the request to a WebSocket session subscribed to
// the merchant's store events
// GET /api/v1/merchant/events/ws
func (ctrl *WSController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	store, err := ctrl.storeService.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.RespondWithError(c, http.StatusConflict, apperrors.StoreProfileMissing, "Set up your store profile first")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get store")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err, nil)
		return
	}

	client := &ws.Client{
		Hub:           ctrl.hub,
		Conn:          &ws.Conn{Conn: conn},
		UserID:        userID,
		StoreID:       store.ID,
		Send:          make(chan []byte, 2048),
		LastResetTime: time.Now(),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id":  userID,
		"store_id": store.ID,
	})
}
