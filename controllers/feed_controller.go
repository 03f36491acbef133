package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/MaximeWq/challenge-mobilite-app/services"
)

// FeedController upgrades authenticated clients onto the live activity feed.
type FeedController struct {
	Hub *services.FeedHub
}

func NewFeedController(hub *services.FeedHub) *FeedController {
	return &FeedController{Hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (fc *FeedController) FeedWS(c *gin.Context) {
	uid := c.GetUint("userID")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.FeedClient{UserID: uid, Conn: conn}
	fc.Hub.Register(cl)
	defer fc.Hub.Unregister(cl)

	stop := make(chan struct{})
	defer close(stop)
	go pingLoop(cl, stop)

	// the feed is one-way; reading only surfaces the client closing
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// pingLoop keeps idle connections from being reaped by intermediaries.
func pingLoop(cl *services.FeedClient, stop <-chan struct{}) {
	t := time.NewTicker(25 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if err := cl.Write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
