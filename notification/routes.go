package notification

import (
	"net/http"
	"strconv"

	"kitchen/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func CreateEndpoints(e *echo.Echo, repository Repository, notifier Notifier) {
	group := e.Group("/notifications")

	group.GET("", func(c echo.Context) error {
		notifications, err := repository.GetNotifications(c.Request().Context())
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, notifications)
	})

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	group.GET("/ws", func(c echo.Context) error {
		ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}

		var clientId int64
		client := &Client{Conn: ws}

		defer ws.Close()
		defer client.Close()

		// Clients identify themselves by sending their station id as
		// the first message.
		for {
			_, message, err := ws.ReadMessage()
			if err != nil {
				notifier.Disconnect(clientId)
				break
			}

			clientId, err = strconv.ParseInt(string(message), 10, 64)
			if err != nil {
				logger.Warn("invalid client identifier", zap.Error(err))
				continue
			}

			notifier.Connect(clientId, client)
		}

		return nil
	})
}
