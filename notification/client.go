package notification

import "github.com/gorilla/websocket"

type Client struct {
	Conn *websocket.Conn
}

func (c *Client) Write(p []byte) (int, error) {
	if err := c.Conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *Client) Close() error {
	return c.Conn.Close()
}
