package client

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/protocol"
)

// Client is one websocket connection to the server, speaking the message
// envelope protocol. Send and Recv are not goroutine safe against
// themselves; use one reader and one writer.
type Client struct {
	conn *websocket.Conn
	log  *zap.Logger
}

// Dial connects to a server's /ws endpoint.
func Dial(ctx context.Context, url string, log *zap.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{conn: conn, log: log}, nil
}

// Send encodes and writes one message.
func (c *Client) Send(msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Recv blocks for the next server message.
func (c *Client) Recv() (protocol.Message, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return protocol.DecodeServer(data)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// LocalCommand handles chat commands that never leave the client. Returns
// the echo line to show and whether the text was consumed.
func LocalCommand(text string, self game.State) (protocol.ChatLog, bool) {
	if text == "/pos" {
		return protocol.ChatLog{
			Channel: protocol.ChannelEcho,
			Text:    fmt.Sprintf("x: %.1f, y: %.1f, map: %v", self.Position.X, self.Position.Y, self.Map),
		}, true
	}
	return protocol.ChatLog{}, false
}
