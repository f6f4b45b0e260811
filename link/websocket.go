package link

import (
	"io"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// WebsocketConn carries the serial byte stream over a websocket, one
// binary message per write. Message boundaries are not significant.
type WebsocketConn struct {
	ws *websocket.Conn

	r io.Reader

	wMx sync.Mutex
}

var _ io.ReadWriteCloser = &WebsocketConn{}

// DialWebsocket connects to a serial bridge at url.
func DialWebsocket(url string) (*WebsocketConn, error) {
	log.Println("Connecting to", url)
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	log.Println("Connected.")
	return &WebsocketConn{ws: ws}, nil
}

func (c *WebsocketConn) Read(p []byte) (int, error) {
	for {
		if c.r == nil {
			_, r, err := c.ws.NextReader()
			if err != nil {
				return 0, err
			}
			c.r = r
		}

		n, err := c.r.Read(p)
		if err == io.EOF {
			c.r = nil
			if n == 0 {
				continue
			}
			err = nil
		}
		return n, err
	}
}

func (c *WebsocketConn) Write(p []byte) (int, error) {
	c.wMx.Lock()
	defer c.wMx.Unlock()

	err := c.ws.WriteMessage(websocket.BinaryMessage, p)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *WebsocketConn) Close() error {
	c.wMx.Lock()
	err := c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.wMx.Unlock()
	if err != nil {
		log.Println("ERROR: send close:", err)
	}
	return c.ws.Close()
}
