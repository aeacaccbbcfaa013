package server

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gonewx/cryodefense/internal/logs"
	"github.com/gonewx/cryodefense/pkg/game"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const sendBuffer = 8

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub 观战连接集合，向所有连接广播快照 JSON
type Hub struct {
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	logger       *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub 创建广播中心；allowOrigins 为空时接受任意 Origin
func NewHub(allowOrigins []string, writeTimeout time.Duration) *Hub {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	h := &Hub{
		writeTimeout: writeTimeout,
		logger:       logs.Named("Hub"),
		clients:      make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowOrigins) == 0 {
				return true
			}
			return slices.Contains(allowOrigins, r.Header.Get("Origin"))
		},
	}
	return h
}

// ServeWS 升级连接并注册到广播列表
func (h *Hub) ServeWS(c *gin.Context, initial *game.Snapshot) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if initial != nil {
		if data, err := json.Marshal(initial); err == nil {
			cl.send <- data
		}
	}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("spectator connected", zap.String("addr", conn.RemoteAddr().String()), zap.Int("clients", n))

	go h.writeLoop(cl)
	go h.readLoop(cl)
}

// readLoop 只用于发现断开，观战端发来的消息全部丢弃
func (h *Hub) readLoop(cl *client) {
	defer h.remove(cl)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(cl *client) {
	defer cl.conn.Close()
	for data := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("websocket write failed", zap.Error(err))
			h.remove(cl)
			return
		}
	}
	_ = cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// remove 注销连接，关闭发送队列；重复调用无副作用
func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; !ok {
		return
	}
	delete(h.clients, cl)
	close(cl.send)
}

// Broadcast 序列化一次后发给所有连接，发送队列已满的慢连接被断开
func (h *Hub) Broadcast(snap *game.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("marshal snapshot failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			h.logger.Warn("dropping slow spectator", zap.String("addr", cl.conn.RemoteAddr().String()))
			delete(h.clients, cl)
			close(cl.send)
		}
	}
}

// Count 当前连接数
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close 断开所有连接
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
}
