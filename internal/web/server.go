package web

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/peterkuimelis/accessbattle/internal/game"
	abnet "github.com/peterkuimelis/accessbattle/internal/net"
)

// LayoutInfo is the JSON representation of a preset for /api/layouts.
type LayoutInfo struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Layout string `json:"layout"`
}

// connectMessage is the first frame a browser sends on /ws.
type connectMessage struct {
	Type string `json:"type"`
	Addr string `json:"addr"`
	Name string `json:"name"`
}

// Server is the Access Battle web bridge. The websocket endpoint sits on a
// plain mux because gin's writer refuses to hijack a connection once the
// upgrade response has been written; everything else goes to gin.
type Server struct {
	layoutsFile string
	router      *gin.Engine
	mux         *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(layoutsFile string) *Server {
	s := &Server{
		layoutsFile: layoutsFile,
		router:      gin.Default(),
		mux:         http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/api/layouts", s.handleLayouts)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	s.mux.Handle("/", s.router)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleLayouts(c *gin.Context) {
	lf, err := game.ParseLayoutFile(s.layoutsFile)
	if err != nil {
		log.Printf("Layouts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read layouts file"})
		return
	}

	layouts := []LayoutInfo{}
	for i, l := range lf.Layouts {
		layouts = append(layouts, LayoutInfo{Number: i + 1, Name: l.Name, Layout: l.Layout})
	}
	c.JSON(http.StatusOK, layouts)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	// Read initial connect message from browser
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		log.Printf("WebSocket read connect: %v", err)
		return
	}

	var connectMsg connectMessage
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	// Open TCP connection to game server
	tcpConn, err := net.Dial("tcp", connectMsg.Addr)
	if err != nil {
		errMsg, _ := json.Marshal(abnet.ServerMessage{
			Type:  abnet.MsgError,
			Error: fmt.Sprintf("Could not connect to game server at %s: %v", connectMsg.Addr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	// Send join message over TCP
	if err := json.NewEncoder(tcpConn).Encode(abnet.ClientMessage{Type: abnet.MsgJoin, Name: connectMsg.Name}); err != nil {
		log.Printf("TCP write join: %v", err)
		return
	}

	done := make(chan struct{})

	// TCP → WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if err != io.EOF {
					log.Printf("TCP read error: %v", err)
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}
		}
	}()

	// WebSocket → TCP (browser commands to server)
	go func() {
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				tcpConn.Close()
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				log.Printf("TCP write error: %v", err)
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
