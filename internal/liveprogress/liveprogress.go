// Package liveprogress serves a single page showing render progress over
// a websocket, a browser-facing companion to the console progress bar.
package liveprogress

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 1 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	closeGracePeriod = 10 * time.Second
)

var upgrader = websocket.Upgrader{}

// Update is one progress snapshot broadcast to connected clients.
type Update struct {
	RunID        string  `json:"runId"`
	SamplesDone  int     `json:"samplesDone"`
	TotalSamples int     `json:"totalSamples"`
	Throughput   float64 `json:"throughput"`
	Elapsed      string  `json:"elapsed"`
}

// Server serves the progress page and forwards Updates pushed onto its
// channel to connected websocket clients. Every client's handler receives
// from the same channel, so each Update reaches exactly one client; with
// several clients connected the updates are split among them. There is no
// client bookkeeping: this exists to watch one render from one page, not
// to be a general dashboard.
type Server struct {
	addr    string
	updates <-chan Update
	start   time.Time
}

// NewServer returns a Server that forwards whatever is sent on updates.
func NewServer(addr string, updates <-chan Update) *Server {
	return &Server{addr: addr, updates: updates, start: time.Now()}
}

// Router builds the page + websocket route table. Exposed so tests can
// drive it through httptest without binding a real listener.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.serveWebsocket)
	return r
}

// Serve blocks, running the HTTP server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Router()}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		return err
	}
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if err := indexTemplate.Execute(w, nil); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("liveprogress: upgrade:", err)
		return
	}
	defer closeWebsocket(ws)
	s.publish(r.Context(), ws)
}

func (s *Server) publish(ctx context.Context, ws *websocket.Conn) {
	pubCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	pinger := channerics.NewTicker(pubCtx.Done(), pingPeriod)

	for {
		select {
		case <-pubCtx.Done():
			return
		case <-pinger:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case update, ok := <-s.updates:
			if !ok {
				return
			}
			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := ws.WriteJSON(update); err != nil {
				return
			}
		}
	}
}

func closeWebsocket(ws *websocket.Conn) {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(closeGracePeriod)
	ws.Close()
}

var indexTemplate = template.Must(template.New("index.html").Parse(`<!doctype html>
<html>
<head><title>pwos render progress</title></head>
<body>
<h1>Render progress</h1>
<pre id="status">connecting...</pre>
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (ev) => {
  const u = JSON.parse(ev.data);
  document.getElementById("status").textContent =
    u.samplesDone + " / " + u.totalSamples + " samples, " +
    u.throughput.toFixed(1) + "/s, elapsed " + u.elapsed;
};
</script>
</body>
</html>
`))
