package status

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func handlerWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[status] ws upgrade error: %v", err)
		return
	}
	NewClient(conn)
}

func handlerLast(w http.ResponseWriter, r *http.Request) {
	globalLock.Lock()
	data := lastMessage
	globalLock.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if data == nil {
		data = []byte("{}")
	}
	if _, err := w.Write(data); err != nil {
		log.Printf("[status] error when writing response: %v", err)
	}
}

// StartServer serves the progress endpoints in the background; the
// decompile pipeline keeps running regardless of the server's fate.
func StartServer(addr string) {
	r := mux.NewRouter()
	r.HandleFunc("/ws", handlerWs)
	r.HandleFunc("/json/status", handlerLast)

	h := handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler()(r))

	log.Printf("[status] Starting status server %v", addr)
	go func() {
		if err := http.ListenAndServe(addr, h); err != nil {
			log.Printf("[status] server error: %v", err)
		}
	}()
}
