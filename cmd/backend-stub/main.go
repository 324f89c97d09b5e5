// Command backend-stub stands in for the bundled backend binary during
// development. It honors the sidecar invocation contract: --host/--port
// arguments, APP_VERSION and UPDATE_FEED_URL from the environment, and a
// TCP listener that opens once the process is healthy. The optional
// --startup-delay flag exercises the shell's readiness poll.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"time"
)

func main() {
	host := flag.String("host", "127.0.0.1", "address to listen on")
	port := flag.String("port", "", "TCP port to listen on")
	delay := flag.Duration("startup-delay", 0, "wait this long before opening the listen port")
	flag.Parse()

	if *port == "" {
		*port = os.Getenv("APP_PORT")
	}
	if *port == "" {
		*port = "8000"
	}

	version := os.Getenv("APP_VERSION")
	feedURL := os.Getenv("UPDATE_FEED_URL")
	log.Printf("backend stub starting (version %q, feed %q)", version, feedURL)

	if *delay > 0 {
		log.Printf("delaying listen by %s", *delay)
		time.Sleep(*delay)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	addr := net.JoinHostPort(*host, *port)
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("listen failed: %v", err)
	}
}
