package live_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/netwatch/netwatch/internal/live"
	"github.com/netwatch/netwatch/pkg/ping/model"
)

func TestBroadcaster(t *testing.T) {
	b := live.NewBroadcaster()
	defer b.Close()

	server := httptest.NewServer(b)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	sample := model.Sample{Timestamp: "2024-01-01T00:00:00Z", RTTMs: 23}

	// Registration happens in the server's handler goroutine, so keep
	// broadcasting until the client sees a message.
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				b.ObserveSample(sample)
				time.Sleep(10 * time.Millisecond)
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got model.Sample
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("cannot read sample: %v", err)
	}
	if got != sample {
		t.Errorf("received %+v, want %+v", got, sample)
	}
}

func TestBroadcaster_NoClients(t *testing.T) {
	b := live.NewBroadcaster()
	// Broadcasting without clients must be a no-op.
	b.ObserveSample(model.Sample{Timestamp: "ts", RTTMs: 1})
	b.ObserveSession("mid")
	b.Close()
}
