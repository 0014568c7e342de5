package server

import (
	"testing"
	"time"

	"snakearena/game"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	for want := 0; want < 3; want++ {
		if got := r.NextID(); got != want {
			t.Fatalf("NextID = %d, want %d", got, want)
		}
	}

	opts := DefaultConnOptions()
	c2 := newClientConn(2, newFakeWire(), opts)
	c0 := newClientConn(0, newFakeWire(), opts)
	r.Add(c2)
	r.Add(c0)
	if r.Count() != 2 || !r.Has(0) || !r.Has(2) || r.Has(1) {
		t.Fatalf("unexpected registry contents, count=%d", r.Count())
	}
	if got, ok := r.Get(2); !ok || got != c2 {
		t.Fatal("Get(2) returned wrong conn")
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].ID != 0 || snap[1].ID != 2 {
		t.Fatalf("snapshot not sorted by id")
	}

	if _, ok := r.Remove(0); !ok {
		t.Fatal("Remove(0) missed")
	}
	if _, ok := r.Remove(0); ok {
		t.Fatal("second Remove(0) succeeded")
	}
	if c0.Closed() {
		t.Fatal("Remove must not close the conn")
	}

	r.CloseAll()
	if r.Count() != 0 || !c2.Closed() {
		t.Fatal("CloseAll left conns open")
	}
}

func TestEnqueueFailsWhenFullOrClosed(t *testing.T) {
	c := newClientConn(1, newFakeWire(), ConnOptions{SendQueue: 1})
	if !c.Enqueue([]byte("a\n")) {
		t.Fatal("first enqueue failed")
	}
	if c.Enqueue([]byte("b\n")) {
		t.Fatal("enqueue on full queue succeeded")
	}
	<-c.send
	c.Close()
	c.Close()
	if c.Enqueue([]byte("c\n")) {
		t.Fatal("enqueue on closed conn succeeded")
	}
}

func TestWritePumpWritesQueuedFrames(t *testing.T) {
	w := newFakeWire()
	c := newClientConn(1, w, DefaultConnOptions())
	go c.writePump()
	defer c.Close()

	c.Enqueue([]byte("one\n"))
	c.Enqueue([]byte("two\n"))
	for _, want := range []string{"one\n", "two\n"} {
		select {
		case got := <-w.writes:
			if string(got) != want {
				t.Fatalf("wrote %q, want %q", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("frame %q never written", want)
		}
	}
}

func TestReadPumpRoutesNameAndCommands(t *testing.T) {
	a := newTestArena(testSettings(nil), 8)
	w := newFakeWire()
	c := newClientConn(9, w, DefaultConnOptions())
	a.registry.Add(c)

	done := make(chan struct{})
	go func() {
		c.readPump(a)
		close(done)
	}()

	// 名字与指令可能被拆在任意位置
	w.reads <- []byte("  zed  \n{\"mov")
	w.reads <- []byte("ing\":\"up\"}\nnot json\n{\"moving\":\"left\"}\n")

	select {
	case req := <-a.joinChan:
		if req.Conn != c || req.Name != "zed" {
			t.Fatalf("join request = %+v", req)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no join request")
	}
	for _, want := range []game.Direction{game.DirUp, game.DirLeft} {
		select {
		case in := <-a.inputChan:
			if in.PlayerID != 9 || in.Command != want {
				t.Fatalf("input = %+v, want %v", in, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("missing input %v", want)
		}
	}

	w.Close()
	select {
	case id := <-a.leaveChan:
		if id != 9 {
			t.Fatalf("leave id = %d", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no leave request")
	}
	<-done
	if !c.Closed() {
		t.Fatal("conn not closed after read pump exit")
	}
}

func TestReadPumpDropsOversizedLine(t *testing.T) {
	a := newTestArena(testSettings(nil), 8)
	w := newFakeWire()
	c := newClientConn(4, w, DefaultConnOptions())

	done := make(chan struct{})
	go func() {
		c.readPump(a)
		close(done)
	}()
	big := make([]byte, 70<<10)
	for i := range big {
		big[i] = 'x'
	}
	w.reads <- big
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("read pump kept an unterminated oversized line")
	}
	if id := <-a.leaveChan; id != 4 {
		t.Fatalf("leave id = %d", id)
	}
}
