package discovery

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestAnnouncementRoundTrip(t *testing.T) {
	msg := Announcement("10.0.0.5:11000", 2000)
	if string(msg) != "SNAKEARENA 10.0.0.5:11000 2000\n" {
		t.Fatalf("announcement = %q", msg)
	}
	addr, size, ok := ParseAnnouncement(msg)
	if !ok || addr != "10.0.0.5:11000" || size != 2000 {
		t.Fatalf("parsed %q %d %v", addr, size, ok)
	}
	for _, bad := range []string{"", "HELLO 1.2.3.4:1 10", "SNAKEARENA 1.2.3.4:1", "SNAKEARENA 1.2.3.4:1 big"} {
		if _, _, ok := ParseAnnouncement([]byte(bad)); ok {
			t.Errorf("accepted %q", bad)
		}
	}
}

func TestBeaconSendsToUnicastTarget(t *testing.T) {
	rx, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer rx.Close()

	b, err := NewBeacon(rx.LocalAddr().String(), 10*time.Millisecond, Announcement("127.0.0.1:11000", 1200))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	_ = rx.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 128)
	n, _, err := rx.ReadFrom(buf)
	if err != nil {
		t.Fatal(err)
	}
	addr, size, ok := ParseAnnouncement(buf[:n])
	if !ok || addr != "127.0.0.1:11000" || size != 1200 {
		t.Fatalf("received %q", buf[:n])
	}
}

func TestNewBeaconValidates(t *testing.T) {
	if _, err := NewBeacon("not an address", time.Second, nil); err == nil {
		t.Fatal("bad address accepted")
	}
	if _, err := NewBeacon("127.0.0.1:9", 0, nil); err == nil {
		t.Fatal("zero interval accepted")
	}
}
