package kiss

import (
	"bytes"
	"io"
	"testing"

	"gridmark/aprs"
	"gridmark/packet"
)

func TestDecoderReadFrame(t *testing.T) {
	stream := []byte{
		'j', 'u', 'n', 'k', // before the first FEND
		FEND, FEND, // empty frame
		FEND, 0x00, 'a', FESC, TFEND, 'b', FESC, TFESC, 'c', FEND,
		0x10, 'x', FEND,
	}
	d := NewDecoder(bytes.NewReader(stream))

	got, err := d.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x00, 'a', FEND, 'b', FESC, 'c'}
	if !bytes.Equal(got, want) {
		t.Errorf("frame = % x, want % x", got, want)
	}

	got, err = d.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x10, 'x'}) {
		t.Errorf("second frame = % x", got)
	}

	if _, err := d.ReadFrame(); err != io.EOF {
		t.Errorf("error at end = %v, want io.EOF", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	payload := []byte{0x01, FEND, 0x02, FESC, 0x03}
	d := NewDecoder(bytes.NewReader(Encode(0, payload)))
	got, err := d.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got[1:], payload) || got[0] != 0x00 {
		t.Errorf("decoded % x, want 00 % x", got, payload)
	}
}

type nopConn struct{ io.Reader }

func (nopConn) Write(p []byte) (int, error) { return len(p), nil }
func (nopConn) Close() error                { return nil }

func TestClientStart(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(Encode(0, aprs.EncodeUI("UR5ABC", "APRS", []string{"WIDE1-1"},
		[]byte(":UT1XYZ   :meet at 36U YA 23408 06785{7"))))
	// TX delay command, not data
	stream.Write([]byte{FEND, 0x01, 0x20, FEND})
	// telemetry is dropped
	stream.Write(Encode(0, aprs.EncodeUI("UR5ABC", "APRS", nil, []byte(":UT1XYZ   :PARM.Volts"))))
	stream.Write(Encode(1, aprs.EncodeUI("UR5ABC-9", "APRS", nil, []byte("!5026.83N/03031.40E>mobile"))))

	c := NewClient(nopConn{&stream})
	ch := make(chan *packet.Packet, 10)
	c.Start(ch)

	var got []*packet.Packet
	for pkt := range ch {
		got = append(got, pkt)
	}
	if len(got) != 2 {
		t.Fatalf("got %d packets, want 2", len(got))
	}
	if got[0].Type != packet.TypeMessage || got[0].Text != "meet at 36U YA 23408 06785" {
		t.Errorf("first packet = %+v", got[0])
	}
	if got[1].Type != packet.TypePosition || got[1].Callsign != "UR5ABC-9" {
		t.Errorf("second packet = %+v", got[1])
	}
	if got[0].Received.IsZero() {
		t.Error("Received not set")
	}
}
