package aprs

import (
	"math"
	"testing"

	"gridmark/packet"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		frame    []byte
		callsign string
		typ      packet.Type
		text     string
		to, id   string
		lat, lon float64
	}{
		{
			name:     "position",
			frame:    []byte("UR5ABC>APRS,WIDE1-1:!5026.83N/03031.40E>mobile"),
			callsign: "UR5ABC",
			typ:      packet.TypePosition,
			text:     "mobile",
			lat:      50.447167,
			lon:      30.523333,
		},
		{
			name:     "timestamped position with PHG",
			frame:    []byte("UR5ABC>APRS:@092345z5026.83S/03031.40W>PHG2360 hi"),
			callsign: "UR5ABC",
			typ:      packet.TypePosition,
			text:     "hi",
			lat:      -50.447167,
			lon:      -30.523333,
		},
		{
			name:     "object",
			frame:    []byte("UR5ABC>APRS:;CHECKPNT *092345z4800.42N/03748.35E/rally point"),
			callsign: "UR5ABC",
			typ:      packet.TypePosition,
			text:     "CHECKPNT rally point",
			lat:      48.007,
			lon:      37.805833,
		},
		{
			name:     "message",
			frame:    []byte("UR5ABC>APRS::UT1XYZ   :meet at 36U YA 23408 06785{12"),
			callsign: "UR5ABC",
			typ:      packet.TypeMessage,
			text:     "meet at 36U YA 23408 06785",
			to:       "UT1XYZ",
			id:       "12",
		},
		{
			name:     "message with reply-ack id",
			frame:    []byte("UR5ABC>APRS::UT1XYZ   :x5320000 y7411000{MM}AA"),
			callsign: "UR5ABC",
			typ:      packet.TypeMessage,
			text:     "x5320000 y7411000",
			to:       "UT1XYZ",
			id:       "MM",
		},
		{
			name:     "status",
			frame:    []byte("UR5ABC>APRS:>QRV 145.500"),
			callsign: "UR5ABC",
			typ:      packet.TypeStatus,
			text:     "QRV 145.500",
		},
		{
			name:     "third party",
			frame:    []byte("UR5GW>APRS:}UR5ABC>APRS,TCPIP,UR5GW*:>hello"),
			callsign: "UR5ABC",
			typ:      packet.TypeStatus,
			text:     "hello",
		},
		{
			name:     "ax25 position",
			frame:    EncodeUI("UR5ABC-9", "APRS", []string{"WIDE1-1"}, []byte("!5026.83N/03031.40E>mobile")),
			callsign: "UR5ABC-9",
			typ:      packet.TypePosition,
			text:     "mobile",
			lat:      50.447167,
			lon:      30.523333,
		},
		{
			name:     "ax25 message without path",
			frame:    EncodeUI("UR5ABC", "APRS", nil, []byte(":UT1XYZ   :50.4472, 30.5233")),
			callsign: "UR5ABC",
			typ:      packet.TypeMessage,
			text:     "50.4472, 30.5233",
			to:       "UT1XYZ",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pkt, err := Parse(tc.frame)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if pkt.Callsign != tc.callsign {
				t.Errorf("callsign = %q, want %q", pkt.Callsign, tc.callsign)
			}
			if pkt.Type != tc.typ {
				t.Errorf("type = %v, want %v", pkt.Type, tc.typ)
			}
			if pkt.Text != tc.text {
				t.Errorf("text = %q, want %q", pkt.Text, tc.text)
			}
			if pkt.MsgTo != tc.to || pkt.MsgID != tc.id {
				t.Errorf("to/id = %q/%q, want %q/%q", pkt.MsgTo, pkt.MsgID, tc.to, tc.id)
			}
			if math.Abs(pkt.Lat-tc.lat) > 1e-5 || math.Abs(pkt.Lon-tc.lon) > 1e-5 {
				t.Errorf("position = (%f, %f), want (%f, %f)", pkt.Lat, pkt.Lon, tc.lat, tc.lon)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
	}{
		{"telemetry keyword", []byte("UR5ABC>APRS::UT1XYZ   :PARM.Volts,Temp")},
		{"self addressed", []byte("UR5ABC>APRS::UR5ABC   :hello me")},
		{"weather service", []byte("NWSOAX>APRS::UT1XYZ   :warning")},
		{"ack", []byte("UR5ABC>APRS::UT1XYZ   :ack12")},
		{"blank message", []byte("UR5ABC>APRS::UT1XYZ   :   ")},
		{"blank status", []byte("UR5ABC>APRS:>")},
		{"unsupported type", []byte("UR5ABC>APRS:T#005,199,000,255,073,123,01101001")},
		{"bad position", []byte("UR5ABC>APRS:!9926.83N/03031.40E>")},
		{"short frame", []byte{0x82, 0xa0}},
		{"empty payload", []byte("UR5ABC>APRS:")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if pkt, err := Parse(tc.frame); err == nil {
				t.Errorf("Parse(%q) = %+v, want error", tc.frame, pkt)
			}
		})
	}
}

func TestPasscode(t *testing.T) {
	tests := []struct {
		call string
		want int
	}{
		{"N0CALL", 13023},
		{"n0call-7", 13023},
		{"UR5ABC-9", 20914},
		{"UT1XYZ", 20148},
	}
	for _, tc := range tests {
		got, err := Passcode(tc.call)
		if err != nil {
			t.Fatalf("Passcode(%q) error: %v", tc.call, err)
		}
		if got != tc.want {
			t.Errorf("Passcode(%q) = %d, want %d", tc.call, got, tc.want)
		}
	}
	if _, err := Passcode("TOOLONGCALL"); err == nil {
		t.Error("Passcode accepted a 11 character callsign")
	}
}

func TestLocatorCenter(t *testing.T) {
	tests := []struct {
		loc      string
		lat, lon float64
	}{
		{"KN29", 49.5, 25},
		{"JN58td", 48.145833, 11.625},
		{"jn58TD", 48.145833, 11.625},
	}
	for _, tc := range tests {
		lat, lon, err := LocatorCenter(tc.loc)
		if err != nil {
			t.Fatalf("LocatorCenter(%q) error: %v", tc.loc, err)
		}
		if math.Abs(lat-tc.lat) > 1e-5 || math.Abs(lon-tc.lon) > 1e-5 {
			t.Errorf("LocatorCenter(%q) = (%f, %f), want (%f, %f)", tc.loc, lat, lon, tc.lat, tc.lon)
		}
	}
	for _, bad := range []string{"", "KN2", "ZZ29", "KN29zz", "KN29b"} {
		if _, _, err := LocatorCenter(bad); err == nil {
			t.Errorf("LocatorCenter(%q) succeeded", bad)
		}
	}
}
