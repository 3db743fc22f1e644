package packet

import (
	"testing"

	"gridmark/coords"
)

func TestPacketString(t *testing.T) {
	tests := []struct {
		name string
		pkt  Packet
		want string
	}{
		{
			name: "position with comment",
			pkt:  Packet{Callsign: "UR5ABC-9", Type: TypePosition, Lat: 50.4472, Lon: 30.5233, Text: "mobile"},
			want: "UR5ABC-9: 50.447200, 30.523300 mobile",
		},
		{
			name: "position without comment",
			pkt:  Packet{Callsign: "UR5ABC", Type: TypePosition, Lat: -33.5, Lon: 151.25},
			want: "UR5ABC: -33.500000, 151.250000",
		},
		{
			name: "message",
			pkt:  Packet{Callsign: "UR5ABC", Type: TypeMessage, MsgTo: "UT1XYZ", Text: "meet at 36U YA 23408 06785"},
			want: "UR5ABC > UT1XYZ: meet at 36U YA 23408 06785",
		},
		{
			name: "status",
			pkt:  Packet{Callsign: "UR5ABC", Type: TypeStatus, Text: "QRV 145.500"},
			want: "UR5ABC: QRV 145.500",
		},
		{
			name: "plain line",
			pkt:  Packet{Type: TypeText, Text: "  x5320000 y7411000 "},
			want: "x5320000 y7411000",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.pkt.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPositionBodyIsDetected(t *testing.T) {
	pkt := Packet{Callsign: "UR5ABC", Type: TypePosition, Lat: 48.0069, Lon: 37.8057, Text: "camp"}
	res := coords.DetectAndAnnotate(pkt.String())
	if len(res.Points) != 1 || res.Points[0].Kind != coords.KindDecimal {
		t.Fatalf("points = %+v", res.Points)
	}
	if res.Points[0].Lat != 48.0069 || res.Points[0].Lon != 37.8057 {
		t.Errorf("decoded (%f, %f)", res.Points[0].Lat, res.Points[0].Lon)
	}
}
