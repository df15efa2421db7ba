package ssdp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/rs/zerolog"
)

const multicastAddr = "239.255.255.250:1900"

// Server answers Hue discovery searches so voice assistants find the bridge.
type Server struct {
	ip   string
	port int
	log  zerolog.Logger
}

func NewServer(ip string, port int, log zerolog.Logger) *Server {
	if port == 0 {
		port = 80
	}
	return &Server{ip: ip, port: port, log: log.With().Str("component", "ssdp").Logger()}
}

// Run listens until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp4", multicastAddr)
	if err != nil {
		return err
	}

	conn, err := net.ListenMulticastUDP("udp4", nil, addr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	s.log.Info().Str("addr", multicastAddr).Msg("ssdp listening")

	buf := make([]byte, 1024)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			continue
		}

		if isSearch(string(buf[:n])) {
			s.log.Debug().Str("from", src.String()).Msg("answering search")
			s.respond(src)
		}
	}
}

// isSearch reports whether msg is an M-SEARCH a Hue client would send.
// Echo devices search for the basic device type or the root device.
func isSearch(msg string) bool {
	if !strings.Contains(msg, "M-SEARCH") {
		return false
	}
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "urn:schemas-upnp-org:device:basic:1") ||
		strings.Contains(lower, "upnp:rootdevice") ||
		strings.Contains(lower, "ssdp:all")
}

func (s *Server) response() string {
	return fmt.Sprintf("HTTP/1.1 200 OK\r\n"+
		"CACHE-CONTROL: max-age=100\r\n"+
		"EXT:\r\n"+
		"LOCATION: http://%s:%d/description.xml\r\n"+
		"SERVER: FreeRTOS/6.0.5, UPnP/1.1, IpBridge/1.17.0\r\n"+
		"ST: urn:schemas-upnp-org:device:basic:1\r\n"+
		"USN: uuid:2f402f80-da50-11e1-9b23-001788102201::urn:schemas-upnp-org:device:basic:1\r\n\r\n", s.ip, s.port)
}

func (s *Server) respond(dest *net.UDPAddr) {
	conn, err := net.DialUDP("udp4", nil, dest)
	if err != nil {
		s.log.Warn().Err(err).Msg("dial failed")
		return
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(s.response())); err != nil {
		s.log.Warn().Err(err).Msg("response failed")
	}
}
