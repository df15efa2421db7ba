package ssdp

import (
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSearch(t *testing.T) {
	assert.True(t, isSearch("M-SEARCH * HTTP/1.1\r\nST: urn:schemas-upnp-org:device:basic:1\r\n"))
	assert.True(t, isSearch("M-SEARCH * HTTP/1.1\r\nST: upnp:rootdevice\r\n"))
	assert.True(t, isSearch("M-SEARCH * HTTP/1.1\r\nST: ssdp:all\r\n"))
	assert.True(t, isSearch("M-SEARCH * HTTP/1.1\r\nST: urn:schemas-upnp-org:device:Basic:1\r\n"))
	assert.False(t, isSearch("M-SEARCH * HTTP/1.1\r\nST: urn:dial-multiscreen-org:service:dial:1\r\n"))
	assert.False(t, isSearch("NOTIFY * HTTP/1.1\r\nNT: upnp:rootdevice\r\n"))
}

func TestResponse(t *testing.T) {
	s := NewServer("10.0.0.2", 0, zerolog.Nop())
	assert.Contains(t, s.response(), "LOCATION: http://10.0.0.2:80/description.xml\r\n")

	s = NewServer("10.0.0.2", 8080, zerolog.Nop())
	assert.Contains(t, s.response(), "http://10.0.0.2:8080/description.xml")
}

func TestRespond(t *testing.T) {
	listener, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer listener.Close()

	s := NewServer("10.0.0.2", 80, zerolog.Nop())
	s.respond(listener.LocalAddr().(*net.UDPAddr))

	require.NoError(t, listener.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 1024)
	n, _, err := listener.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Equal(t, s.response(), string(buf[:n]))
}
