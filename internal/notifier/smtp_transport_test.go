package notifier

import (
	"bufio"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aleister1102/ticketwatch/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTPServer speaks just enough ESMTP for one submission session.
type fakeSMTPServer struct {
	ln       net.Listener
	cert     *tls.Certificate
	authOK   bool
	mu       sync.Mutex
	commands []string
	data     string
	done     chan struct{}
}

func startFakeSMTP(t *testing.T, withTLS, authOK bool) *fakeSMTPServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeSMTPServer{ln: ln, authOK: authOK, done: make(chan struct{})}
	if withTLS {
		cert := selfSignedCert(t)
		s.cert = &cert
	}
	go s.serve()
	t.Cleanup(func() {
		_ = ln.Close()
		select {
		case <-s.done:
		case <-time.After(2 * time.Second):
		}
	})
	return s
}

func (s *fakeSMTPServer) emailConfig() config.EmailConfig {
	_, port, _ := net.SplitHostPort(s.ln.Addr().String())
	cfg := readyEmailConfig()
	cfg.SMTPHost = "127.0.0.1"
	cfg.SMTPPort, _ = strconv.Atoi(port)
	cfg.TimeoutSeconds = 5
	return cfg
}

func (s *fakeSMTPServer) serve() {
	defer close(s.done)
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	var c net.Conn = conn
	r := bufio.NewReader(c)
	reply := func(lines ...string) {
		for _, l := range lines {
			_, _ = c.Write([]byte(l + "\r\n"))
		}
	}
	reply("220 fake.local ESMTP")
	secure := false

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimSpace(line)
		upper := strings.ToUpper(cmd)
		s.mu.Lock()
		s.commands = append(s.commands, strings.Fields(upper + " _")[0])
		s.mu.Unlock()

		switch {
		case strings.HasPrefix(upper, "EHLO"):
			switch {
			case secure:
				reply("250-fake.local", "250-AUTH PLAIN", "250 8BITMIME")
			case s.cert != nil:
				reply("250-fake.local", "250-STARTTLS", "250 8BITMIME")
			default:
				reply("250-fake.local", "250 8BITMIME")
			}
		case upper == "STARTTLS" && s.cert != nil:
			reply("220 2.0.0 ready")
			tlsConn := tls.Server(conn, &tls.Config{Certificates: []tls.Certificate{*s.cert}})
			if err := tlsConn.Handshake(); err != nil {
				return
			}
			c = tlsConn
			r = bufio.NewReader(c)
			secure = true
		case strings.HasPrefix(upper, "AUTH PLAIN"):
			if s.authOK {
				reply("235 2.7.0 accepted")
			} else {
				reply("535 5.7.8 bad credentials")
			}
		case strings.HasPrefix(upper, "MAIL FROM:"), strings.HasPrefix(upper, "RCPT TO:"):
			reply("250 2.1.0 ok")
		case upper == "DATA":
			reply("354 go ahead")
			var sb strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				sb.WriteString(l)
			}
			s.mu.Lock()
			s.data = sb.String()
			s.mu.Unlock()
			reply("250 2.0.0 queued")
		case upper == "QUIT":
			reply("221 2.0.0 bye")
			return
		default:
			reply("502 5.5.1 unrecognized")
		}
	}
}

func (s *fakeSMTPServer) seen() ([]string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...), s.data
}

func selfSignedCert(t *testing.T) tls.Certificate {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "fake.local"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
}

func testEnvelope() Envelope {
	return Envelope{
		From: "watcher@example.com",
		To:   []string{"me@example.org"},
		Data: []byte("Subject: hi\r\n\r\nrapid cluj\r\n"),
	}
}

func TestSMTPTransport_Send(t *testing.T) {
	server := startFakeSMTP(t, true, true)
	transport := NewSMTPTransport(server.emailConfig(), zerolog.Nop()).
		WithTLSConfig(&tls.Config{InsecureSkipVerify: true})

	require.NoError(t, transport.Send(context.Background(), testEnvelope()))
	<-server.done

	commands, data := server.seen()
	assert.Equal(t, []string{"EHLO", "STARTTLS", "EHLO", "AUTH", "MAIL", "RCPT", "DATA", "QUIT"}, commands)
	assert.Contains(t, data, "rapid cluj")
}

func TestSMTPTransport_RefusesWithoutStartTLS(t *testing.T) {
	server := startFakeSMTP(t, false, true)
	transport := NewSMTPTransport(server.emailConfig(), zerolog.Nop())

	err := transport.Send(context.Background(), testEnvelope())
	var sendErr *SendError
	require.True(t, errors.As(err, &sendErr))
	assert.Equal(t, StageStartTLS, sendErr.Stage)
	assert.ErrorIs(t, err, ErrStartTLSUnsupported)

	<-server.done
	commands, _ := server.seen()
	assert.NotContains(t, commands, "AUTH")
}

func TestSMTPTransport_AuthRejected(t *testing.T) {
	server := startFakeSMTP(t, true, false)
	transport := NewSMTPTransport(server.emailConfig(), zerolog.Nop()).
		WithTLSConfig(&tls.Config{InsecureSkipVerify: true})

	err := transport.Send(context.Background(), testEnvelope())
	var sendErr *SendError
	require.True(t, errors.As(err, &sendErr))
	assert.Equal(t, StageAuth, sendErr.Stage)
	assert.Contains(t, err.Error(), "535")
}

func TestSMTPTransport_UntrustedCertificate(t *testing.T) {
	server := startFakeSMTP(t, true, true)
	transport := NewSMTPTransport(server.emailConfig(), zerolog.Nop())

	err := transport.Send(context.Background(), testEnvelope())
	var sendErr *SendError
	require.True(t, errors.As(err, &sendErr))
	assert.Equal(t, StageStartTLS, sendErr.Stage)
}

func TestSMTPTransport_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, ln.Close())

	cfg := readyEmailConfig()
	cfg.SMTPHost = "127.0.0.1"
	cfg.SMTPPort, _ = strconv.Atoi(port)

	err = NewSMTPTransport(cfg, zerolog.Nop()).Send(context.Background(), testEnvelope())
	var sendErr *SendError
	require.True(t, errors.As(err, &sendErr))
	assert.Equal(t, StageConnect, sendErr.Stage)
}
