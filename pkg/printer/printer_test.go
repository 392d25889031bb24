package printer

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_EncodesPortuguese(t *testing.T) {
	doc := NewDocument(32)
	doc.Text("Feijão à vista")

	out := doc.Bytes()

	assert.True(t, bytes.HasPrefix(out, []byte{ESC, '@', ESC, 't', codePage850}))
	// ã = 0xC6 and à = 0x85 in PC850
	assert.Contains(t, string(out), "Feij\xc6o \x85 vista\n")
}

func TestDocument_ItemLineAlignsSubtotal(t *testing.T) {
	doc := NewDocument(32)
	doc.Reset().ItemLine("Arroz", "2.0 kg", "10.00", "20.00")

	lines := bytes.Split(bytes.TrimPrefix(doc.Bytes(), []byte{ESC, '@', ESC, 't', codePage850}), []byte{LF})
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "Arroz", string(lines[0]))
	assert.Len(t, lines[1], 32)
	assert.True(t, bytes.HasSuffix(lines[1], []byte("20.00")))
	assert.True(t, bytes.HasPrefix(lines[1], []byte("  2.0 kg x 10.00")))
}

func TestDocument_KeyValueNeverTouches(t *testing.T) {
	doc := NewDocument(10)
	doc.Reset().KeyValue("TOTAL:", "R$ 1000.00")

	assert.Contains(t, string(doc.Bytes()), "TOTAL: R$ 1000.00\n")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Feij", Truncate("Feijão", 4))
	assert.Equal(t, "Feijão", Truncate("Feijão", 6))
}

func TestNew(t *testing.T) {
	p, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, TypeNone, p.Type())
	assert.False(t, p.IsConnected(context.Background()))

	_, err = New(Config{Type: TypeUSB})
	assert.Error(t, err)
	_, err = New(Config{Type: TypeNetwork})
	assert.Error(t, err)
	_, err = New(Config{Type: "serial"})
	assert.Error(t, err)
}

func TestUSBPrinter_WritesDeviceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lp0")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	p, err := New(Config{Type: TypeUSB, USBPath: path})
	require.NoError(t, err)
	assert.True(t, p.IsConnected(context.Background()))

	require.NoError(t, p.Print(context.Background(), []byte("hello")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestNetworkPrinter_SendsOverTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	p, err := New(Config{Type: TypeNetwork, Address: ln.Addr().String()})
	require.NoError(t, err)
	require.NoError(t, p.Print(context.Background(), []byte{ESC, '@'}))

	assert.Equal(t, []byte{ESC, '@'}, <-received)
}
