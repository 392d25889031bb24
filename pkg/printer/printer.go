package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Printer types accepted by New.
const (
	TypeUSB     = "usb"
	TypeNetwork = "network"
	TypeNone    = "none"
)

// Printer sends raw ESC/POS data to a thermal printer.
type Printer interface {
	// Print sends raw ESC/POS bytes to the printer.
	Print(ctx context.Context, data []byte) error
	// IsConnected reports whether the device is reachable.
	IsConnected(ctx context.Context) bool
	// Type returns the printer type name.
	Type() string
}

// Config selects and addresses a printer.
type Config struct {
	Type    string
	USBPath string
	Address string
}

// New creates the appropriate Printer for cfg.Type.
//
//	usb:     device path, e.g. /dev/usb/lp0
//	network: TCP address with port, e.g. 192.168.1.100:9100
//	none:    no-op printer
func New(cfg Config) (Printer, error) {
	switch cfg.Type {
	case TypeUSB:
		if cfg.USBPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return &usbPrinter{path: cfg.USBPath}, nil
	case TypeNetwork:
		if cfg.Address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return &networkPrinter{address: cfg.Address, timeout: 5 * time.Second}, nil
	case TypeNone, "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", cfg.Type)
	}
}

// usbPrinter writes to a device file, opening it per job.
type usbPrinter struct {
	path string
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: failed to open USB device %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to USB device %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) IsConnected(_ context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Type() string { return TypeUSB }

// networkPrinter dials a raw TCP port (usually 9100) per job.
type networkPrinter struct {
	address string
	timeout time.Duration
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: failed to connect to %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) IsConnected(ctx context.Context) bool {
	dialer := net.Dialer{Timeout: 2 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Type() string { return TypeNetwork }

// NullPrinter discards every job. Used when no printer is configured.
type NullPrinter struct{}

// NewNullPrinter creates a no-op printer for environments without hardware.
func NewNullPrinter() *NullPrinter {
	return &NullPrinter{}
}

func (p *NullPrinter) Print(_ context.Context, _ []byte) error { return nil }

func (p *NullPrinter) IsConnected(_ context.Context) bool { return false }

func (p *NullPrinter) Type() string { return TypeNone }
