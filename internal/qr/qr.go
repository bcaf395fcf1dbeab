// Package qr renders links as terminal QR codes.
package qr

import (
	"errors"
	"fmt"
	"io"

	"github.com/skip2/go-qrcode"
)

var ErrQREmpty = errors.New("QR-Code content is empty")

// QRCode represents a QR-Code.
type QRCode struct {
	QR   *qrcode.QRCode
	From string
}

// New creates a new QR-Code from s.
func New(s string) (*QRCode, error) {
	if s == "" {
		return nil, ErrQREmpty
	}

	q, err := qrcode.New(s, qrcode.High)
	if err != nil {
		return nil, fmt.Errorf("generating qr-code: %w", err)
	}

	return &QRCode{QR: q, From: s}, nil
}

// String returns the compact terminal rendering, inverted when invert is set.
func (q *QRCode) String(invert bool) string {
	return q.QR.ToSmallString(invert)
}

// Render writes the QR-Code followed by its content to w.
func (q *QRCode) Render(w io.Writer, invert bool) error {
	if _, err := fmt.Fprint(w, q.String(invert)); err != nil {
		return fmt.Errorf("rendering qr-code: %w", err)
	}

	if _, err := fmt.Fprintln(w, q.From); err != nil {
		return fmt.Errorf("rendering qr-code: %w", err)
	}

	return nil
}
