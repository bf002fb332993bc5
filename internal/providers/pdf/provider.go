package pdf

import (
	"context"
	"io"
)

// Field is one labelled line of a certificate.
type Field struct {
	Label string
	Value string
}

type Section struct {
	Title  string
	Fields []Field
}

type CertificateData struct {
	Title     string
	Subtitle  string
	Sections  []Section
	QRContent string
	Footer    string
}

type Provider interface {
	GenerateCertificate(ctx context.Context, data CertificateData) (io.Reader, error)
}
