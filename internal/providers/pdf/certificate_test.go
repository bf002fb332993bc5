package pdf

import (
	"bytes"
	"context"
	"io"
	"testing"
)

func TestGenerateCertificate(t *testing.T) {
	r, err := New().GenerateCertificate(context.Background(), CertificateData{
		Title:    "Wheat",
		Subtitle: "Grains",
		Sections: []Section{
			{Title: "Quality", Fields: []Field{{Label: "Moisture", Value: "12.5%"}}},
		},
		QRContent: "https://market.example/product/1/view",
		Footer:    "Generated 2024-06-01",
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a pdf")
	}
}

func TestGenerateCertificateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().GenerateCertificate(ctx, CertificateData{}); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}
