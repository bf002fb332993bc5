package render

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func float(v float64) *float64 { return &v }

func TestFormatMetric(t *testing.T) {
	cases := []struct {
		value *float64
		unit  string
		want  string
	}{
		{float(12.5), "%", "12.5%"},
		{float(9.0), "%", "9%"},
		{float(0.02), " ppm", "0.02 ppm"},
		{float(6.8), "", "6.8"},
		{nil, "%", NotAvailable},
	}
	for _, tc := range cases {
		if got := FormatMetric(tc.value, tc.unit); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	harvest := time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)
	html, err := NewRenderer().RenderHTML(View{
		Product: ProductView{
			ID:          "1",
			Name:        "Wheat <Sharbati>",
			Category:    "Grains",
			Price:       "50.00",
			Quantity:    100,
			HarvestDate: &harvest,
			Moisture:    float(12.5),
			Protein:     float(9),
			LabReport:   "/uploads/report.pdf",
		},
		Farmer: FarmerView{
			ID:                 "42",
			Name:               "Ravi",
			FarmName:           "Sunrise Farm",
			Location:           "Pune",
			VerificationStatus: "Verified",
		},
		QRCodeURL:   "/product/1/qr",
		VerifyURL:   "https://market.example/product/1/view",
		GeneratedAt: harvest,
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := doc.Find("h1").Text(); got != "Wheat <Sharbati>" {
		t.Fatalf("unexpected title %q", got)
	}

	values := map[string]string{}
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 2 {
			values[strings.TrimSpace(cells.First().Text())] = strings.TrimSpace(cells.Last().Text())
		}
	})
	expect := map[string]string{
		"Moisture":          "12.5%",
		"Protein":           "9%",
		"Pesticide residue": NotAvailable,
		"Soil pH":           NotAvailable,
		"Harvest date":      "2024-04-20",
		"Lab report":        "View report",
		"Verification":      "Verified",
		"Farmer ID":         "42",
	}
	for label, want := range expect {
		if values[label] != want {
			t.Fatalf("%s: expected %q, got %q", label, want, values[label])
		}
	}
	if src, _ := doc.Find(".qr img").Attr("src"); src != "/product/1/qr" {
		t.Fatalf("unexpected qr src %q", src)
	}
}

func TestRenderNotFound(t *testing.T) {
	html, err := NewRenderer().RenderNotFound()
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(html, "Product not found") {
		t.Fatalf("missing not found message")
	}
}
