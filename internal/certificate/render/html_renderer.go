package render

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"
	"time"
)

const certificateHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Product.Name}} | Product certificate</title>
  <style>
    :root {
      --primary: #2f7d32;
      --font: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 32px 16px;
      font-family: var(--font);
      color: #1a1f36;
      background: #f4f8f2;
    }
    .card {
      background: #ffffff;
      max-width: 720px;
      margin: 0 auto;
      padding: 40px;
      border-radius: 6px;
      box-shadow: 0 2px 5px rgba(0,0,0,0.05);
    }
    .header { display: flex; justify-content: space-between; gap: 24px; }
    h1 { margin: 0 0 4px; font-size: 24px; }
    .sub { color: #697386; font-size: 14px; }
    .badge {
      display: inline-block;
      padding: 2px 10px;
      border-radius: 12px;
      font-size: 12px;
      font-weight: 600;
      background: #e3e8ee;
    }
    .badge.Verified { background: #d8f0da; color: var(--primary); }
    .badge.Rejected { background: #fde2e1; color: #b42318; }
    .label {
      font-size: 11px;
      text-transform: uppercase;
      color: #8792a2;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    table { width: 100%; border-collapse: collapse; margin-top: 24px; }
    td { padding: 12px 0; border-bottom: 1px solid #e3e8ee; font-size: 14px; }
    td.value { text-align: right; font-weight: 500; }
    .qr img { width: 160px; height: 160px; }
    .product-image { max-width: 100%; border-radius: 4px; margin-top: 24px; }
    .footer { margin-top: 32px; font-size: 12px; color: #8792a2; }
    a { color: var(--primary); }
  </style>
</head>
<body>
  <div class="card">
    <div class="header">
      <div>
        <div class="label">Product certificate</div>
        <h1>{{.Product.Name}}</h1>
        <div class="sub">{{.Product.Category}}{{if .Product.Location}} &middot; {{.Product.Location}}{{end}}</div>
      </div>
      <div class="qr">
        <img src="{{.QRCodeURL}}" alt="Authenticity QR code">
      </div>
    </div>

    <table>
      <tr><td colspan="2" class="label">Farmer</td></tr>
      <tr><td>Name</td><td class="value">{{.Farmer.Name}}</td></tr>
      <tr><td>Farmer ID</td><td class="value">{{.Farmer.ID}}</td></tr>
      <tr><td>Farm</td><td class="value">{{.Farmer.FarmName}}</td></tr>
      <tr><td>Location</td><td class="value">{{.Farmer.Location}}</td></tr>
      {{if .Farmer.FarmingType}}<tr><td>Farming type</td><td class="value">{{.Farmer.FarmingType}}</td></tr>{{end}}
      <tr>
        <td>Verification</td>
        <td class="value"><span class="badge {{.Farmer.VerificationStatus}}">{{.Farmer.VerificationStatus}}</span>{{if .Farmer.VerifiedAt}} since {{formatDate .Farmer.VerifiedAt}}{{end}}</td>
      </tr>

      <tr><td colspan="2" class="label">Quality</td></tr>
      <tr><td>Harvest date</td><td class="value">{{formatDate .Product.HarvestDate}}</td></tr>
      <tr><td>Moisture</td><td class="value">{{formatMetric .Product.Moisture "%"}}</td></tr>
      <tr><td>Protein</td><td class="value">{{formatMetric .Product.Protein "%"}}</td></tr>
      <tr><td>Pesticide residue</td><td class="value">{{formatMetric .Product.PesticideResidue " ppm"}}</td></tr>
      <tr><td>Soil pH</td><td class="value">{{formatMetric .Product.SoilPH ""}}</td></tr>
      <tr>
        <td>Lab report</td>
        <td class="value">{{if .Product.LabReport}}<a href="{{.Product.LabReport}}" target="_blank" rel="noopener">View report</a>{{else}}Not available{{end}}</td>
      </tr>

      <tr><td colspan="2" class="label">Listing</td></tr>
      <tr><td>Price</td><td class="value">{{.Product.Price}}</td></tr>
      <tr><td>Quantity</td><td class="value">{{formatQuantity .Product.Quantity}}</td></tr>
    </table>

    {{if .Product.Image}}<img class="product-image" src="{{.Product.Image}}" alt="{{.Product.Name}}">{{end}}

    <div class="footer">
      Scan the code to reopen this page: <a href="{{.VerifyURL}}">{{.VerifyURL}}</a><br>
      Generated {{formatDate .GeneratedAt}}
    </div>
  </div>
</body>
</html>
`

const notFoundHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Product not found</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; background: #f4f8f2; color: #1a1f36; padding: 64px 16px; text-align: center; }
    p { color: #697386; }
  </style>
</head>
<body>
  <h1>Product not found</h1>
  <p>This code does not match any product currently listed.</p>
</body>
</html>
`

// NotAvailable is shown for every quality field that was not recorded.
const NotAvailable = "Not available"

type Renderer interface {
	RenderHTML(view View) (string, error)
	RenderNotFound() (string, error)
}

type View struct {
	Product     ProductView
	Farmer      FarmerView
	QRCodeURL   string
	VerifyURL   string
	GeneratedAt time.Time
}

type ProductView struct {
	ID                string
	Name              string
	Category          string
	Price             string
	Quantity          float64
	Location          string
	Image             string
	HarvestDate       *time.Time
	Moisture          *float64
	Protein           *float64
	PesticideResidue  *float64
	SoilPH            *float64
	LabReport         string
	AttestationStatus string
}

type FarmerView struct {
	ID                 string
	Name               string
	FarmName           string
	Location           string
	FarmingType        string
	VerificationStatus string
	VerifiedAt         *time.Time
}

type HTMLRenderer struct {
	tpl      *template.Template
	notFound *template.Template
}

func NewRenderer() Renderer {
	funcs := template.FuncMap{
		"formatDate":     formatDate,
		"formatMetric":   FormatMetric,
		"formatQuantity": FormatQuantity,
	}
	return &HTMLRenderer{
		tpl:      template.Must(template.New("certificate").Funcs(funcs).Parse(certificateHTMLTemplate)),
		notFound: template.Must(template.New("not_found").Parse(notFoundHTMLTemplate)),
	}
}

func (r *HTMLRenderer) RenderHTML(view View) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *HTMLRenderer) RenderNotFound() (string, error) {
	var buf bytes.Buffer
	if err := r.notFound.Execute(&buf, nil); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatMetric prints the value as entered followed by unit.
func FormatMetric(value *float64, unit string) string {
	if value == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*value, 'f', -1, 64) + unit
}

func FormatQuantity(value float64) string {
	return strings.TrimRight(strings.TrimRight(strconv.FormatFloat(value, 'f', 2, 64), "0"), ".")
}

func formatDate(value any) string {
	switch v := value.(type) {
	case *time.Time:
		if v == nil || v.IsZero() {
			return NotAvailable
		}
		return v.UTC().Format("2006-01-02")
	case time.Time:
		if v.IsZero() {
			return NotAvailable
		}
		return v.UTC().Format("2006-01-02")
	default:
		return NotAvailable
	}
}
