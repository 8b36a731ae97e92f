package pesapal

import (
	"encoding/xml"
	"html"
	"strings"
	"testing"

	"github.com/kevin07696/pesapal-merchant/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder() *domain.OrderDetails {
	return &domain.OrderDetails{
		Amount:      decimal.NewFromInt(1000),
		Description: "d",
		Type:        domain.OrderTypeMerchant,
		Reference:   "111-222-333",
		FirstName:   "Swaleh",
		LastName:    "Mdoe",
		Email:       "test@example.com",
		PhoneNumber: "+254711000333",
		Currency:    "KES",
	}
}

const swalehOrderXML = `<?xml version="1.0" encoding="utf-8"?>` +
	`<PesapalDirectOrderInfo xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema"` +
	` Amount="1000" Description="d" Type="MERCHANT" Reference="111-222-333" FirstName="Swaleh" LastName="Mdoe"` +
	` Email="test@example.com" PhoneNumber="+254711000333" Currency="KES" xmlns="http://www.pesapal.com" />`

type orderInfo struct {
	XMLName     xml.Name `xml:"http://www.pesapal.com PesapalDirectOrderInfo"`
	Amount      string   `xml:"Amount,attr"`
	Description string   `xml:"Description,attr"`
	Type        string   `xml:"Type,attr"`
	Reference   string   `xml:"Reference,attr"`
	FirstName   string   `xml:"FirstName,attr"`
	LastName    string   `xml:"LastName,attr"`
	Email       string   `xml:"Email,attr"`
	PhoneNumber string   `xml:"PhoneNumber,attr"`
	Currency    string   `xml:"Currency,attr"`
}

func TestEncodeEntities(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`<a href="x">Tom & 'Jerry'</a>`, "&lt;a href=&quot;x&quot;&gt;Tom &amp; &apos;Jerry&apos;&lt;/a&gt;"},
		{"plain text", "plain text"},
		{"&amp;", "&amp;amp;"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeEntities(tt.input))
		})
	}
}

func TestOrderXML(t *testing.T) {
	assert.Equal(t, swalehOrderXML, OrderXML(newTestOrder()))
}

func TestBuildOrderXML(t *testing.T) {
	payload := BuildOrderXML(newTestOrder())

	assert.Equal(t, EncodeEntities(swalehOrderXML), payload)
	assert.Contains(t, payload, "&lt;?xml version=&quot;1.0&quot; encoding=&quot;utf-8&quot;?&gt;&lt;PesapalDirectOrderInfo ")
	assert.Contains(t, payload, "Amount=&quot;1000&quot; Description=&quot;d&quot;")
	assert.NotContains(t, payload, "<")
	assert.NotContains(t, payload, `"`)
}

func TestBuildOrderXML_EscapedValuesWireFormat(t *testing.T) {
	order := &domain.OrderDetails{
		Amount:      decimal.RequireFromString("1000.50"),
		Description: `a&b "x"`,
		Type:        domain.OrderTypeMerchant,
		Reference:   "R1",
		Currency:    "KES",
	}

	want := `&lt;?xml version=&quot;1.0&quot; encoding=&quot;utf-8&quot;?&gt;` +
		`&lt;PesapalDirectOrderInfo xmlns:xsi=&quot;http://www.w3.org/2001/XMLSchema-instance&quot; xmlns:xsd=&quot;http://www.w3.org/2001/XMLSchema&quot;` +
		` Amount=&quot;1000.50&quot; Description=&quot;a&amp;amp;b &amp;quot;x&amp;quot;&quot; Type=&quot;MERCHANT&quot; Reference=&quot;R1&quot;` +
		` FirstName=&quot;&quot; LastName=&quot;&quot; Email=&quot;&quot; PhoneNumber=&quot;&quot; Currency=&quot;KES&quot;` +
		` xmlns=&quot;http://www.pesapal.com&quot; /&gt;`

	assert.Equal(t, want, BuildOrderXML(order))
}

func TestBuildOrderXML_DecodesToSchema(t *testing.T) {
	order := newTestOrder()
	order.Description = `Tom & Jerry's "DVD" <boxed>`

	var info orderInfo
	require.NoError(t, xml.Unmarshal([]byte(html.UnescapeString(BuildOrderXML(order))), &info))

	assert.Equal(t, "1000", info.Amount)
	assert.Equal(t, `Tom & Jerry's "DVD" <boxed>`, info.Description)
	assert.Equal(t, "MERCHANT", info.Type)
	assert.Equal(t, "111-222-333", info.Reference)
	assert.Equal(t, "Swaleh", info.FirstName)
	assert.Equal(t, "Mdoe", info.LastName)
	assert.Equal(t, "test@example.com", info.Email)
	assert.Equal(t, "+254711000333", info.PhoneNumber)
	assert.Equal(t, "KES", info.Currency)
}

func TestOrderXML_MissingFieldsSerializeEmpty(t *testing.T) {
	got := OrderXML(&domain.OrderDetails{Reference: "R1"})

	assert.Contains(t, got, ` Amount="" Description="" Type="" Reference="R1" FirstName=""`)
	assert.Contains(t, got, ` Currency="" xmlns="http://www.pesapal.com" />`)
}

func TestOrderXML_AttributeOrder(t *testing.T) {
	got := OrderXML(newTestOrder())

	order := []string{"Amount=", "Description=", "Type=", "Reference=", "FirstName=", "LastName=", "Email=", "PhoneNumber=", "Currency=", `xmlns="http://www.pesapal.com"`}
	last := -1
	for _, attr := range order {
		idx := strings.Index(got, attr)
		require.Greater(t, idx, last, "%s out of order", attr)
		last = idx
	}
}
