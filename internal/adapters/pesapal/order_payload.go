package pesapal

import (
	"strings"

	"github.com/kevin07696/pesapal-merchant/internal/domain"
)

const (
	xmlDeclaration  = `<?xml version="1.0" encoding="utf-8"?>`
	orderElement    = "PesapalDirectOrderInfo"
	orderNamespaces = `xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema"`
	orderXMLNS      = `xmlns="http://www.pesapal.com"`
)

// entityEncoder replaces the five XML special characters with their named
// entities. html.EscapeString emits numeric entities for quotes, which the
// gateway does not expect.
var entityEncoder = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EncodeEntities replaces & < > " ' with &amp; &lt; &gt; &quot; &apos;
func EncodeEntities(s string) string {
	return entityEncoder.Replace(s)
}

type xmlAttr struct {
	name  string
	value string
}

// orderAttrs lists the order attributes in the order the schema requires
func orderAttrs(order *domain.OrderDetails) []xmlAttr {
	return []xmlAttr{
		{"Amount", order.AmountString()},
		{"Description", order.Description},
		{"Type", order.Type},
		{"Reference", order.Reference},
		{"FirstName", order.FirstName},
		{"LastName", order.LastName},
		{"Email", order.Email},
		{"PhoneNumber", order.PhoneNumber},
		{"Currency", order.Currency},
	}
}

// OrderXML renders the self-closed PesapalDirectOrderInfo element.
// Attribute values are escaped so that the document stays well formed.
func OrderXML(order *domain.OrderDetails) string {
	var b strings.Builder
	b.WriteString(xmlDeclaration)
	b.WriteString("<" + orderElement + " ")
	b.WriteString(orderNamespaces)
	for _, attr := range orderAttrs(order) {
		b.WriteByte(' ')
		b.WriteString(attr.name)
		b.WriteString(`="`)
		b.WriteString(EncodeEntities(attr.value))
		b.WriteByte('"')
	}
	b.WriteByte(' ')
	b.WriteString(orderXMLNS)
	b.WriteString(" />")
	return b.String()
}

// BuildOrderXML returns the value of pesapal_request_data: the order XML
// with the whole document entity-encoded. Canonicalization percent-encodes
// it a second time; the gateway expects both layers.
func BuildOrderXML(order *domain.OrderDetails) string {
	return EncodeEntities(OrderXML(order))
}
