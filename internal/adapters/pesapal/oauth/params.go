package oauth

import (
	"slices"
	"strings"
)

// ParamKey is the name of a request parameter the gateway understands.
// Only the constants below are ever signed or sent.
type ParamKey string

const (
	ParamCallback        ParamKey = "oauth_callback"
	ParamConsumerKey     ParamKey = "oauth_consumer_key"
	ParamNonce           ParamKey = "oauth_nonce"
	ParamSignature       ParamKey = "oauth_signature"
	ParamSignatureMethod ParamKey = "oauth_signature_method"
	ParamTimestamp       ParamKey = "oauth_timestamp"
	ParamVersion         ParamKey = "oauth_version"

	ParamRequestData           ParamKey = "pesapal_request_data"
	ParamMerchantReference     ParamKey = "pesapal_merchant_reference"
	ParamTransactionTrackingID ParamKey = "pesapal_transaction_tracking_id"
)

const (
	SignatureMethodHMACSHA1 = "HMAC-SHA1"
	Version                 = "1.0"
)

// Params is the set of parameters of one request. Order is irrelevant;
// Canonicalize defines the wire order.
type Params map[ParamKey]string

// Clone returns a shallow copy of p
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Signable returns a copy of p without oauth_signature
func (p Params) Signable() Params {
	out := p.Clone()
	delete(out, ParamSignature)
	return out
}

type encodedPair struct {
	key   string
	value string
}

// Canonicalize encodes every key and value, sorts the pairs by encoded key
// and then encoded value (byte order), and joins them as k=v&k=v.
func Canonicalize(p Params) string {
	pairs := make([]encodedPair, 0, len(p))
	for k, v := range p {
		pairs = append(pairs, encodedPair{key: Encode(string(k)), value: Encode(v)})
	}
	slices.SortFunc(pairs, func(a, b encodedPair) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}
		return strings.Compare(a.value, b.value)
	})

	var b strings.Builder
	for i, pair := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(pair.key)
		b.WriteByte('=')
		b.WriteString(pair.value)
	}
	return b.String()
}
