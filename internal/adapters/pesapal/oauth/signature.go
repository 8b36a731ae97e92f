package oauth

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// BaseString builds METHOD&encoded-url&encoded-params.
// oauth_signature is never part of what gets signed.
func BaseString(method, absoluteURL string, params Params) (string, error) {
	normalized, err := NormalizeURL(absoluteURL)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(method) + "&" +
		Encode(normalized) + "&" +
		Encode(Canonicalize(params.Signable())), nil
}

// SigningKey joins the encoded consumer and token secrets with '&'.
// Pesapal flows have no token secret, which leaves the second segment empty.
func SigningKey(consumerSecret, tokenSecret string) string {
	return Encode(consumerSecret) + "&" + Encode(tokenSecret)
}

// Sign computes the base64 HMAC-SHA1 signature of the request.
// Identical inputs, nonce and timestamp included, give identical output.
func Sign(method, absoluteURL string, params Params, consumerSecret, tokenSecret string) (string, error) {
	base, err := BaseString(method, absoluteURL, params)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha1.New, []byte(SigningKey(consumerSecret, tokenSecret)))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Signer signs requests for one consumer. It holds no mutable state and is
// safe for concurrent use.
type Signer struct {
	consumerKey    string
	consumerSecret string
	now            func() time.Time
	nonce          NonceFunc
	nonceLength    int
}

// SignerOption configures a Signer
type SignerOption func(*Signer)

// WithClock replaces time.Now, for reproducible signatures in tests
func WithClock(now func() time.Time) SignerOption {
	return func(s *Signer) { s.now = now }
}

// WithNonceFunc replaces GenerateNonce
func WithNonceFunc(fn NonceFunc) SignerOption {
	return func(s *Signer) { s.nonce = fn }
}

// WithNonceLength sets the length of the random nonce suffix
func WithNonceLength(n int) SignerOption {
	return func(s *Signer) { s.nonceLength = n }
}

// NewSigner creates a Signer for the given consumer credentials
func NewSigner(consumerKey, consumerSecret string, opts ...SignerOption) *Signer {
	s := &Signer{
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		now:            time.Now,
		nonce:          GenerateNonce,
		nonceLength:    DefaultNonceLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseParams returns the oauth_* parameters every request carries.
// The nonce is the Unix timestamp followed by a random suffix.
func (s *Signer) BaseParams() Params {
	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	return Params{
		ParamConsumerKey:     s.consumerKey,
		ParamNonce:           timestamp + s.nonce(s.nonceLength),
		ParamSignatureMethod: SignatureMethodHMACSHA1,
		ParamTimestamp:       timestamp,
		ParamVersion:         Version,
	}
}

// SignedURL signs params for a request to endpoint and returns endpoint?query
// with oauth_signature included. params is not modified.
func (s *Signer) SignedURL(method, endpoint string, params Params) (string, error) {
	signature, err := Sign(method, endpoint, params, s.consumerSecret, "")
	if err != nil {
		return "", err
	}
	signed := params.Clone()
	signed[ParamSignature] = signature
	return endpoint + "?" + Canonicalize(signed), nil
}
