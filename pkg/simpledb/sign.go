package simpledb

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
	"time"
)

// AWS signature version 2 over the request parameters.

const (
	signatureVersion = "2"
	signatureMethod  = "HmacSHA256"
)

// percentEncode escapes per RFC 3986: everything but unreserved
// characters. url.QueryEscape is close but encodes space as "+" and
// leaves some sub-delims alone, which breaks signature verification.
func percentEncode(s string) string {
	const upperhex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9',
			c == '-', c == '_', c == '.', c == '~':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		}
	}
	return b.String()
}

// canonicalQuery renders params (minus any Signature) sorted by key in
// byte order, percent-encoded, ampersand-joined.
func canonicalQuery(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "Signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range params[k] {
			pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
		}
	}
	return strings.Join(pairs, "&")
}

// stringToSign builds the signature base string for a POST to the
// service root.
func stringToSign(host string, params url.Values) string {
	return strings.Join([]string{
		"POST",
		strings.ToLower(host),
		"/",
		canonicalQuery(params),
	}, "\n")
}

// sign stamps params with the identity, timestamp and signature fields
// required by signature version 2.
func sign(params url.Values, host, accessKey, secretKey string, now time.Time) {
	params.Set("AWSAccessKeyId", accessKey)
	params.Set("SignatureVersion", signatureVersion)
	params.Set("SignatureMethod", signatureMethod)
	params.Set("Timestamp", now.UTC().Format("2006-01-02T15:04:05"))

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(stringToSign(host, params)))
	params.Set("Signature", base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}
