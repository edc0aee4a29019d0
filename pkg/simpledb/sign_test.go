package simpledb

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentEncode(t *testing.T) {
	cases := map[string]string{
		"abc-XYZ_0.9~": "abc-XYZ_0.9~",
		"a b":          "a%20b",
		"a+b":          "a%2Bb",
		"a/b=c&d":      "a%2Fb%3Dc%26d",
		"`name`":       "%60name%60",
		"é":            "%C3%A9",
	}
	for in, want := range cases {
		assert.Equal(t, want, percentEncode(in), "input %q", in)
	}
}

func TestCanonicalQuerySortsAndExcludesSignature(t *testing.T) {
	params := url.Values{}
	params.Set("Zeta", "1")
	params.Set("Action", "Select")
	params.Set("SelectExpression", "select * from `d`")
	params.Set("Signature", "should-not-appear")

	got := canonicalQuery(params)
	assert.Equal(t,
		"Action=Select&SelectExpression=select%20%2A%20from%20%60d%60&Zeta=1",
		got)
}

func TestStringToSignShape(t *testing.T) {
	params := url.Values{}
	params.Set("Action", "ListDomains")

	got := stringToSign("SDB.Amazonaws.com", params)
	assert.Equal(t, "POST\nsdb.amazonaws.com\n/\nAction=ListDomains", got)
}

func TestSignStampsIdentityAndSignature(t *testing.T) {
	params := url.Values{}
	params.Set("Action", "GetAttributes")
	params.Set("DomainName", "d")

	at := time.Date(2024, 5, 3, 12, 34, 56, 0, time.UTC)
	sign(params, "sdb.amazonaws.com", "AKID", "secret", at)

	assert.Equal(t, "AKID", params.Get("AWSAccessKeyId"))
	assert.Equal(t, "2", params.Get("SignatureVersion"))
	assert.Equal(t, "HmacSHA256", params.Get("SignatureMethod"))
	assert.Equal(t, "2024-05-03T12:34:56", params.Get("Timestamp"))

	// The signature covers every stamped parameter except itself.
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(stringToSign("sdb.amazonaws.com", params)))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	require.Equal(t, want, params.Get("Signature"))
}

func TestSignIsDeterministic(t *testing.T) {
	at := time.Date(2024, 5, 3, 12, 34, 56, 0, time.UTC)

	first := url.Values{}
	first.Set("Action", "ListDomains")
	sign(first, "h", "ak", "sk", at)

	second := url.Values{}
	second.Set("Action", "ListDomains")
	sign(second, "h", "ak", "sk", at)

	assert.Equal(t, first.Get("Signature"), second.Get("Signature"))
}
