package keyformats

import (
	"encoding/base64"
	"encoding/xml"
	"math/big"
	"strings"

	"github.com/samber/oops"
)

// XMLFormat implements spec.md §4.9's XML format: an <RSAKeyValue>
// element with base64 children Modulus, Exponent, and (for private
// keys) P, Q, DP, DQ, InverseQ, D. Matching is case-insensitive per the
// spec, so decoding goes through a raw token scan rather than
// encoding/xml's exact-tag-name struct binding.
type XMLFormat struct{}

func (XMLFormat) Name() string { return "xml" }

func (XMLFormat) Load(data []byte, password []byte) (*Components, bool) {
	fields, ok := scanXMLFields(data)
	if !ok {
		return nil, false
	}

	modulus, ok := decodeXMLInt(fields, "modulus")
	if !ok {
		return nil, false
	}
	exponent, ok := decodeXMLInt(fields, "exponent")
	if !ok {
		return nil, false
	}

	c := &Components{
		IsPublicKey:    true,
		Modulus:        modulus,
		PublicExponent: exponent,
	}

	d, hasD := decodeXMLInt(fields, "d")
	p, hasP := decodeXMLInt(fields, "p")
	q, hasQ := decodeXMLInt(fields, "q")
	if !hasD || !hasP || !hasQ {
		return c, true
	}

	c.IsPublicKey = false
	c.PrivateExponent = d
	c.Primes = []*big.Int{p, q}

	dp, hasDP := decodeXMLInt(fields, "dp")
	dq, hasDQ := decodeXMLInt(fields, "dq")
	if hasDP && hasDQ {
		c.Exponents = []*big.Int{dp, dq}
	}
	if iq, hasIQ := decodeXMLInt(fields, "inverseq"); hasIQ {
		c.Coefficients = []*big.Int{iq}
	}
	return c, true
}

func decodeXMLInt(fields map[string]string, key string) (*big.Int, bool) {
	raw, ok := fields[key]
	if !ok {
		return nil, false
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	return new(big.Int).SetBytes(b), true
}

// scanXMLFields walks the token stream for an <RSAKeyValue> root and
// collects each direct child element's text content, lowercasing tag
// names so the case-insensitive matching spec.md §4.9 requires falls
// out of a plain map lookup.
func scanXMLFields(data []byte) (map[string]string, bool) {
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	fields := make(map[string]string)
	sawRoot := false
	var current string

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			if name == "rsakeyvalue" {
				sawRoot = true
				continue
			}
			current = name
		case xml.CharData:
			if current != "" {
				fields[current] += string(t)
			}
		case xml.EndElement:
			current = ""
		}
	}
	if !sawRoot {
		return nil, false
	}
	return fields, true
}

func (XMLFormat) SavePublicKey(c *Components) ([]byte, error) {
	if c.Modulus == nil || c.PublicExponent == nil {
		return nil, ErrMalformedKey
	}
	var b strings.Builder
	b.WriteString("<RSAKeyValue>")
	writeXMLField(&b, "Modulus", c.Modulus)
	writeXMLField(&b, "Exponent", c.PublicExponent)
	b.WriteString("</RSAKeyValue>")
	return []byte(b.String()), nil
}

func (XMLFormat) SavePrivateKey(c *Components, password []byte) ([]byte, error) {
	if password != nil {
		return nil, oops.Errorf("keyformats: XML format does not support password protection")
	}
	if c.PrivateExponent == nil || len(c.Primes) < 2 {
		return nil, ErrMalformedKey
	}
	var b strings.Builder
	b.WriteString("<RSAKeyValue>")
	writeXMLField(&b, "Modulus", c.Modulus)
	writeXMLField(&b, "Exponent", c.PublicExponent)
	writeXMLField(&b, "P", c.Primes[0])
	writeXMLField(&b, "Q", c.Primes[1])
	if len(c.Exponents) >= 2 {
		writeXMLField(&b, "DP", c.Exponents[0])
		writeXMLField(&b, "DQ", c.Exponents[1])
	}
	if len(c.Coefficients) >= 1 {
		writeXMLField(&b, "InverseQ", c.Coefficients[0])
	}
	writeXMLField(&b, "D", c.PrivateExponent)
	b.WriteString("</RSAKeyValue>")
	return []byte(b.String()), nil
}

func writeXMLField(b *strings.Builder, name string, v *big.Int) {
	b.WriteByte('<')
	b.WriteString(name)
	b.WriteByte('>')
	b.WriteString(base64.StdEncoding.EncodeToString(v.Bytes()))
	b.WriteString("</")
	b.WriteString(name)
	b.WriteByte('>')
}
