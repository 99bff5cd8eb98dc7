// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package report

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// EncodeRaw renders b per enc: a hex string, or a Python byte-literal
// (b'...') string compatible with artifacts produced by the tool this
// schema is bound to.
func EncodeRaw(b []byte, enc RawEncoding) string {
	if enc == EncodingHex {
		return hex.EncodeToString(b)
	}
	return encodeByteLiteral(b)
}

// encodeByteLiteral renders b in Python byte-literal syntax, always
// wrapped in b'...': printable ASCII verbatim (backslash and single
// quote escaped), newline, carriage return and tab as \n, \r and \t,
// and everything else as \xHH.
func encodeByteLiteral(b []byte) string {
	var sb strings.Builder
	sb.WriteString("b'")
	for _, c := range b {
		switch {
		case c == '\\' || c == '\'':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c >= 0x20 && c < 0x7F:
			sb.WriteByte(c)
		default:
			sb.WriteString(fmt.Sprintf(`\x%02x`, c))
		}
	}
	sb.WriteString("'")
	return sb.String()
}

// DecodeRaw parses a raw field produced by EncodeRaw, auto-detecting
// its encoding by prefix: a leading "b'" (or `b"`) means a Python
// byte-literal, otherwise the field is treated as hex.
func DecodeRaw(s string) ([]byte, error) {
	if strings.HasPrefix(s, "b'") || strings.HasPrefix(s, `b"`) {
		return decodeByteLiteral(s)
	}
	return hex.DecodeString(s)
}

func decodeByteLiteral(s string) ([]byte, error) {
	if len(s) < 3 {
		return nil, fmt.Errorf("report: byte literal %q too short", s)
	}
	quote := s[1]
	body := s[2 : len(s)-1]
	if len(s) == 0 || s[len(s)-1] != quote {
		return nil, fmt.Errorf("report: byte literal %q missing closing quote", s)
	}

	var out []byte
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			out = append(out, c)
			i++
			continue
		}
		if i+1 >= len(body) {
			return nil, fmt.Errorf("report: byte literal %q ends mid-escape", s)
		}
		esc := body[i+1]
		switch esc {
		case 'x':
			if i+4 > len(body) {
				return nil, fmt.Errorf("report: byte literal %q has truncated \\x escape", s)
			}
			v, err := strconv.ParseUint(body[i+2:i+4], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("report: byte literal %q has bad \\x escape: %w", s, err)
			}
			out = append(out, byte(v))
			i += 4
		case 'n':
			out = append(out, '\n')
			i += 2
		case 'r':
			out = append(out, '\r')
			i += 2
		case 't':
			out = append(out, '\t')
			i += 2
		case '\\', '\'', '"':
			out = append(out, esc)
			i += 2
		default:
			out = append(out, esc)
			i += 2
		}
	}
	return out, nil
}
