// Package format implements the leaf-level string format checkers used by
// the "format" keyword. Checkers are assertions over a single string; an
// unknown format name is vacuously valid, matching the advisory nature of
// format in JSON Schema 2020-12.
package format

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	timefmt "github.com/itchyny/timefmt-go"
)

// Validate checks value against the named format. Unknown names report true.
// Checkers never return errors; internal parse failures map to false.
func Validate(name, value string) bool {
	switch name {
	case "date-time":
		return isDateTime(value)
	case "date":
		return isDate(value)
	case "time":
		return isTime(value)
	case "duration":
		return isDuration(value)
	case "email", "idn-email":
		return isEmail(value)
	case "hostname", "idn-hostname":
		return isHostname(value)
	case "ipv4":
		return isIPv4(value)
	case "ipv6":
		return isIPv6(value)
	case "uri":
		return isURI(value)
	case "uri-reference":
		return isURIReference(value)
	case "uri-template":
		return isURITemplate(value)
	case "json-pointer":
		return isJSONPointer(value)
	case "relative-json-pointer":
		return isRelativeJSONPointer(value)
	case "uuid":
		return isUUID(value)
	case "regex":
		return isRegex(value)
	default:
		return true
	}
}

func isDateTime(s string) bool {
	if _, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return true
	}
	// Offset-less local form is also accepted.
	_, err := time.Parse("2006-01-02T15:04:05.999999999", s)
	return err == nil
}

func isDate(s string) bool {
	if len(s) != len("2006-01-02") {
		return false
	}
	_, err := timefmt.Parse(s, "%Y-%m-%d")
	return err == nil
}

var timeRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d+)?([Zz]|[+-]\d{2}:\d{2})?$`)

func isTime(s string) bool {
	if len(s) == len("15:04:05") {
		if _, err := timefmt.Parse(s, "%H:%M:%S"); err == nil {
			return true
		}
	}
	// Fallback grammar with fractional seconds and offset/Z.
	return timeRe.MatchString(s)
}

var durationRe = regexp.MustCompile(`^P(\d+Y)?(\d+M)?(\d+W)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`)

func isDuration(s string) bool {
	if !durationRe.MatchString(s) {
		return false
	}
	// The regex alone admits a bare "P" and a dangling "T".
	if s == "P" || strings.HasSuffix(s, "T") {
		return false
	}
	return true
}

var emailLocalRe = regexp.MustCompile("^[A-Za-z0-9.!#$%&'*+/=?^_`{|}~-]+$")

func isEmail(s string) bool {
	local, host, ok := strings.Cut(s, "@")
	if !ok || local == "" || host == "" {
		return false
	}
	if !emailLocalRe.MatchString(local) {
		return false
	}
	return isHostname(host)
}

var hostLabelRe = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)

func isHostname(s string) bool {
	if s == "" || len(s) > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if !hostLabelRe.MatchString(label) {
			return false
		}
	}
	return true
}

func isIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if len(p) == 0 || len(p) > 3 {
			return false
		}
		if len(p) > 1 && p[0] == '0' {
			return false
		}
		n := 0
		for _, c := range p {
			if c < '0' || c > '9' {
				return false
			}
			n = n*10 + int(c-'0')
		}
		if n > 255 {
			return false
		}
	}
	return true
}

// isIPv6 is deliberately simplified: at most one "::" compression, otherwise
// exactly 8 colon-separated groups of 1-4 hex digits.
func isIPv6(s string) bool {
	if strings.Contains(s, ":::") {
		return false
	}
	if n := strings.Count(s, "::"); n > 1 {
		return false
	}
	if strings.Contains(s, "::") {
		left, right, _ := strings.Cut(s, "::")
		groups := 0
		for _, side := range []string{left, right} {
			if side == "" {
				continue
			}
			for _, g := range strings.Split(side, ":") {
				if !isHexGroup(g) {
					return false
				}
				groups++
			}
		}
		return groups < 8
	}
	parts := strings.Split(s, ":")
	if len(parts) != 8 {
		return false
	}
	for _, g := range parts {
		if !isHexGroup(g) {
			return false
		}
	}
	return true
}

func isHexGroup(g string) bool {
	if len(g) == 0 || len(g) > 4 {
		return false
	}
	for _, c := range g {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func isURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

func isURIReference(s string) bool {
	_, err := url.Parse(s)
	return err == nil
}

func isURITemplate(s string) bool {
	open := false
	for _, c := range s {
		switch c {
		case '{':
			if open {
				return false
			}
			open = true
		case '}':
			if !open {
				return false
			}
			open = false
		}
	}
	return !open
}

func isJSONPointer(s string) bool {
	if s == "" {
		return true
	}
	if s[0] != '/' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '~' {
			continue
		}
		if i+1 >= len(s) || (s[i+1] != '0' && s[i+1] != '1') {
			return false
		}
	}
	return true
}

func isRelativeJSONPointer(s string) bool {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return false
	}
	// No leading zeros in the prefix integer.
	if i > 1 && s[0] == '0' {
		return false
	}
	rest := s[i:]
	return rest == "" || rest == "#" || isJSONPointer(rest)
}

func isUUID(s string) bool {
	// uuid.Parse also admits braced and urn forms; only the canonical
	// 8-4-4-4-12 text form counts here.
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func isRegex(s string) bool {
	_, err := regexp.Compile(s)
	return err == nil
}
