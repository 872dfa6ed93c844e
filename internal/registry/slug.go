// Copyright 2026 The UNIV.LIVE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"regexp"
	"strings"
)

const (
	slugMinLen = 3
	slugMaxLen = 40
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$`)

// reservedSlugs are platform routes that can never become tenant slugs.
var reservedSlugs = map[string]struct{}{
	"www":       {},
	"api":       {},
	"admin":     {},
	"login":     {},
	"logout":    {},
	"signup":    {},
	"register":  {},
	"app":       {},
	"dashboard": {},
	"pricing":   {},
	"blog":      {},
	"docs":      {},
	"help":      {},
	"support":   {},
	"status":    {},
	"mail":      {},
	"static":    {},
	"assets":    {},
	"cdn":       {},
	"univ":      {},
	"live":      {},
}

// NormalizeSlug lowercases the input, collapses every run of characters
// outside [a-z0-9-] into a single hyphen, and strips leading/trailing
// hyphens. Hyphens already present are kept as-is. Normalization is
// idempotent.
func NormalizeSlug(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(lower))
	pendingHyphen := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			if pendingHyphen {
				if b.Len() > 0 {
					b.WriteByte('-')
				}
				pendingHyphen = false
			}
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// ValidateSlug checks a normalized slug against length, shape and the
// reserved-word set.
func ValidateSlug(slug string) error {
	if len(slug) < slugMinLen || len(slug) > slugMaxLen {
		return ErrInvalidSlug
	}
	if !slugPattern.MatchString(slug) {
		return ErrInvalidSlug
	}
	if _, ok := reservedSlugs[slug]; ok {
		return ErrSlugReserved
	}
	return nil
}

// IsReservedSlug reports whether slug is a platform route.
func IsReservedSlug(slug string) bool {
	_, ok := reservedSlugs[slug]
	return ok
}
