// Package identifier は SQL に埋め込むテーブル名・カラム名のホワイトリスト検証を行います。
//
// 動的に組み立てた識別子は、クエリ文字列に入る前に必ず Validate を通過させます。
package identifier

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrInvalidIdentifier は英数字とアンダースコア以外を含む識別子を表します。
var ErrInvalidIdentifier = errors.New("identifier: invalid identifier")

// MaxLength は PostgreSQL の識別子長の上限 (NAMEDATALEN-1) です。
const MaxLength = 63

// Validate は識別子を検証し、そのまま返します。
func Validate(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty: %w", ErrInvalidIdentifier)
	}
	if len(s) > MaxLength {
		return "", fmt.Errorf("%q exceeds %d bytes: %w", s, MaxLength, ErrInvalidIdentifier)
	}
	for i := 0; i < len(s); i++ {
		if !allowed(s[i]) {
			return "", fmt.Errorf("%q: %w", s, ErrInvalidIdentifier)
		}
	}
	return s, nil
}

// ValidateAll はすべての識別子を検証します。最初の失敗で止まります。
func ValidateAll(ids []string) error {
	for _, id := range ids {
		if _, err := Validate(id); err != nil {
			return err
		}
	}
	return nil
}

// Quote は識別子を検証したうえで PostgreSQL の引用符付き識別子にします。
func Quote(s string) (string, error) {
	valid, err := Validate(s)
	if err != nil {
		return "", err
	}
	return pgx.Identifier{valid}.Sanitize(), nil
}

// QuoteAll は各識別子を Quote します。
func QuoteAll(ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		q, err := Quote(id)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func allowed(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		return true
	default:
		return false
	}
}
