package compile

import "fmt"

// maxIdentifierLength is the shortest limit of the supported databases
// (Postgres truncates at 63 bytes, MySQL rejects more than 64).
const maxIdentifierLength = 63

// ValidateIdentifier reports whether name can be written unquoted: ASCII
// letters, digits and underscores, not starting with a digit. Aliases and
// CTE names are validated before they are written; table and column names
// are quoted instead.
func ValidateIdentifier(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("identifier cannot be empty")
	case len(name) > maxIdentifierLength:
		return fmt.Errorf("identifier %q is longer than %d bytes", name, maxIdentifierLength)
	case isDigit(name[0]):
		return fmt.Errorf("identifier %q starts with a digit", name)
	}
	for i := 0; i < len(name); i++ {
		if c := name[i]; !isWordByte(c) {
			return fmt.Errorf("identifier %q contains %q at offset %d", name, c, i)
		}
	}
	return nil
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isWordByte(c byte) bool {
	return c == '_' || isDigit(c) || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
