package core

// ValidGSTIN reports whether s is a well-formed 15-character GSTIN.
// Rules are applied in order, short-circuiting on the first failure:
//
//	1. exactly 15 characters
//	2. characters 1-2 are digits (state code)
//	3. characters 3-12 are the PAN block: 5 letters, 4 digits, 1 letter
//	4. character 13 is alphanumeric (entity code)
//	5. character 15 is alphanumeric (checksum position; only the
//	   character class is checked, not the checksum itself)
//
// Character 14 is not checked. No side effects — used both when saving a
// Party and as a precondition inside document validation.
func ValidGSTIN(s string) bool {
	if len(s) != 15 {
		return false
	}
	for i := 0; i < 2; i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	for i := 2; i < 7; i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	for i := 7; i < 11; i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	if !isLetter(s[11]) {
		return false
	}
	if !isAlnum(s[12]) {
		return false
	}
	return isAlnum(s[14])
}

// GSTINStateCode returns the 2-digit state code prefix of a GSTIN, or ""
// if the GSTIN is too short to carry one.
func GSTINStateCode(gstin string) string {
	if len(gstin) < 2 {
		return ""
	}
	return gstin[:2]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isAlnum(c byte) bool { return isDigit(c) || isLetter(c) }
