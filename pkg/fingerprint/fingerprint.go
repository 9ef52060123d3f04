// Package fingerprint computes the two one-way digests stored alongside an
// account: one over the answer to its recovery question and one over resource
// names looked up in archives.
//
// Neither is a cryptographic hash. Both must reproduce existing stored values
// bit for bit, overflow included.
package fingerprint

// Recovery digests a recovery answer. Case is ignored and only ASCII letters
// and digits take part; an answer with none of them digests to 0.
func Recovery(answer string) uint64 {
	var hash, idx uint64
	for i := 0; i < len(answer); i++ {
		b := toLower(answer[i])
		if !isAlnum(b) {
			continue
		}
		cp := uint64(b)
		hash = hash * 47 * (hash - cp*6 - idx*7)
		hash += cp - 32 + idx*cp
		idx++
	}
	return hash
}

// Resource digests an archive entry name. Case is ignored.
func Resource(name string) int32 {
	var hash int32
	for i := 0; i < len(name); i++ {
		hash = hash*61 + int32(toUpper(name[i])) - 32
	}
	return hash
}

// HashRecoveryAnswer is Recovery under the name hosts know it by.
func HashRecoveryAnswer(answer string) uint64 {
	return Recovery(answer)
}

// HashResourceName is Resource under the name hosts know it by.
func HashResourceName(name string) int32 {
	return Resource(name)
}

func isAlnum(b byte) bool {
	return b-'a' < 26 || b-'0' < 10
}

func toLower(b byte) byte {
	if b-'A' < 26 {
		return b | 32
	}
	return b
}

func toUpper(b byte) byte {
	if b-'a' < 26 {
		return b &^ 32
	}
	return b
}
