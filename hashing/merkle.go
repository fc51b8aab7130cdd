package hashing

// MerkleRoot folds a list of hex hashes into a single root.
// Parents hash the concatenated hex text of left and right; an odd node
// at the end of a level is paired with itself.
func MerkleRoot(hashes []string) string {
	if len(hashes) == 0 {
		return DigestString("")
	}
	level := hashes
	for len(level) > 1 {
		level = NextLevel(level)
	}
	return level[0]
}

// NextLevel computes the parent level of a Merkle tree level.
func NextLevel(level []string) []string {
	next := make([]string, 0, (len(level)+1)/2)
	for i := 0; i < len(level); i += 2 {
		left := level[i]
		right := left
		if i+1 < len(level) {
			right = level[i+1]
		}
		next = append(next, HashPair(left, right))
	}
	return next
}

func HashPair(left, right string) string {
	return DigestString(left + right)
}
