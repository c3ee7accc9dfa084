package hashid

import (
	"encoding/binary"
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/sha3"
)

// Listing derives the hash address of a new listing from the seller identity,
// the listing fields, and the ledger's creation counter. The counter makes
// ids unique even for identical (seller, name, price) tuples.
func Listing(seller, name string, price, counter uint64) string {
	return digest("listing", seller, name, price, counter)
}

// Escrow derives the hash address of a new escrow record.
func Escrow(seller, buyer string, amount, counter uint64) string {
	return digest("escrow", seller, buyer, amount, counter)
}

func digest(kind, a, b string, amount, counter uint64) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(kind))
	writeStr(h, a)
	writeStr(h, b)
	writeUint(h, amount)
	writeUint(h, counter)
	return hex.EncodeToString(h.Sum(nil))
}

// writeStr length-prefixes each field so ("ab","c") and ("a","bc") cannot
// collide.
func writeStr(h hash.Hash, s string) {
	writeUint(h, uint64(len(s)))
	h.Write([]byte(s))
}

func writeUint(h hash.Hash, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}
