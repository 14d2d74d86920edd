package pass

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spaolacci/murmur3"
)

// Maximum number of cryptomatte ranks; each pass stores two ranks.
const maxCryptomatteLevels = 16

// Cryptomatte metadata tags.
const (
	cryptomatteHash       = "MurmurHash3_32"
	cryptomatteConversion = "uint32_to_float32"
)

// CryptomatteCategory selects what a cryptomatte layer identifies.
type CryptomatteCategory uint8

const (
	CryptoObject CryptomatteCategory = iota
	CryptoMaterial
	CryptoAsset
)

var categoryNames = [...]string{"CryptoObject", "CryptoMaterial", "CryptoAsset"}

// LayerName returns the layer name used as the pass name prefix.
func (c CryptomatteCategory) LayerName() string {
	return categoryNames[c]
}

// CryptomatteDepth returns the number of 4 channel passes needed to store
// the requested number of levels.
func CryptomatteDepth(levels int) int {
	if levels <= 0 {
		return 0
	}
	return (min(maxCryptomatteLevels, levels) + 1) / 2
}

// HashName returns the MurmurHash3 id of a name.
func HashName(name string) uint32 {
	return murmur3.Sum32([]byte(name))
}

// HashToFloat converts a hash to a float whose bit pattern is neither a
// denormal nor inf/nan so it survives float storage.
func HashToFloat(hash uint32) float32 {
	exp := (hash >> 23) & 0xff
	if exp == 0 || exp == 0xff {
		hash ^= 1 << 23
	}
	return math.Float32frombits(hash)
}

// Manifest builds the JSON manifest that maps names to their hex ids.
func Manifest(names []string) string {
	ids := make(map[string]string, len(names))
	for _, name := range names {
		ids[name] = fmt.Sprintf("%08x", math.Float32bits(HashToFloat(HashName(name))))
	}

	// Maps are encoded with sorted keys.
	data, _ := json.Marshal(ids)
	return string(data)
}

// Metadata describes one cryptomatte layer for the downstream compositor.
type Metadata struct {
	// Key prefix derived from the layer name hash, e.g. "cryptomatte/f834d0a/".
	Key string

	Name       string
	Hash       string
	Conversion string
	Manifest   string
}

func newMetadata(category CryptomatteCategory, names []string) Metadata {
	layer := category.LayerName()
	return Metadata{
		Key:        fmt.Sprintf("cryptomatte/%s/", fmt.Sprintf("%08x", HashName(layer))[:7]),
		Name:       layer,
		Hash:       cryptomatteHash,
		Conversion: cryptomatteConversion,
		Manifest:   Manifest(names),
	}
}

// Attributes flattens the metadata into file header attributes.
func (m Metadata) Attributes() map[string]string {
	return map[string]string{
		m.Key + "name":       m.Name,
		m.Key + "hash":       m.Hash,
		m.Key + "conversion": m.Conversion,
		m.Key + "manifest":   m.Manifest,
	}
}
