package artifact

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// Algorithm is a supported digest function. Names follow Python's hashlib
// constructors, which is how existing metadata spells them.
type Algorithm int

const (
	MD5 Algorithm = iota + 1
	SHA1
	SHA224
	SHA256
	SHA384
	SHA512
	SHA3_224
	SHA3_256
	SHA3_384
	SHA3_512
	BLAKE2b
	BLAKE2s
	BLAKE3
)

var algorithmNames = map[Algorithm]string{
	MD5:      "md5",
	SHA1:     "sha1",
	SHA224:   "sha224",
	SHA256:   "sha256",
	SHA384:   "sha384",
	SHA512:   "sha512",
	SHA3_224: "sha3_224",
	SHA3_256: "sha3_256",
	SHA3_384: "sha3_384",
	SHA3_512: "sha3_512",
	BLAKE2b:  "blake2b",
	BLAKE2s:  "blake2s",
	BLAKE3:   "blake3",
}

// String returns the algorithm name.
func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAlgorithm maps a name such as "sha256" or "SHA3_256" to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "md5":
		return MD5, nil
	case "sha1":
		return SHA1, nil
	case "sha224":
		return SHA224, nil
	case "sha256":
		return SHA256, nil
	case "sha384":
		return SHA384, nil
	case "sha512":
		return SHA512, nil
	case "sha3_224":
		return SHA3_224, nil
	case "sha3_256":
		return SHA3_256, nil
	case "sha3_384":
		return SHA3_384, nil
	case "sha3_512":
		return SHA3_512, nil
	case "blake2b":
		return BLAKE2b, nil
	case "blake2s":
		return BLAKE2s, nil
	case "blake3":
		return BLAKE3, nil
	default:
		return 0, NewUnsupportedAlgorithmError(name)
	}
}

// New returns a fresh hash for the algorithm.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case MD5:
		return md5.New(), nil
	case SHA1:
		return sha1.New(), nil
	case SHA224:
		return sha256.New224(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA512:
		return sha512.New(), nil
	case SHA3_224:
		return sha3.New224(), nil
	case SHA3_256:
		return sha3.New256(), nil
	case SHA3_384:
		return sha3.New384(), nil
	case SHA3_512:
		return sha3.New512(), nil
	case BLAKE2b:
		return blake2b.New512(nil)
	case BLAKE2s:
		return blake2s.New256(nil)
	case BLAKE3:
		return blake3.New(), nil
	default:
		return nil, NewUnsupportedAlgorithmError(a.String())
	}
}
