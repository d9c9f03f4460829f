package types

// ============================================================================
//                              KeyType - 密钥类型
// ============================================================================

// KeyType 密钥类型
//
// 数值编码会被持久化到身份存储中，与既有 NDN 客户端库的存储格式对齐：
//   - RSA = 0
//   - AES = 1
//   - EC  = 2
//
// 存储兼容性不变式：这些编码永远不能重新编号。
type KeyType int

const (
	// KeyTypeRSA RSA 密钥
	KeyTypeRSA KeyType = 0
	// KeyTypeAES AES 对称密钥
	KeyTypeAES KeyType = 1
	// KeyTypeEC 椭圆曲线密钥
	KeyTypeEC KeyType = 2
)

// String 返回密钥类型名称
func (kt KeyType) String() string {
	switch kt {
	case KeyTypeRSA:
		return "RSA"
	case KeyTypeAES:
		return "AES"
	case KeyTypeEC:
		return "EC"
	default:
		return "Unknown"
	}
}

// Valid 判断是否为已定义的密钥类型
func (kt KeyType) Valid() bool {
	switch kt {
	case KeyTypeRSA, KeyTypeAES, KeyTypeEC:
		return true
	}
	return false
}

// ============================================================================
//                              KeyClass - 密钥类别
// ============================================================================

// KeyClass 密钥类别（私钥存储中区分公钥/私钥/对称密钥记录）
type KeyClass int

const (
	// KeyClassPublic 公钥
	KeyClassPublic KeyClass = iota
	// KeyClassPrivate 私钥
	KeyClassPrivate
	// KeyClassSymmetric 对称密钥
	KeyClassSymmetric
)

// String 返回密钥类别名称
func (kc KeyClass) String() string {
	switch kc {
	case KeyClassPublic:
		return "Public"
	case KeyClassPrivate:
		return "Private"
	case KeyClassSymmetric:
		return "Symmetric"
	default:
		return "Unknown"
	}
}

// ============================================================================
//                              DigestAlgorithm - 摘要算法
// ============================================================================

// DigestAlgorithm 签名使用的摘要算法
type DigestAlgorithm int

const (
	// DigestAlgorithmSHA256 SHA-256 摘要
	DigestAlgorithmSHA256 DigestAlgorithm = iota
)

// String 返回摘要算法名称
func (da DigestAlgorithm) String() string {
	switch da {
	case DigestAlgorithmSHA256:
		return "SHA-256"
	default:
		return "Unknown"
	}
}
