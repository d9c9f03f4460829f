package crypto

import (
	"crypto/rand"
	"io"

	sha256 "github.com/minio/sha256-simd"
	"github.com/named-data/go-ndn/pkg/types"
)

// Sha256 计算数据的 SHA-256 摘要
func Sha256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// DigestString 返回摘要的 Base58 可读表示
//
// 用于日志和 CLI 输出中标识密钥。
func DigestString(digest []byte) string {
	return types.Base58Encode(digest)
}

func randReader() io.Reader {
	return rand.Reader
}
