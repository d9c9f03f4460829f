package security

import (
	"fmt"

	"github.com/named-data/go-ndn/pkg/types"
)

// ============================================================================
//                              名字约定
// ============================================================================

// 密钥名与证书名中的标记组件
const (
	KeyComponent    = "KEY"
	IDCertComponent = "ID-CERT"
	KskKeyIDPrefix  = "ksk-"
	DskKeyIDPrefix  = "dsk-"
)

// IdentityNameFromKeyName 返回密钥所属的身份名
//
// 密钥名形如 <identity>/KEY/<key-id>，身份名即去掉最后两个组件。
func IdentityNameFromKeyName(keyName *types.Name) (*types.Name, error) {
	if keyName.Size() < 3 {
		return nil, fmt.Errorf("%w: key name %q too short", ErrInvalidName, keyName)
	}
	if keyName.Get(-2).String() != KeyComponent {
		return nil, fmt.Errorf("%w: key name %q lacks %s marker", ErrInvalidName, keyName, KeyComponent)
	}
	return keyName.GetPrefix(-2), nil
}

// KeyNameForIdentity 从身份名与 key-id 组装密钥名
func KeyNameForIdentity(identityName *types.Name, keyID types.Component) *types.Name {
	return identityName.Clone().AppendString(KeyComponent).Append(keyID)
}

// CertificateNameFromKeyName 从密钥名与版本号组装证书名
//
// 版本组件取证书 not-before 时刻的毫秒时间戳。
func CertificateNameFromKeyName(keyName *types.Name, version types.Timestamp) *types.Name {
	return keyName.Clone().AppendString(IDCertComponent).AppendNumber(version.Uint64())
}

// CertificateNameToPublicKeyName 从证书名（或其前缀）恢复密钥名
//
// 截取最后一个 ID-CERT 组件之前的部分。允许传入缺少版本组件的
// 定位器名字（证书名去掉版本号的前缀）。
func CertificateNameToPublicKeyName(certName *types.Name) (*types.Name, error) {
	idCertIndex := -1
	for i := certName.Size() - 1; i >= 0; i-- {
		if certName.Get(i).String() == IDCertComponent {
			idCertIndex = i
			break
		}
	}
	if idCertIndex < 0 {
		return nil, fmt.Errorf("%w: certificate name %q lacks %s component",
			ErrInvalidName, certName, IDCertComponent)
	}
	return KeyNameFromCertificatePrefix(certName.GetPrefix(idCertIndex))
}

// KeyNameFromCertificatePrefix 校验证书前缀含 KEY 标记并返回密钥名
//
// 前缀必须形如 <identity>/KEY/<key-id>（已截去 ID-CERT 及之后的部分）。
func KeyNameFromCertificatePrefix(prefix *types.Name) (*types.Name, error) {
	if _, err := IdentityNameFromKeyName(prefix); err != nil {
		return nil, err
	}
	return prefix.Clone(), nil
}

// CertificatePrefixToKeyName 从任意证书前缀恢复密钥名
//
// 定位 KEY 标记组件，截去 ID-CERT 及之后的部分。
// 用于 createIdentityCertificate 的前缀参数。
func CertificatePrefixToKeyName(certificatePrefix *types.Name) (*types.Name, error) {
	keyIndex := -1
	for i := 0; i < certificatePrefix.Size(); i++ {
		if certificatePrefix.Get(i).String() == KeyComponent {
			keyIndex = i
			break
		}
	}
	if keyIndex < 0 {
		return nil, fmt.Errorf("%w: certificate prefix %q lacks %s marker",
			ErrInvalidName, certificatePrefix, KeyComponent)
	}

	end := certificatePrefix.Size()
	for i := keyIndex + 1; i < certificatePrefix.Size(); i++ {
		if certificatePrefix.Get(i).String() == IDCertComponent {
			end = i
			break
		}
	}
	if end <= keyIndex+1 {
		return nil, fmt.Errorf("%w: certificate prefix %q has no key-id",
			ErrInvalidName, certificatePrefix)
	}
	return certificatePrefix.SubName(0, end), nil
}
