package security

import (
	"encoding/asn1"
	"fmt"
	"time"

	"github.com/named-data/go-ndn/pkg/types"
)

// ============================================================================
//                              主体描述
// ============================================================================

// 证书主体描述使用 X.520 属性 OID；密钥名断言用 id-at-name（2.5.4.41）。
var OidSubjectName = asn1.ObjectIdentifier{2, 5, 4, 41}

// CertificateSubjectDescription 证书主体的一条属性断言
type CertificateSubjectDescription struct {
	OID   asn1.ObjectIdentifier
	Value string
}

// ============================================================================
//                              DER 结构
// ============================================================================

type certValidity struct {
	NotBefore asn1.RawValue
	NotAfter  asn1.RawValue
}

type certSubjectEntry struct {
	OID   asn1.ObjectIdentifier
	Value string `asn1:"printable"`
}

type certInfo struct {
	Validity         certValidity
	Subject          []certSubjectEntry
	SubjectPublicKey asn1.RawValue
}

// ============================================================================
//                              身份证书
// ============================================================================

// IdentityCertificate 绑定公钥与密钥名的签名证书
//
// 内嵌 Data：证书名即 Data 名（<identity>/KEY/<key-id>/ID-CERT/<version>），
// Data 内容是证书信息的 DER 编码（有效期、主体描述、公钥）。
// 使用前必须先 Encode 再签名。
type IdentityCertificate struct {
	*Data

	notBefore types.Timestamp
	notAfter  types.Timestamp
	subjects  []CertificateSubjectDescription
	publicKey *PublicKey

	publicKeyName *types.Name
}

// NewIdentityCertificate 创建空证书
func NewIdentityCertificate() *IdentityCertificate {
	c := &IdentityCertificate{
		Data:          NewData(),
		publicKeyName: types.NewName(),
	}
	c.MetaInfo().SetContentType(ContentTypeKey)
	return c
}

// IdentityCertificateFromData 从已解码的 Data 恢复证书
//
// 要求 Data 名是合法的证书名，内容是可解析的证书 DER。
func IdentityCertificateFromData(d *Data) (*IdentityCertificate, error) {
	keyName, err := CertificateNameToPublicKeyName(d.Name())
	if err != nil {
		return nil, err
	}

	c := &IdentityCertificate{
		Data:          d.Clone(),
		publicKeyName: keyName,
	}
	if err := c.decodeContent(); err != nil {
		return nil, err
	}
	return c, nil
}

// ============================================================================
//                              访问器
// ============================================================================

// NotBefore 返回有效期起点（毫秒时间戳）
func (c *IdentityCertificate) NotBefore() types.Timestamp { return c.notBefore }

// NotAfter 返回有效期终点（毫秒时间戳）
func (c *IdentityCertificate) NotAfter() types.Timestamp { return c.notAfter }

// SetValidity 设置有效期
func (c *IdentityCertificate) SetValidity(notBefore, notAfter types.Timestamp) {
	c.notBefore = notBefore
	c.notAfter = notAfter
}

// AddSubjectDescription 追加一条主体描述
func (c *IdentityCertificate) AddSubjectDescription(desc CertificateSubjectDescription) {
	c.subjects = append(c.subjects, desc)
}

// SubjectDescriptions 返回全部主体描述
func (c *IdentityCertificate) SubjectDescriptions() []CertificateSubjectDescription {
	return c.subjects
}

// PublicKey 返回证书承载的公钥
func (c *IdentityCertificate) PublicKey() *PublicKey { return c.publicKey }

// SetPublicKey 设置证书承载的公钥
func (c *IdentityCertificate) SetPublicKey(pk *PublicKey) {
	c.publicKey = pk
}

// PublicKeyName 返回证书对应的密钥名
func (c *IdentityCertificate) PublicKeyName() *types.Name { return c.publicKeyName }

// SetName 设置证书名并同步密钥名
//
// 证书名必须符合命名约定，否则返回错误。
func (c *IdentityCertificate) SetName(name *types.Name) error {
	keyName, err := CertificateNameToPublicKeyName(name)
	if err != nil {
		return err
	}
	c.Data.SetName(name)
	c.publicKeyName = keyName
	return nil
}

// IsInValidityPeriod 判断时刻是否落在有效期内
func (c *IdentityCertificate) IsInValidityPeriod(t types.Timestamp) bool {
	return !t.Before(c.notBefore) && !t.After(c.notAfter)
}

// ============================================================================
//                              DER 编解码
// ============================================================================

// Encode 把证书字段定格为 Data 内容的 DER 编码
//
// 字段结构非法（缺公钥、有效期颠倒）时返回 ErrMalformedInput。
// 必须在签名前调用。
func (c *IdentityCertificate) Encode() error {
	if c.publicKey == nil {
		return fmt.Errorf("%w: certificate has no public key", ErrMalformedInput)
	}
	if c.notAfter.Before(c.notBefore) {
		return fmt.Errorf("%w: certificate validity ends before it begins", ErrMalformedInput)
	}

	info := certInfo{
		Validity: certValidity{
			NotBefore: generalizedTime(c.notBefore),
			NotAfter:  generalizedTime(c.notAfter),
		},
		SubjectPublicKey: asn1.RawValue{FullBytes: c.publicKey.KeyDer()},
	}
	for _, s := range c.subjects {
		info.Subject = append(info.Subject, certSubjectEntry{OID: s.OID, Value: s.Value})
	}

	der, err := asn1.Marshal(info)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	c.SetContent(der)
	c.MetaInfo().SetContentType(ContentTypeKey)
	return nil
}

func (c *IdentityCertificate) decodeContent() error {
	var info certInfo
	rest, err := asn1.Unmarshal(c.Content(), &info)
	if err != nil || len(rest) != 0 {
		return fmt.Errorf("%w: undecodable certificate content", ErrMalformedInput)
	}

	notBefore, err := parseGeneralizedTime(info.Validity.NotBefore)
	if err != nil {
		return err
	}
	notAfter, err := parseGeneralizedTime(info.Validity.NotAfter)
	if err != nil {
		return err
	}
	c.notBefore = notBefore
	c.notAfter = notAfter

	c.subjects = nil
	for _, s := range info.Subject {
		c.subjects = append(c.subjects, CertificateSubjectDescription{OID: s.OID, Value: s.Value})
	}

	keyDer := info.SubjectPublicKey.FullBytes
	keyType, err := publicKeyTypeFromDer(keyDer)
	if err != nil {
		return err
	}
	c.publicKey = NewPublicKey(keyType, keyDer)
	return nil
}

// 有效期时间戳按 GeneralizedTime 秒精度编码，与旧实现的
// DER 布局保持一致；名字里的版本组件保留完整毫秒值。
const generalizedTimeLayout = "20060102150405Z"

func generalizedTime(ts types.Timestamp) asn1.RawValue {
	s := ts.Time().UTC().Format(generalizedTimeLayout)
	return asn1.RawValue{
		Class: asn1.ClassUniversal,
		Tag:   asn1.TagGeneralizedTime,
		Bytes: []byte(s),
	}
}

func parseGeneralizedTime(rv asn1.RawValue) (types.Timestamp, error) {
	t, err := time.Parse(generalizedTimeLayout, string(rv.Bytes))
	if err != nil {
		return 0, fmt.Errorf("%w: bad GeneralizedTime %q", ErrMalformedInput, rv.Bytes)
	}
	return types.TimestampFromTime(t), nil
}

// Clone 返回深拷贝
func (c *IdentityCertificate) Clone() *IdentityCertificate {
	out := &IdentityCertificate{
		Data:          c.Data.Clone(),
		notBefore:     c.notBefore,
		notAfter:      c.notAfter,
		publicKeyName: c.publicKeyName.Clone(),
	}
	out.subjects = append(out.subjects, c.subjects...)
	if c.publicKey != nil {
		out.publicKey = NewPublicKey(c.publicKey.KeyType(), c.publicKey.KeyDer())
	}
	return out
}
