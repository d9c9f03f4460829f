package identity

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/named-data/go-ndn/pkg/interfaces"
	"github.com/named-data/go-ndn/pkg/security"
	"github.com/named-data/go-ndn/pkg/types"
)

// 自签名证书的有效期：两年
const selfSignedValidityMs = 2 * 365 * 24 * 3600 * 1000

// 默认密钥参数
const (
	DefaultKeyType = types.KeyTypeRSA
	DefaultKeySize = 2048
)

// Manager 身份管理器
//
// 默认指针（默认身份、身份的默认密钥、密钥的默认证书）只经
// 本类型修改。实例不做内部加锁，并发使用需外部同步。
type Manager struct {
	identityStorage   interfaces.IdentityStorage
	privateKeyStorage interfaces.PrivateKeyStorage

	keyType types.KeyType
	keySize int
	clock   clock.Clock
}

// ManagerOption 管理器的可选配置
type ManagerOption func(*Manager)

// WithClock 替换时钟（测试用）
func WithClock(c clock.Clock) ManagerOption {
	return func(m *Manager) { m.clock = c }
}

// WithDefaultKeyParams 设置 CreateIdentity 生成默认密钥的参数
func WithDefaultKeyParams(keyType types.KeyType, keySize int) ManagerOption {
	return func(m *Manager) {
		m.keyType = keyType
		m.keySize = keySize
	}
}

// NewManager 创建身份管理器
func NewManager(identityStorage interfaces.IdentityStorage,
	privateKeyStorage interfaces.PrivateKeyStorage, opts ...ManagerOption) *Manager {

	m := &Manager{
		identityStorage:   identityStorage,
		privateKeyStorage: privateKeyStorage,
		keyType:           DefaultKeyType,
		keySize:           DefaultKeySize,
		clock:             clock.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ============================================================================
//                              身份生命周期
// ============================================================================

// CreateIdentity 创建身份及其默认密钥与自签名证书
//
// 身份已存在时返回 ErrAlreadyExists，创建不是幂等操作。
// 返回生成的密钥名。
func (m *Manager) CreateIdentity(identityName *types.Name) (*types.Name, error) {
	exists, err := m.identityStorage.DoesIdentityExist(identityName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: identity %q", security.ErrAlreadyExists, identityName)
	}

	if err := m.identityStorage.AddIdentity(identityName); err != nil {
		return nil, err
	}

	keyName, err := m.GenerateKeyPair(identityName, true, m.keyType, m.keySize)
	if err != nil {
		return nil, err
	}
	if err := m.identityStorage.SetDefaultKeyNameForIdentity(keyName, identityName); err != nil {
		return nil, err
	}

	cert, err := m.SelfSign(keyName)
	if err != nil {
		return nil, err
	}
	if err := m.AddCertificateAsDefault(cert); err != nil {
		return nil, err
	}

	logger.Info("identity created", "identity", identityName.String(), "key", keyName.String())
	return keyName, nil
}

// GenerateKeyPair 生成密钥对并记录公钥
//
// 新密钥名由身份存储分配，key-id 唯一性由存储保证。
func (m *Manager) GenerateKeyPair(identityName *types.Name, isKsk bool,
	keyType types.KeyType, keySize int) (*types.Name, error) {

	keyName, err := m.identityStorage.GetNewKeyName(identityName, isKsk)
	if err != nil {
		return nil, err
	}

	if err := m.privateKeyStorage.GenerateKeyPair(keyName, keyType, keySize); err != nil {
		return nil, err
	}

	pub, err := m.privateKeyStorage.GetPublicKey(keyName)
	if err != nil {
		return nil, err
	}
	if err := m.identityStorage.AddKey(keyName, keyType, pub.KeyDer()); err != nil {
		return nil, err
	}

	return keyName, nil
}

// GenerateRSAKeyPair 生成 RSA 密钥对（默认 2048 位）
func (m *Manager) GenerateRSAKeyPair(identityName *types.Name, isKsk bool) (*types.Name, error) {
	return m.GenerateKeyPair(identityName, isKsk, types.KeyTypeRSA, DefaultKeySize)
}

// GenerateRSAKeyPairAsDefault 生成 RSA 密钥对并设为身份默认密钥
func (m *Manager) GenerateRSAKeyPairAsDefault(identityName *types.Name, isKsk bool) (*types.Name, error) {
	keyName, err := m.GenerateRSAKeyPair(identityName, isKsk)
	if err != nil {
		return nil, err
	}
	if err := m.identityStorage.SetDefaultKeyNameForIdentity(keyName, identityName); err != nil {
		return nil, err
	}
	return keyName, nil
}

// ============================================================================
//                              默认指针
// ============================================================================

// SetDefaultIdentity 设置默认身份
func (m *Manager) SetDefaultIdentity(identityName *types.Name) error {
	return m.identityStorage.SetDefaultIdentity(identityName)
}

// GetDefaultIdentity 返回默认身份，未设置时返回 ErrNotFound
func (m *Manager) GetDefaultIdentity() (*types.Name, error) {
	return m.identityStorage.GetDefaultIdentity()
}

// SetDefaultKeyForIdentity 设置身份的默认密钥
//
// identityName 为 nil 时从密钥名推断所属身份。
func (m *Manager) SetDefaultKeyForIdentity(keyName, identityName *types.Name) error {
	if identityName == nil || identityName.IsEmpty() {
		owner, err := security.IdentityNameFromKeyName(keyName)
		if err != nil {
			return err
		}
		identityName = owner
	}
	return m.identityStorage.SetDefaultKeyNameForIdentity(keyName, identityName)
}

// GetDefaultKeyNameForIdentity 返回身份的默认密钥名
func (m *Manager) GetDefaultKeyNameForIdentity(identityName *types.Name) (*types.Name, error) {
	return m.identityStorage.GetDefaultKeyNameForIdentity(identityName)
}

// GetDefaultCertificateNameForIdentity 沿身份→默认密钥→默认证书链式解析
//
// 任一环节缺失即返回 ErrNotFound。
func (m *Manager) GetDefaultCertificateNameForIdentity(identityName *types.Name) (*types.Name, error) {
	keyName, err := m.identityStorage.GetDefaultKeyNameForIdentity(identityName)
	if err != nil {
		return nil, err
	}
	return m.identityStorage.GetDefaultCertificateNameForKey(keyName)
}

// GetDefaultCertificateName 返回默认身份的默认证书名
func (m *Manager) GetDefaultCertificateName() (*types.Name, error) {
	identityName, err := m.identityStorage.GetDefaultIdentity()
	if err != nil {
		return nil, err
	}
	return m.GetDefaultCertificateNameForIdentity(identityName)
}

// ============================================================================
//                              公钥与证书
// ============================================================================

// GetPublicKey 返回密钥记录对应的公钥值
func (m *Manager) GetPublicKey(keyName *types.Name) (*security.PublicKey, error) {
	der, err := m.identityStorage.GetKey(keyName)
	if err != nil {
		return nil, err
	}
	keyType, err := m.identityStorage.GetKeyType(keyName)
	if err != nil {
		return nil, err
	}
	return security.NewPublicKey(keyType, der), nil
}

// CreateIdentityCertificate 为已有密钥签发证书并持久化
//
// certificatePrefix 必须含 KEY 标记组件，被签发的密钥由此定位。
func (m *Manager) CreateIdentityCertificate(certificatePrefix, signerCertificateName *types.Name,
	notBefore, notAfter types.Timestamp) (*security.IdentityCertificate, error) {

	keyName, err := security.CertificatePrefixToKeyName(certificatePrefix)
	if err != nil {
		return nil, err
	}

	publicKey, err := m.GetPublicKey(keyName)
	if err != nil {
		return nil, err
	}

	cert, err := m.buildCertificate(keyName, publicKey, notBefore, notAfter)
	if err != nil {
		return nil, err
	}
	if err := m.SignDataByCertificate(cert.Data, signerCertificateName, nil); err != nil {
		return nil, err
	}
	if err := m.identityStorage.AddCertificate(cert); err != nil {
		return nil, err
	}
	return cert, nil
}

// CreateIdentityCertificateForPublicKey 为外部提供的公钥签发证书
//
// 外部公钥没有定义编码规则，本实现显式拒绝而不是静默忽略。
func (m *Manager) CreateIdentityCertificateForPublicKey(certificatePrefix *types.Name,
	publicKey *security.PublicKey, signerCertificateName *types.Name,
	notBefore, notAfter types.Timestamp) (*security.IdentityCertificate, error) {

	return nil, fmt.Errorf("%w: certificates for caller-supplied public keys", security.ErrUnsupported)
}

// buildCertificate 组装未签名的证书
func (m *Manager) buildCertificate(keyName *types.Name, publicKey *security.PublicKey,
	notBefore, notAfter types.Timestamp) (*security.IdentityCertificate, error) {

	cert := security.NewIdentityCertificate()
	if err := cert.SetName(security.CertificateNameFromKeyName(keyName, notBefore)); err != nil {
		return nil, err
	}
	cert.SetValidity(notBefore, notAfter)
	cert.SetPublicKey(publicKey)
	cert.AddSubjectDescription(security.CertificateSubjectDescription{
		OID:   security.OidSubjectName,
		Value: keyName.String(),
	})

	if err := cert.Encode(); err != nil {
		return nil, err
	}
	return cert, nil
}

// SelfSign 生成密钥的自签名证书
//
// 有效期为创建时刻起两年；签名者与主体同为该密钥，
// 这是唯一允许二者一致的场合。证书编码失败时直接返回错误。
func (m *Manager) SelfSign(keyName *types.Name) (*security.IdentityCertificate, error) {
	publicKey, err := m.GetPublicKey(keyName)
	if err != nil {
		return nil, err
	}

	notBefore := types.TimestampFromTime(m.clock.Now())
	notAfter := notBefore + selfSignedValidityMs

	cert, err := m.buildCertificate(keyName, publicKey, notBefore, notAfter)
	if err != nil {
		return nil, err
	}
	if err := m.SignDataByCertificate(cert.Data, cert.Name(), nil); err != nil {
		return nil, err
	}
	return cert, nil
}

// AddCertificate 持久化证书
func (m *Manager) AddCertificate(certificate *security.IdentityCertificate) error {
	return m.identityStorage.AddCertificate(certificate)
}

// AddCertificateAsDefault 持久化证书并设为其密钥的默认证书
func (m *Manager) AddCertificateAsDefault(certificate *security.IdentityCertificate) error {
	if err := m.identityStorage.AddCertificate(certificate); err != nil {
		return err
	}
	return m.identityStorage.SetDefaultCertificateNameForKey(
		certificate.PublicKeyName(), certificate.Name())
}

// AddCertificateAsIdentityDefault 持久化证书并级联更新默认指针
//
// 先设身份的默认密钥，再设密钥的默认证书，部分失败时
// 默认指针停留在已完成的一级。要求密钥记录已存在。
func (m *Manager) AddCertificateAsIdentityDefault(certificate *security.IdentityCertificate) error {
	keyName := certificate.PublicKeyName()
	exists, err := m.identityStorage.DoesKeyExist(keyName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: key %q for certificate", security.ErrNotFound, keyName)
	}

	if err := m.identityStorage.AddCertificate(certificate); err != nil {
		return err
	}

	identityName, err := security.IdentityNameFromKeyName(keyName)
	if err != nil {
		return err
	}
	if err := m.identityStorage.SetDefaultKeyNameForIdentity(keyName, identityName); err != nil {
		return err
	}
	return m.identityStorage.SetDefaultCertificateNameForKey(keyName, certificate.Name())
}

// GetCertificate 返回当前处于有效期内的证书
func (m *Manager) GetCertificate(certificateName *types.Name) (*security.IdentityCertificate, error) {
	return m.identityStorage.GetCertificate(certificateName, false)
}

// GetAnyCertificate 返回证书，不检查有效期
func (m *Manager) GetAnyCertificate(certificateName *types.Name) (*security.IdentityCertificate, error) {
	return m.identityStorage.GetCertificate(certificateName, true)
}

// ============================================================================
//                              签名
// ============================================================================

// makeSignatureByCertificate 构造证书对应方案的空签名
//
// 密钥定位器设为证书名去掉版本号的前缀（KEYNAME 约定），
// RSA 方案额外填充发布者公钥摘要。
func (m *Manager) makeSignatureByCertificate(certificateName *types.Name) (security.Signature, *types.Name, error) {
	keyName, err := security.CertificateNameToPublicKeyName(certificateName)
	if err != nil {
		return nil, nil, err
	}

	publicKey, err := m.privateKeyStorage.GetPublicKey(keyName)
	if err != nil {
		return nil, nil, err
	}

	sig, err := security.NewSignatureForKeyType(publicKey.KeyType())
	if err != nil {
		return nil, nil, err
	}

	locatorName := certificateName.GetPrefix(-1)
	switch s := sig.(type) {
	case *security.Sha256WithRsaSignature:
		s.KeyLocator().SetType(security.KeyLocatorTypeKeyName)
		s.KeyLocator().SetKeyName(locatorName)
		s.KeyLocator().SetKeyNameType(security.KeyNameTypePublisherPublicKeyDigest)
		s.SetPublisherPublicKeyDigest(publicKey.Digest())
	case *security.Sha256WithEcdsaSignature:
		s.KeyLocator().SetType(security.KeyLocatorTypeKeyName)
		s.KeyLocator().SetKeyName(locatorName)
	}

	return sig, keyName, nil
}

// SignBuffer 用证书的密钥对字节缓冲签名，返回完整的签名值
func (m *Manager) SignBuffer(data []byte, certificateName *types.Name) (security.Signature, error) {
	sig, keyName, err := m.makeSignatureByCertificate(certificateName)
	if err != nil {
		return nil, err
	}

	sigBytes, err := m.privateKeyStorage.Sign(data, keyName, types.DigestAlgorithmSHA256)
	if err != nil {
		return nil, err
	}
	sig.SetSignatureBytes(sigBytes)
	return sig, nil
}

// SignDataByCertificate 用证书的密钥就地签名 Data
//
// 两次序列化：第一次确定被签名区间（签名值尚不存在），
// 写回签名字节后的第二次序列化产出最终编码。
func (m *Manager) SignDataByCertificate(data *security.Data, certificateName *types.Name,
	wf security.WireFormat) error {

	sig, keyName, err := m.makeSignatureByCertificate(certificateName)
	if err != nil {
		return err
	}
	data.SetSignature(sig)

	encoding, err := data.WireEncode(wf)
	if err != nil {
		return err
	}

	sigBytes, err := m.privateKeyStorage.Sign(encoding.SignedPortion(), keyName, types.DigestAlgorithmSHA256)
	if err != nil {
		return err
	}
	data.Signature().SetSignatureBytes(sigBytes)

	_, err = data.WireEncode(wf)
	return err
}

// SignInterestByCertificate 用证书的密钥就地签名 Interest
//
// 先追加编码后的签名信息组件和等长布局的空占位组件，
// 序列化取得被签名区间并签名，再用真正的签名值组件换掉占位。
func (m *Manager) SignInterestByCertificate(interest *security.Interest, certificateName *types.Name,
	wf security.WireFormat) error {

	format := wf
	if format == nil {
		format = security.DefaultWireFormat()
	}
	if format == nil {
		return security.ErrUnsupported
	}

	sig, keyName, err := m.makeSignatureByCertificate(certificateName)
	if err != nil {
		return err
	}

	infoBytes, err := format.EncodeSignatureInfo(sig)
	if err != nil {
		return err
	}

	interest.Name().Append(types.NewComponent(infoBytes))
	interest.Name().Append(types.NewComponent(nil)) // 签名值占位

	encoding, err := interest.WireEncode(format)
	if err != nil {
		return err
	}

	sigBytes, err := m.privateKeyStorage.Sign(encoding.SignedPortion(), keyName, types.DigestAlgorithmSHA256)
	if err != nil {
		return err
	}
	sig.SetSignatureBytes(sigBytes)

	valueBytes, err := format.EncodeSignatureValue(sig)
	if err != nil {
		return err
	}

	finalName := interest.Name().GetPrefix(-1).Append(types.NewComponent(valueBytes))
	interest.SetName(finalName)
	return nil
}
